package decision

import "errors"

// Validation errors: malformed but well-typed input. All are recoverable;
// the engine never panics on them.
var (
	// ErrInvalidConflictType means the conflict type is not a recognized value.
	ErrInvalidConflictType = errors.New("invalid conflict type")
	// ErrNoParticipants means the participant list was empty at trigger.
	ErrNoParticipants = errors.New("participating agents list is empty")
	// ErrNotFound means the decision ID resolves to neither active nor
	// completed storage.
	ErrNotFound = errors.New("decision not found")
	// ErrNotActive means the decision exists but has been finalized, so no
	// further mutation may succeed against it.
	ErrNotActive = errors.New("decision is not active")
)

// Phase violations: the operation is not accepted in the decision's
// current phase.
var (
	// ErrWrongPhase means the operation is only legal in a different phase.
	ErrWrongPhase = errors.New("operation not allowed in current phase")
	// ErrIllegalTransition means AdvancePhase was asked to skip ahead,
	// move backward, or enter commitment without going through Finalize.
	ErrIllegalTransition = errors.New("illegal phase transition")
)

// Duplicate submissions.
var (
	// ErrDuplicateProposal means the agent already has a proposal recorded.
	ErrDuplicateProposal = errors.New("agent has already submitted a proposal")
	// ErrDuplicateVote means the agent already cast a ballot.
	ErrDuplicateVote = errors.New("agent has already voted")
)

// Referential and eligibility errors.
var (
	// ErrNotParticipant means the agent is not in the decision's
	// participating set.
	ErrNotParticipant = errors.New("agent is not a participant in this decision")
	// ErrUnknownOption means a ballot referenced an option ID that does not
	// exist on the decision.
	ErrUnknownOption = errors.New("ballot references unknown option")
	// ErrNoOptions means synthesis was asked to install an empty option set.
	ErrNoOptions = errors.New("no voting options supplied")
)

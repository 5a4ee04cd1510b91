package models

// ConflictType categorizes why a democratic decision was triggered.
// It is informational only and never feeds into the tally.
type ConflictType string

const (
	// ConflictArchitectureDecision marks a structural design choice.
	ConflictArchitectureDecision ConflictType = "architecture_decision"
	// ConflictAgentDisagreement marks two or more agents at an impasse.
	ConflictAgentDisagreement ConflictType = "agent_disagreement"
	// ConflictUXUIDirection marks a user-facing design direction choice.
	ConflictUXUIDirection ConflictType = "ux_ui_direction"
	// ConflictPerformanceTradeoff marks a speed-versus-something decision.
	ConflictPerformanceTradeoff ConflictType = "performance_tradeoff"
	// ConflictManualTrigger marks a decision started explicitly by the operator.
	ConflictManualTrigger ConflictType = "manual_trigger"
)

// Valid returns true if the conflict type is a known value.
func (c ConflictType) Valid() bool {
	switch c {
	case ConflictArchitectureDecision, ConflictAgentDisagreement,
		ConflictUXUIDirection, ConflictPerformanceTradeoff, ConflictManualTrigger:
		return true
	default:
		return false
	}
}

// ConflictTypes lists every recognized conflict type, for help text and
// validation messages.
func ConflictTypes() []ConflictType {
	return []ConflictType{
		ConflictArchitectureDecision,
		ConflictAgentDisagreement,
		ConflictUXUIDirection,
		ConflictPerformanceTradeoff,
		ConflictManualTrigger,
	}
}

// Phase is one of the five stages a decision moves through, in order.
type Phase string

const (
	// PhaseContextLoading is the initial phase; context preparation happens
	// here before the floor opens for ideas.
	PhaseContextLoading Phase = "context_loading"
	// PhaseIdeaCollection is when participating agents submit proposals.
	PhaseIdeaCollection Phase = "idea_collection"
	// PhaseSynthesis is when proposals are clustered into voting options.
	PhaseSynthesis Phase = "synthesis"
	// PhaseRankedVoting is when agents cast ranked ballots.
	PhaseRankedVoting Phase = "ranked_voting"
	// PhaseCommitment is terminal; the decision is finalized and read-only.
	PhaseCommitment Phase = "commitment"
)

// Valid returns true if the phase is a known value.
func (p Phase) Valid() bool {
	switch p {
	case PhaseContextLoading, PhaseIdeaCollection, PhaseSynthesis,
		PhaseRankedVoting, PhaseCommitment:
		return true
	default:
		return false
	}
}

// Next returns the canonical successor phase. The second return is false
// when the phase is terminal or unknown.
func (p Phase) Next() (Phase, bool) {
	switch p {
	case PhaseContextLoading:
		return PhaseIdeaCollection, true
	case PhaseIdeaCollection:
		return PhaseSynthesis, true
	case PhaseSynthesis:
		return PhaseRankedVoting, true
	case PhaseRankedVoting:
		return PhaseCommitment, true
	default:
		return "", false
	}
}

// Terminal returns true once a decision can no longer be mutated.
func (p Phase) Terminal() bool {
	return p == PhaseCommitment
}

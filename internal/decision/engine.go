// Package decision implements the democratic decision engine: a phase
// state machine over decision records plus a Borda-count tally. The engine
// exclusively owns its records; callers submit data through its operations
// and receive deep-copied snapshots back.
package decision

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/ShayCichocki/quorum/pkg/models"
)

// Engine drives decisions through their five phases and enforces every
// submission invariant. All operations are short, synchronous, and safe for
// concurrent use: mutations on the same decision serialize on a per-decision
// lock, while different decisions proceed fully in parallel.
type Engine struct {
	store  *Store
	log    *slog.Logger
	events *EventEmitter
	now    func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine's logger. Defaults to a no-op logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithEvents attaches an event emitter that receives lifecycle events.
func WithEvents(em *EventEmitter) Option {
	return func(e *Engine) { e.events = em }
}

// WithClock overrides the engine's time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine creates an engine over the given store.
func NewEngine(store *Store, opts ...Option) *Engine {
	e := &Engine{
		store: store,
		log:   slog.New(discardHandler{}),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Trigger starts a new decision in the context_loading phase and returns its
// ID. The engine never advances past context_loading on its own here; the
// caller opens the floor for ideas with an explicit AdvancePhase, so context
// preparation can happen in between.
func (e *Engine) Trigger(conflictType models.ConflictType, triggerReason, context string, participants []string) (string, error) {
	if !conflictType.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidConflictType, conflictType)
	}
	if len(participants) == 0 {
		return "", ErrNoParticipants
	}

	start := e.now()
	d := &models.Decision{
		ConflictType:        conflictType,
		TriggerReason:       triggerReason,
		Context:             context,
		ParticipatingAgents: append([]string(nil), participants...),
		StartTime:           start,
		CurrentPhase:        models.PhaseContextLoading,
	}

	// IDs embed the trigger time and conflict type. A counter suffix breaks
	// ties when two decisions of the same type land in the same second.
	base := fmt.Sprintf("decision_%d_%s", start.Unix(), conflictType)
	d.DecisionID = base
	for n := 2; !e.store.insert(d); n++ {
		d.DecisionID = fmt.Sprintf("%s_%d", base, n)
	}

	e.log.Info("decision triggered",
		"decision_id", d.DecisionID,
		"conflict_type", string(conflictType),
		"participants", len(participants))
	e.emit(Event{Type: EventTriggered, DecisionID: d.DecisionID, Phase: d.CurrentPhase, Time: start})
	return d.DecisionID, nil
}

// AdvancePhase moves an active decision to the canonical next phase. Only
// the immediate successor is legal, and commitment is reachable solely
// through Finalize.
func (e *Engine) AdvancePhase(id string, phase models.Phase) error {
	rec, ok := e.store.lookup(id)
	if !ok {
		return e.notActiveErr(id)
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	if rec.finalized {
		return ErrNotActive
	}

	next, ok := rec.d.CurrentPhase.Next()
	if !ok || phase != next || phase == models.PhaseCommitment {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, rec.d.CurrentPhase, phase)
	}
	rec.d.CurrentPhase = phase

	e.log.Info("phase advanced", "decision_id", id, "phase", string(phase))
	e.emit(Event{Type: EventPhaseAdvanced, DecisionID: id, Phase: phase, Time: e.now()})
	return nil
}

// SubmitProposal records one agent's idea. Accepted only during
// idea_collection, only from participants, and only once per agent.
func (e *Engine) SubmitProposal(id, agentName, proposal, reasoning string) error {
	rec, ok := e.store.lookup(id)
	if !ok {
		return e.notActiveErr(id)
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	if rec.finalized {
		return ErrNotActive
	}

	d := rec.d
	if d.CurrentPhase != models.PhaseIdeaCollection {
		return fmt.Errorf("%w: proposals require %s, decision is in %s",
			ErrWrongPhase, models.PhaseIdeaCollection, d.CurrentPhase)
	}
	if !d.IsParticipant(agentName) {
		return fmt.Errorf("%w: %s", ErrNotParticipant, agentName)
	}
	if d.HasProposalFrom(agentName) {
		return fmt.Errorf("%w: %s", ErrDuplicateProposal, agentName)
	}

	d.Proposals = append(d.Proposals, models.Proposal{
		AgentName: agentName,
		Proposal:  proposal,
		Reasoning: reasoning,
		Timestamp: e.now(),
	})

	e.log.Info("proposal recorded", "decision_id", id, "agent", agentName,
		"proposals", len(d.Proposals), "participants", len(d.ParticipatingAgents))
	e.emit(Event{Type: EventProposalSubmitted, DecisionID: id, Agent: agentName, Phase: d.CurrentPhase, Time: e.now()})
	return nil
}

// SynthesizeOptions replaces the decision's voting options wholesale with
// the given drafts, assigning IDs option_1..option_k in input order.
// Re-calling overwrites the previous set; it never appends.
func (e *Engine) SynthesizeOptions(id string, drafts []models.OptionDraft) error {
	rec, ok := e.store.lookup(id)
	if !ok {
		return e.notActiveErr(id)
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	if rec.finalized {
		return ErrNotActive
	}

	d := rec.d
	if d.CurrentPhase != models.PhaseSynthesis {
		return fmt.Errorf("%w: synthesis requires %s, decision is in %s",
			ErrWrongPhase, models.PhaseSynthesis, d.CurrentPhase)
	}
	if len(drafts) == 0 {
		return ErrNoOptions
	}

	options := make([]models.VotingOption, len(drafts))
	for i, draft := range drafts {
		options[i] = models.VotingOption{
			OptionID:        fmt.Sprintf("option_%d", i+1),
			Title:           draft.Title,
			Description:     draft.Description,
			SourceProposals: append([]string(nil), draft.SourceProposals...),
		}
	}
	d.VotingOptions = options

	e.log.Info("options synthesized", "decision_id", id, "options", len(options))
	e.emit(Event{Type: EventOptionsSynthesized, DecisionID: id, Phase: d.CurrentPhase, Time: e.now()})
	return nil
}

// SubmitVote records one agent's ranked ballot. Partial rankings are
// permitted. Once the vote count reaches the participant count the tally
// runs automatically, exactly once.
func (e *Engine) SubmitVote(id, agentName string, rankedOptionIDs []string, reasoning string) error {
	rec, ok := e.store.lookup(id)
	if !ok {
		return e.notActiveErr(id)
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	if rec.finalized {
		return ErrNotActive
	}

	d := rec.d
	if d.CurrentPhase != models.PhaseRankedVoting {
		return fmt.Errorf("%w: voting requires %s, decision is in %s",
			ErrWrongPhase, models.PhaseRankedVoting, d.CurrentPhase)
	}
	if !d.IsParticipant(agentName) {
		return fmt.Errorf("%w: %s", ErrNotParticipant, agentName)
	}
	if d.HasVoteFrom(agentName) {
		return fmt.Errorf("%w: %s", ErrDuplicateVote, agentName)
	}
	for _, optID := range rankedOptionIDs {
		if !d.HasOption(optID) {
			return fmt.Errorf("%w: %s", ErrUnknownOption, optID)
		}
	}

	d.Votes = append(d.Votes, models.Vote{
		AgentName:     agentName,
		RankedOptions: append([]string(nil), rankedOptionIDs...),
		Reasoning:     reasoning,
		Timestamp:     e.now(),
	})

	e.log.Info("ballot recorded", "decision_id", id, "agent", agentName,
		"votes", len(d.Votes), "participants", len(d.ParticipatingAgents))
	e.emit(Event{Type: EventVoteSubmitted, DecisionID: id, Agent: agentName, Phase: d.CurrentPhase, Time: e.now()})

	// The one-vote-per-agent invariant means the count can only reach the
	// threshold once, but the Result check keeps the tally idempotent even
	// if that invariant were ever violated. With no options on the ballot
	// there is nothing to count; the election stays undecided.
	if len(d.Votes) >= len(d.ParticipatingAgents) && d.Result == nil && len(d.VotingOptions) > 0 {
		result := tally(d)
		d.Result = result
		d.FinalDecision = renderFinalDecision(result)
		e.log.Info("tally complete", "decision_id", id,
			"winner", result.WinningOptionID, "points", result.Scores[0].Points)
		e.emit(Event{Type: EventTallyCompleted, DecisionID: id, Phase: d.CurrentPhase, Time: e.now()})
	}
	return nil
}

// Finalize commits an active decision: it sets the end time, enters the
// terminal commitment phase, optionally overwrites the final decision text,
// and moves the record to completed storage. The ID stays resolvable through
// Status, but no further mutation will succeed against it.
func (e *Engine) Finalize(id, finalDecisionText string) error {
	rec, ok := e.store.lookup(id)
	if !ok {
		return e.notActiveErr(id)
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	if rec.finalized {
		return ErrNotActive
	}

	d := rec.d
	if finalDecisionText != "" {
		d.FinalDecision = finalDecisionText
	}
	end := e.now()
	d.EndTime = &end
	d.CurrentPhase = models.PhaseCommitment
	rec.finalized = true
	e.store.complete(rec)

	e.log.Info("decision finalized", "decision_id", id)
	e.emit(Event{Type: EventFinalized, DecisionID: id, Phase: d.CurrentPhase, Time: end})
	return nil
}

// Status returns a deep-copied snapshot of the decision, searching active
// then completed storage.
func (e *Engine) Status(id string) (*models.Decision, error) {
	if rec, ok := e.store.lookup(id); ok {
		rec.mu.Lock()
		defer rec.mu.Unlock()
		return rec.d.Clone(), nil
	}
	if d, ok := e.store.lookupCompleted(id); ok {
		return d.Clone(), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// ActiveIDs lists the IDs of all in-flight decisions.
func (e *Engine) ActiveIDs() []string {
	return e.store.ActiveIDs()
}

// Completed returns snapshots of all finalized decisions, in finalize order.
func (e *Engine) Completed() []*models.Decision {
	return e.store.CompletedSnapshots()
}

// notActiveErr distinguishes an unknown ID from a finalized one so callers
// can tell which invariant they hit.
func (e *Engine) notActiveErr(id string) error {
	if _, ok := e.store.lookupCompleted(id); ok {
		return fmt.Errorf("%w: %s", ErrNotActive, id)
	}
	return fmt.Errorf("%w: %s", ErrNotFound, id)
}

func (e *Engine) emit(ev Event) {
	if e.events != nil {
		e.events.Emit(ev)
	}
}

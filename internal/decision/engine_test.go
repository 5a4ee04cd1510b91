package decision

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ShayCichocki/quorum/pkg/models"
)

func newTestEngine() *Engine {
	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return NewEngine(NewStore(), WithClock(func() time.Time { return fixed }))
}

// advanceTo walks a decision forward from its current phase to the target.
func advanceTo(t *testing.T, e *Engine, id string, target models.Phase) {
	t.Helper()
	for {
		d, err := e.Status(id)
		if err != nil {
			t.Fatalf("read decision %s: %v", id, err)
		}
		if d.CurrentPhase == target {
			return
		}
		next, ok := d.CurrentPhase.Next()
		if !ok {
			t.Fatalf("cannot advance %s past %s toward %s", id, d.CurrentPhase, target)
		}
		if err := e.AdvancePhase(id, next); err != nil {
			t.Fatalf("advance to %s: %v", next, err)
		}
	}
}

func triggerDecision(t *testing.T, e *Engine, agents ...string) string {
	t.Helper()
	if len(agents) == 0 {
		agents = []string{"alpha", "beta", "gamma"}
	}
	id, err := e.Trigger(models.ConflictArchitectureDecision, "test trigger", "test context", agents)
	if err != nil {
		t.Fatalf("Trigger failed: %v", err)
	}
	return id
}

func threeDrafts() []models.OptionDraft {
	return []models.OptionDraft{
		{Title: "Option A", Description: "first approach", SourceProposals: []string{"alpha"}},
		{Title: "Option B", Description: "second approach", SourceProposals: []string{"beta"}},
		{Title: "Option C", Description: "third approach", SourceProposals: []string{"gamma"}},
	}
}

func TestEngine_Trigger_IDFormat(t *testing.T) {
	e := newTestEngine()
	id := triggerDecision(t, e)

	want := fmt.Sprintf("decision_%d_architecture_decision",
		time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC).Unix())
	if id != want {
		t.Errorf("decision ID = %q, want %q", id, want)
	}

	d, err := e.Status(id)
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if d.CurrentPhase != models.PhaseContextLoading {
		t.Errorf("new decision phase = %q, want %q", d.CurrentPhase, models.PhaseContextLoading)
	}
	if d.Result != nil {
		t.Error("new decision should have nil Result")
	}
	if d.EndTime != nil {
		t.Error("new decision should have nil EndTime")
	}
}

func TestEngine_Trigger_IDCollisionSuffix(t *testing.T) {
	// A fixed clock forces every trigger into the same second.
	e := newTestEngine()

	first := triggerDecision(t, e)
	second := triggerDecision(t, e)
	third := triggerDecision(t, e)

	if second != first+"_2" {
		t.Errorf("second ID = %q, want %q", second, first+"_2")
	}
	if third != first+"_3" {
		t.Errorf("third ID = %q, want %q", third, first+"_3")
	}
}

func TestEngine_Trigger_Validation(t *testing.T) {
	e := newTestEngine()

	_, err := e.Trigger("bogus_type", "reason", "", []string{"alpha"})
	if !errors.Is(err, ErrInvalidConflictType) {
		t.Errorf("unknown conflict type error = %v, want ErrInvalidConflictType", err)
	}

	_, err = e.Trigger(models.ConflictManualTrigger, "reason", "", nil)
	if !errors.Is(err, ErrNoParticipants) {
		t.Errorf("empty participants error = %v, want ErrNoParticipants", err)
	}
}

func TestEngine_AdvancePhase_StrictSuccessorOnly(t *testing.T) {
	e := newTestEngine()
	id := triggerDecision(t, e)

	// Skipping a phase is illegal.
	if err := e.AdvancePhase(id, models.PhaseSynthesis); !errors.Is(err, ErrIllegalTransition) {
		t.Errorf("skip to synthesis error = %v, want ErrIllegalTransition", err)
	}

	if err := e.AdvancePhase(id, models.PhaseIdeaCollection); err != nil {
		t.Fatalf("legal advance failed: %v", err)
	}

	// Moving backwards is illegal.
	if err := e.AdvancePhase(id, models.PhaseContextLoading); !errors.Is(err, ErrIllegalTransition) {
		t.Errorf("backwards advance error = %v, want ErrIllegalTransition", err)
	}
}

func TestEngine_AdvancePhase_CommitmentOnlyViaFinalize(t *testing.T) {
	e := newTestEngine()
	id := triggerDecision(t, e)
	advanceTo(t, e, id, models.PhaseRankedVoting)

	if err := e.AdvancePhase(id, models.PhaseCommitment); !errors.Is(err, ErrIllegalTransition) {
		t.Errorf("advance to commitment error = %v, want ErrIllegalTransition", err)
	}

	if err := e.Finalize(id, ""); err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}
	d, err := e.Status(id)
	if err != nil {
		t.Fatalf("Status after finalize failed: %v", err)
	}
	if d.CurrentPhase != models.PhaseCommitment {
		t.Errorf("finalized phase = %q, want %q", d.CurrentPhase, models.PhaseCommitment)
	}
}

func TestEngine_SubmitProposal_WrongPhaseDoesNotMutate(t *testing.T) {
	e := newTestEngine()
	id := triggerDecision(t, e)

	// Still in context_loading; proposals are not open yet.
	err := e.SubmitProposal(id, "alpha", "an idea", "because")
	if !errors.Is(err, ErrWrongPhase) {
		t.Errorf("proposal in context_loading error = %v, want ErrWrongPhase", err)
	}

	d, _ := e.Status(id)
	if len(d.Proposals) != 0 {
		t.Errorf("rejected proposal should not be recorded, got %d proposals", len(d.Proposals))
	}
}

func TestEngine_SubmitProposal_Rules(t *testing.T) {
	e := newTestEngine()
	id := triggerDecision(t, e)
	advanceTo(t, e, id, models.PhaseIdeaCollection)

	if err := e.SubmitProposal(id, "outsider", "idea", "why"); !errors.Is(err, ErrNotParticipant) {
		t.Errorf("outsider proposal error = %v, want ErrNotParticipant", err)
	}

	if err := e.SubmitProposal(id, "alpha", "first idea", "why"); err != nil {
		t.Fatalf("first proposal failed: %v", err)
	}
	if err := e.SubmitProposal(id, "alpha", "second idea", "why"); !errors.Is(err, ErrDuplicateProposal) {
		t.Errorf("duplicate proposal error = %v, want ErrDuplicateProposal", err)
	}

	d, _ := e.Status(id)
	if len(d.Proposals) != 1 {
		t.Fatalf("proposal count = %d, want 1", len(d.Proposals))
	}
	if d.Proposals[0].AgentName != "alpha" || d.Proposals[0].Proposal != "first idea" {
		t.Errorf("recorded proposal = %+v", d.Proposals[0])
	}
	if len(d.Proposals) > len(d.ParticipatingAgents) {
		t.Error("proposal count should never exceed participant count")
	}
}

func TestEngine_SynthesizeOptions_AssignsSequentialIDs(t *testing.T) {
	e := newTestEngine()
	id := triggerDecision(t, e)
	advanceTo(t, e, id, models.PhaseSynthesis)

	if err := e.SynthesizeOptions(id, threeDrafts()); err != nil {
		t.Fatalf("SynthesizeOptions failed: %v", err)
	}

	d, _ := e.Status(id)
	if len(d.VotingOptions) != 3 {
		t.Fatalf("option count = %d, want 3", len(d.VotingOptions))
	}
	for i, opt := range d.VotingOptions {
		want := fmt.Sprintf("option_%d", i+1)
		if opt.OptionID != want {
			t.Errorf("option %d ID = %q, want %q", i, opt.OptionID, want)
		}
	}
}

func TestEngine_SynthesizeOptions_ReplacesWholesale(t *testing.T) {
	e := newTestEngine()
	id := triggerDecision(t, e)
	advanceTo(t, e, id, models.PhaseSynthesis)

	if err := e.SynthesizeOptions(id, threeDrafts()); err != nil {
		t.Fatalf("first synthesis failed: %v", err)
	}
	replacement := []models.OptionDraft{
		{Title: "Only Option", Description: "replacement", SourceProposals: []string{"alpha"}},
	}
	if err := e.SynthesizeOptions(id, replacement); err != nil {
		t.Fatalf("second synthesis failed: %v", err)
	}

	d, _ := e.Status(id)
	if len(d.VotingOptions) != 1 {
		t.Fatalf("option count after replacement = %d, want 1", len(d.VotingOptions))
	}
	if d.VotingOptions[0].OptionID != "option_1" {
		t.Errorf("replacement option ID = %q, want option_1", d.VotingOptions[0].OptionID)
	}
	if d.VotingOptions[0].Title != "Only Option" {
		t.Errorf("replacement option title = %q", d.VotingOptions[0].Title)
	}
}

func TestEngine_SynthesizeOptions_RejectsEmptySet(t *testing.T) {
	e := newTestEngine()
	id := triggerDecision(t, e)
	advanceTo(t, e, id, models.PhaseSynthesis)

	if err := e.SynthesizeOptions(id, nil); !errors.Is(err, ErrNoOptions) {
		t.Errorf("empty drafts error = %v, want ErrNoOptions", err)
	}
}

// setupVoting takes a decision with three options into ranked_voting.
func setupVoting(t *testing.T, e *Engine, agents ...string) string {
	t.Helper()
	id := triggerDecision(t, e, agents...)
	advanceTo(t, e, id, models.PhaseSynthesis)
	if err := e.SynthesizeOptions(id, threeDrafts()); err != nil {
		t.Fatalf("SynthesizeOptions failed: %v", err)
	}
	if err := e.AdvancePhase(id, models.PhaseRankedVoting); err != nil {
		t.Fatalf("advance to ranked_voting failed: %v", err)
	}
	return id
}

func TestEngine_SubmitVote_Rules(t *testing.T) {
	e := newTestEngine()
	id := setupVoting(t, e)

	if err := e.SubmitVote(id, "outsider", []string{"option_1"}, "why"); !errors.Is(err, ErrNotParticipant) {
		t.Errorf("outsider vote error = %v, want ErrNotParticipant", err)
	}
	if err := e.SubmitVote(id, "alpha", []string{"option_9"}, "why"); !errors.Is(err, ErrUnknownOption) {
		t.Errorf("unknown option vote error = %v, want ErrUnknownOption", err)
	}

	if err := e.SubmitVote(id, "alpha", []string{"option_1", "option_2"}, "why"); err != nil {
		t.Fatalf("vote failed: %v", err)
	}
	if err := e.SubmitVote(id, "alpha", []string{"option_2"}, "changed my mind"); !errors.Is(err, ErrDuplicateVote) {
		t.Errorf("duplicate vote error = %v, want ErrDuplicateVote", err)
	}

	d, _ := e.Status(id)
	if len(d.Votes) != 1 {
		t.Errorf("vote count = %d, want 1", len(d.Votes))
	}
}

func TestEngine_SubmitVote_PartialTurnoutStaysUndecided(t *testing.T) {
	e := newTestEngine()
	id := setupVoting(t, e)

	if err := e.SubmitVote(id, "alpha", []string{"option_1"}, "why"); err != nil {
		t.Fatalf("vote failed: %v", err)
	}
	if err := e.SubmitVote(id, "beta", []string{"option_2"}, "why"); err != nil {
		t.Fatalf("vote failed: %v", err)
	}

	d, _ := e.Status(id)
	if d.Result != nil {
		t.Error("tally should not run with 2 of 3 ballots")
	}
	if d.FinalDecision != "" {
		t.Error("final decision text should be empty before the tally")
	}
}

func TestEngine_SubmitVote_NoOptionsStaysUndecided(t *testing.T) {
	// ranked_voting is reachable without any options ever being synthesized,
	// and an empty ballot clears every per-vote check. Full turnout must then
	// leave the election undecided instead of counting an empty slate.
	e := newTestEngine()
	id := triggerDecision(t, e, "alpha")
	advanceTo(t, e, id, models.PhaseRankedVoting)

	if err := e.SubmitVote(id, "alpha", nil, "nothing to rank"); err != nil {
		t.Fatalf("empty ballot failed: %v", err)
	}

	d, _ := e.Status(id)
	if d.Result != nil {
		t.Error("tally should not run with zero voting options")
	}
	if d.FinalDecision != "" {
		t.Error("final decision text should stay empty with zero voting options")
	}
}

func TestEngine_SubmitVote_AutoTallyAtFullTurnout(t *testing.T) {
	e := newTestEngine()
	id := setupVoting(t, e)

	ballots := map[string][]string{
		"alpha": {"option_2", "option_1", "option_3"},
		"beta":  {"option_2", "option_3", "option_1"},
		"gamma": {"option_1", "option_2", "option_3"},
	}
	for _, agent := range []string{"alpha", "beta", "gamma"} {
		if err := e.SubmitVote(id, agent, ballots[agent], "why"); err != nil {
			t.Fatalf("vote from %s failed: %v", agent, err)
		}
	}

	d, _ := e.Status(id)
	if d.Result == nil {
		t.Fatal("tally should run once every participant has voted")
	}
	// option_2: 3+3+2 = 8, option_1: 2+1+3 = 6, option_3: 1+2+1 = 4.
	if d.Result.WinningOptionID != "option_2" {
		t.Errorf("winner = %q, want option_2", d.Result.WinningOptionID)
	}
	if d.Result.Scores[0].Points != 8 {
		t.Errorf("winning score = %d, want 8", d.Result.Scores[0].Points)
	}
	if !strings.Contains(d.FinalDecision, "DEMOCRATIC DECISION COMPLETE!") {
		t.Error("final decision text should be rendered after the tally")
	}
	if !strings.Contains(d.FinalDecision, "Winner: Option B") {
		t.Errorf("final decision should name the winner, got:\n%s", d.FinalDecision)
	}
	if d.CurrentPhase != models.PhaseRankedVoting {
		t.Errorf("tally should not change the phase, got %q", d.CurrentPhase)
	}
}

func TestEngine_SubmitVote_ResultImmutableAfterTally(t *testing.T) {
	e := newTestEngine()
	id := setupVoting(t, e)

	for _, agent := range []string{"alpha", "beta", "gamma"} {
		if err := e.SubmitVote(id, agent, []string{"option_1"}, "why"); err != nil {
			t.Fatalf("vote from %s failed: %v", agent, err)
		}
	}
	before, _ := e.Status(id)

	if err := e.SubmitVote(id, "alpha", []string{"option_3"}, "again"); !errors.Is(err, ErrDuplicateVote) {
		t.Errorf("post-tally vote error = %v, want ErrDuplicateVote", err)
	}

	after, _ := e.Status(id)
	if after.Result.WinningOptionID != before.Result.WinningOptionID {
		t.Error("winner changed after a rejected post-tally ballot")
	}
	if len(after.Votes) != len(before.Votes) {
		t.Error("vote count changed after a rejected post-tally ballot")
	}
}

func TestEngine_SubmitVote_CyclicTieBreaksToFirstOption(t *testing.T) {
	e := newTestEngine()
	id := setupVoting(t, e)

	// Three rotated ballots give every option exactly 3+2+1 = 6 points.
	rotations := map[string][]string{
		"alpha": {"option_1", "option_2", "option_3"},
		"beta":  {"option_2", "option_3", "option_1"},
		"gamma": {"option_3", "option_1", "option_2"},
	}
	for agent, ballot := range rotations {
		if err := e.SubmitVote(id, agent, ballot, "why"); err != nil {
			t.Fatalf("vote from %s failed: %v", agent, err)
		}
	}

	d, _ := e.Status(id)
	if d.Result == nil {
		t.Fatal("tally should have run")
	}
	for _, score := range d.Result.Scores {
		if score.Points != 6 {
			t.Errorf("option %s points = %d, want 6", score.OptionID, score.Points)
		}
	}
	if d.Result.WinningOptionID != "option_1" {
		t.Errorf("tie should break to the earliest-created option, got %q", d.Result.WinningOptionID)
	}
}

func TestEngine_Finalize_ReadOnlyAfterward(t *testing.T) {
	e := newTestEngine()
	id := setupVoting(t, e)
	for _, agent := range []string{"alpha", "beta", "gamma"} {
		if err := e.SubmitVote(id, agent, []string{"option_1", "option_2"}, "why"); err != nil {
			t.Fatalf("vote from %s failed: %v", agent, err)
		}
	}
	if err := e.Finalize(id, ""); err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}

	if err := e.SubmitVote(id, "alpha", []string{"option_1"}, "late"); !errors.Is(err, ErrNotActive) {
		t.Errorf("vote after finalize error = %v, want ErrNotActive", err)
	}
	if err := e.SubmitProposal(id, "beta", "late idea", "why"); !errors.Is(err, ErrNotActive) {
		t.Errorf("proposal after finalize error = %v, want ErrNotActive", err)
	}
	if err := e.AdvancePhase(id, models.PhaseIdeaCollection); !errors.Is(err, ErrNotActive) {
		t.Errorf("advance after finalize error = %v, want ErrNotActive", err)
	}
	if err := e.Finalize(id, ""); !errors.Is(err, ErrNotActive) {
		t.Errorf("double finalize error = %v, want ErrNotActive", err)
	}

	// The record stays readable on its original ID.
	d, err := e.Status(id)
	if err != nil {
		t.Fatalf("Status after finalize failed: %v", err)
	}
	if d.EndTime == nil {
		t.Error("finalized decision should carry an end time")
	}
	if len(e.ActiveIDs()) != 0 {
		t.Errorf("active IDs after finalize = %v, want none", e.ActiveIDs())
	}
	if got := len(e.Completed()); got != 1 {
		t.Errorf("completed count = %d, want 1", got)
	}
}

func TestEngine_Finalize_CustomTextOverridesRendered(t *testing.T) {
	e := newTestEngine()
	id := setupVoting(t, e)
	for _, agent := range []string{"alpha", "beta", "gamma"} {
		if err := e.SubmitVote(id, agent, []string{"option_2"}, "why"); err != nil {
			t.Fatalf("vote from %s failed: %v", agent, err)
		}
	}

	if err := e.Finalize(id, "We are going with Option B."); err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}
	d, _ := e.Status(id)
	if d.FinalDecision != "We are going with Option B." {
		t.Errorf("final decision = %q, want the custom text", d.FinalDecision)
	}
}

func TestEngine_Status_UnknownID(t *testing.T) {
	e := newTestEngine()
	if _, err := e.Status("decision_0_missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown ID error = %v, want ErrNotFound", err)
	}
	if err := e.SubmitProposal("decision_0_missing", "alpha", "idea", "why"); !errors.Is(err, ErrNotFound) {
		t.Errorf("proposal to unknown ID error = %v, want ErrNotFound", err)
	}
}

func TestEngine_Status_ReturnsDeepCopy(t *testing.T) {
	e := newTestEngine()
	id := triggerDecision(t, e)
	advanceTo(t, e, id, models.PhaseIdeaCollection)
	if err := e.SubmitProposal(id, "alpha", "idea", "why"); err != nil {
		t.Fatalf("proposal failed: %v", err)
	}

	snapshot, _ := e.Status(id)
	snapshot.Proposals[0].Proposal = "tampered"
	snapshot.ParticipatingAgents[0] = "tampered"

	fresh, _ := e.Status(id)
	if fresh.Proposals[0].Proposal != "idea" {
		t.Error("snapshot mutation leaked into engine state")
	}
	if fresh.ParticipatingAgents[0] != "alpha" {
		t.Error("snapshot mutation leaked into participant list")
	}
}

func TestEngine_ConcurrentSubmissions(t *testing.T) {
	e := newTestEngine()

	agents := make([]string, 20)
	for i := range agents {
		agents[i] = fmt.Sprintf("agent_%02d", i)
	}
	id := triggerDecision(t, e, agents...)
	advanceTo(t, e, id, models.PhaseIdeaCollection)

	var wg sync.WaitGroup
	for _, agent := range agents {
		wg.Add(1)
		go func(agent string) {
			defer wg.Done()
			if err := e.SubmitProposal(id, agent, "idea from "+agent, "reasoning"); err != nil {
				t.Errorf("proposal from %s failed: %v", agent, err)
			}
		}(agent)
	}
	wg.Wait()

	d, _ := e.Status(id)
	if len(d.Proposals) != len(agents) {
		t.Fatalf("proposal count = %d, want %d", len(d.Proposals), len(agents))
	}

	advanceTo(t, e, id, models.PhaseSynthesis)
	if err := e.SynthesizeOptions(id, threeDrafts()); err != nil {
		t.Fatalf("SynthesizeOptions failed: %v", err)
	}
	if err := e.AdvancePhase(id, models.PhaseRankedVoting); err != nil {
		t.Fatalf("advance to ranked_voting failed: %v", err)
	}

	for _, agent := range agents {
		wg.Add(1)
		go func(agent string) {
			defer wg.Done()
			if err := e.SubmitVote(id, agent, []string{"option_1", "option_3"}, "reasoning"); err != nil {
				t.Errorf("vote from %s failed: %v", agent, err)
			}
		}(agent)
	}
	wg.Wait()

	d, _ = e.Status(id)
	if len(d.Votes) != len(agents) {
		t.Fatalf("vote count = %d, want %d", len(d.Votes), len(agents))
	}
	if d.Result == nil {
		t.Fatal("tally should run after the final concurrent ballot")
	}
	if d.Result.WinningOptionID != "option_1" {
		t.Errorf("winner = %q, want option_1", d.Result.WinningOptionID)
	}
}

func TestEngine_EmitsLifecycleEvents(t *testing.T) {
	em := NewEventEmitter(32)
	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	e := NewEngine(NewStore(), WithEvents(em), WithClock(func() time.Time { return fixed }))

	id := triggerDecision(t, e, "alpha")
	advanceTo(t, e, id, models.PhaseIdeaCollection)
	if err := e.SubmitProposal(id, "alpha", "idea", "why"); err != nil {
		t.Fatalf("proposal failed: %v", err)
	}
	advanceTo(t, e, id, models.PhaseSynthesis)
	if err := e.SynthesizeOptions(id, threeDrafts()[:1]); err != nil {
		t.Fatalf("SynthesizeOptions failed: %v", err)
	}
	if err := e.AdvancePhase(id, models.PhaseRankedVoting); err != nil {
		t.Fatalf("advance failed: %v", err)
	}
	if err := e.SubmitVote(id, "alpha", []string{"option_1"}, "why"); err != nil {
		t.Fatalf("vote failed: %v", err)
	}
	if err := e.Finalize(id, ""); err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}
	em.Close()

	var types []EventType
	for ev := range em.Events() {
		if ev.DecisionID != id {
			t.Errorf("event %s carries decision ID %q, want %q", ev.Type, ev.DecisionID, id)
		}
		types = append(types, ev.Type)
	}

	want := []EventType{
		EventTriggered, EventPhaseAdvanced, EventProposalSubmitted,
		EventPhaseAdvanced, EventOptionsSynthesized, EventPhaseAdvanced,
		EventVoteSubmitted, EventTallyCompleted, EventFinalized,
	}
	if len(types) != len(want) {
		t.Fatalf("event count = %d (%v), want %d", len(types), types, len(want))
	}
	for i := range want {
		if types[i] != want[i] {
			t.Errorf("event %d = %s, want %s", i, types[i], want[i])
		}
	}
}

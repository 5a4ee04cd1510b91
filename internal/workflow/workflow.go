// Package workflow drives a decision through all five phases end to end:
// trigger, proposal collection, synthesis, ranked voting, and commitment.
// The agents themselves sit behind the AgentRunner interface; this package
// contains no model invocation logic of its own.
package workflow

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ShayCichocki/quorum/internal/decision"
	"github.com/ShayCichocki/quorum/internal/synthesis"
	"github.com/ShayCichocki/quorum/pkg/models"
)

// AgentRunner produces one agent's contributions. Implementations typically
// wrap an LLM-backed agent; tests use a scripted fake. Errors from a single
// agent are tolerated; the process continues with whoever responded.
type AgentRunner interface {
	// Propose asks the agent for its proposal and reasoning given the
	// decision snapshot.
	Propose(ctx context.Context, agent string, d *models.Decision) (proposal, reasoning string, err error)
	// Rank asks the agent to order the decision's voting options from most
	// to least preferred, with reasoning for its top choice.
	Rank(ctx context.Context, agent string, d *models.Decision) (ranked []string, reasoning string, err error)
}

// Request describes one complete democratic decision run.
type Request struct {
	ConflictType        models.ConflictType
	TriggerReason       string
	Context             string
	ParticipatingAgents []string
	// MaxOptions bounds the synthesized ballot; zero means the default.
	MaxOptions int
	// ThemeGroups overrides the clustering keyword groups; nil means the
	// built-in set.
	ThemeGroups []synthesis.ThemeGroup
}

// Outcome reports what one run accomplished.
type Outcome struct {
	SessionID          string
	DecisionID         string
	ProposalsCollected int
	VotesCast          int
	OptionCount        int
	Winner             *models.VotingOption
	FinalDecision      string
}

// Driver runs complete decisions against an engine.
type Driver struct {
	engine *decision.Engine
	runner AgentRunner
	log    *slog.Logger
}

// NewDriver wires a driver. A nil logger silences it.
func NewDriver(engine *decision.Engine, runner AgentRunner, log *slog.Logger) *Driver {
	if log == nil {
		log = decision.NopLogger()
	}
	return &Driver{engine: engine, runner: runner, log: log}
}

// Run executes all five phases. It fails when no proposals or no ballots
// come back at all; individual agent failures are logged and skipped.
func (dr *Driver) Run(ctx context.Context, req Request) (*Outcome, error) {
	outcome := &Outcome{SessionID: uuid.NewString()}
	log := dr.log.With("session_id", outcome.SessionID)

	// Phase 1: trigger, then open the floor.
	id, err := dr.engine.Trigger(req.ConflictType, req.TriggerReason, req.Context, req.ParticipatingAgents)
	if err != nil {
		return nil, fmt.Errorf("trigger decision: %w", err)
	}
	outcome.DecisionID = id
	log = log.With("decision_id", id)
	if err := dr.engine.AdvancePhase(id, models.PhaseIdeaCollection); err != nil {
		return nil, fmt.Errorf("open idea collection: %w", err)
	}

	// Phase 2: collect proposals.
	for _, agent := range req.ParticipatingAgents {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		snapshot, err := dr.engine.Status(id)
		if err != nil {
			return nil, fmt.Errorf("read decision for %s: %w", agent, err)
		}
		proposal, reasoning, err := dr.runner.Propose(ctx, agent, snapshot)
		if err != nil {
			log.Warn("agent failed to propose", "agent", agent, "error", err)
			continue
		}
		if err := dr.engine.SubmitProposal(id, agent, proposal, reasoning); err != nil {
			log.Warn("proposal rejected", "agent", agent, "error", err)
			continue
		}
		outcome.ProposalsCollected++
	}
	if outcome.ProposalsCollected == 0 {
		return nil, fmt.Errorf("decision %s: no proposals collected", id)
	}
	log.Info("proposals collected",
		"count", outcome.ProposalsCollected, "participants", len(req.ParticipatingAgents))

	// Phase 3: cluster and synthesize options.
	optionCount, err := RunSynthesis(dr.engine, id, req.ThemeGroups, req.MaxOptions)
	if err != nil {
		return nil, fmt.Errorf("synthesize options: %w", err)
	}
	outcome.OptionCount = optionCount
	log.Info("options synthesized", "options", optionCount)

	// Phase 4: ranked voting. The engine tallies automatically once every
	// participant has voted.
	for _, agent := range req.ParticipatingAgents {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		snapshot, err := dr.engine.Status(id)
		if err != nil {
			return nil, fmt.Errorf("read decision for %s: %w", agent, err)
		}
		ranked, reasoning, err := dr.runner.Rank(ctx, agent, snapshot)
		if err != nil {
			log.Warn("agent failed to vote", "agent", agent, "error", err)
			continue
		}
		if err := dr.engine.SubmitVote(id, agent, ranked, reasoning); err != nil {
			log.Warn("ballot rejected", "agent", agent, "error", err)
			continue
		}
		outcome.VotesCast++
	}
	if outcome.VotesCast == 0 {
		return nil, fmt.Errorf("decision %s: no ballots cast", id)
	}

	// A partial turnout never reaches the auto-tally threshold, so the
	// election stays undecided; surface that instead of committing.
	snapshot, err := dr.engine.Status(id)
	if err != nil {
		return nil, fmt.Errorf("read decision after voting: %w", err)
	}
	if snapshot.Result == nil {
		return outcome, fmt.Errorf("decision %s: %d of %d ballots cast, no winner determined",
			id, outcome.VotesCast, len(req.ParticipatingAgents))
	}

	// Phase 5: commit.
	if err := dr.engine.Finalize(id, ""); err != nil {
		return nil, fmt.Errorf("finalize decision: %w", err)
	}
	final, err := dr.engine.Status(id)
	if err != nil {
		return nil, fmt.Errorf("read finalized decision: %w", err)
	}
	winner := final.Result.WinningOption
	outcome.Winner = &winner
	outcome.FinalDecision = final.FinalDecision
	log.Info("decision complete", "winner", winner.OptionID)
	return outcome, nil
}

// RunSynthesis clusters a decision's proposals, builds option drafts, and
// walks the decision from idea_collection through synthesis into
// ranked_voting. It returns the number of options installed.
func RunSynthesis(engine *decision.Engine, id string, groups []synthesis.ThemeGroup, maxOptions int) (int, error) {
	snapshot, err := engine.Status(id)
	if err != nil {
		return 0, err
	}
	if len(snapshot.Proposals) == 0 {
		return 0, fmt.Errorf("decision %s has no proposals to synthesize", id)
	}
	if groups == nil {
		groups = synthesis.DefaultThemeGroups
	}

	clusters := synthesis.ClusterProposals(snapshot.Proposals, groups)
	drafts := synthesis.BuildOptions(clusters, maxOptions)

	if err := engine.AdvancePhase(id, models.PhaseSynthesis); err != nil {
		return 0, err
	}
	if err := engine.SynthesizeOptions(id, drafts); err != nil {
		return 0, err
	}
	if err := engine.AdvancePhase(id, models.PhaseRankedVoting); err != nil {
		return 0, err
	}
	return len(drafts), nil
}

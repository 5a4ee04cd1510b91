package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ShayCichocki/quorum/internal/decision"
	"github.com/ShayCichocki/quorum/internal/tui"
	"github.com/ShayCichocki/quorum/internal/workflow"
	"github.com/ShayCichocki/quorum/pkg/models"
)

var demoTUI bool

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run a complete scripted decision in-process",
	Long: `Run one complete democratic decision with three scripted agents: proposals
are collected, clustered into options, and settled by ranked voting. No
server, inbox, or model invocation is involved.`,
	RunE: runDemo,
}

func init() {
	demoCmd.Flags().BoolVar(&demoTUI, "tui", false, "Watch the run in the live terminal view")
}

// demoContributions are the canned proposals, written to land in distinct
// keyword themes so synthesis produces a real multi-option ballot.
var demoContributions = []workflow.ScriptedProposal{
	{
		Proposal:  "Write meta documentation that showcases the team's creation process itself",
		Reasoning: "The process is the most interesting artifact; documentation of it doubles as a showcase",
	},
	{
		Proposal:  "Lead with a general overview and mission statement about the project",
		Reasoning: "Visitors need the about and mission context before anything else",
	},
	{
		Proposal:  "Focus on the technical architecture and code-level development details",
		Reasoning: "A technical deep dive into the architecture is what the audience came for",
	},
}

func runDemo(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	agents := cfg.Defaults.Agents
	if len(agents) == 0 {
		agents = []string{"architect", "builder", "reviewer"}
	}

	runner := &workflow.ScriptedRunner{
		Proposals:  make(map[string]workflow.ScriptedProposal, len(agents)),
		Preference: rotatingPreference(agents),
	}
	for i, agent := range agents {
		runner.Proposals[agent] = demoContributions[i%len(demoContributions)]
	}

	var opts []decision.Option
	var emitter *decision.EventEmitter
	if demoTUI {
		emitter = decision.NewEventEmitter(64)
		opts = append(opts, decision.WithEvents(emitter))
	} else {
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
		opts = append(opts, decision.WithLogger(logger))
	}

	engine := decision.NewEngine(decision.NewStore(), opts...)
	driver := workflow.NewDriver(engine, runner, nil)

	req := workflow.Request{
		ConflictType:        models.ConflictType(cfg.Defaults.ConflictType),
		TriggerReason:       "demo: scripted decision run",
		Context:             "Self-contained demonstration of the five-phase decision process.",
		ParticipatingAgents: agents,
		MaxOptions:          cfg.Synthesis.MaxOptions,
	}
	if !req.ConflictType.Valid() {
		req.ConflictType = models.ConflictManualTrigger
	}

	if !demoTUI {
		outcome, err := driver.Run(cmd.Context(), req)
		if err != nil {
			return err
		}
		printOutcome(outcome)
		return nil
	}

	type runResult struct {
		outcome *workflow.Outcome
		err     error
	}
	done := make(chan runResult, 1)
	go func() {
		outcome, err := driver.Run(context.Background(), req)
		done <- runResult{outcome, err}
	}()

	// The decision ID is not known until the driver triggers it, so the
	// status callback resolves whichever decision the engine holds.
	status := func(string) (*models.Decision, error) {
		if ids := engine.ActiveIDs(); len(ids) > 0 {
			return engine.Status(ids[0])
		}
		if completed := engine.Completed(); len(completed) > 0 {
			return completed[len(completed)-1], nil
		}
		return nil, nil
	}

	model := tui.New("(demo)", status, emitter.Events(), cfg.TUI.RefreshRate)
	if _, err := tea.NewProgram(model).Run(); err != nil {
		return fmt.Errorf("run terminal view: %w", err)
	}

	result := <-done
	emitter.Close()
	if result.err != nil {
		return result.err
	}
	printOutcome(result.outcome)
	return nil
}

// rotatingPreference gives each agent a ranking rotated by its index, so the
// demo ballots disagree and the Borda tally has real work to do.
func rotatingPreference(agents []string) func(string, []models.VotingOption) []string {
	index := make(map[string]int, len(agents))
	for i, agent := range agents {
		index[agent] = i
	}
	return func(agent string, options []models.VotingOption) []string {
		n := len(options)
		ranked := make([]string, n)
		offset := index[agent] % n
		for i := range options {
			ranked[i] = options[(i+offset)%n].OptionID
		}
		return ranked
	}
}

func printOutcome(outcome *workflow.Outcome) {
	bold := color.New(color.Bold)
	fmt.Println()
	bold.Printf("Decision %s complete\n", outcome.DecisionID)
	fmt.Printf("  proposals: %d   ballots: %d   options: %d\n",
		outcome.ProposalsCollected, outcome.VotesCast, outcome.OptionCount)
	if outcome.Winner != nil {
		color.Green("  winner: %s (%s)", outcome.Winner.Title, outcome.Winner.OptionID)
	}
	fmt.Println()
	fmt.Println(outcome.FinalDecision)
}

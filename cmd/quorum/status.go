package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ShayCichocki/quorum/internal/archive"
	"github.com/ShayCichocki/quorum/pkg/models"
)

var (
	statusJSON   bool
	statusLatest bool
)

var statusCmd = &cobra.Command{
	Use:   "status [decision-id]",
	Short: "Show a decision's current state",
	Long: `Show the snapshot a running 'quorum serve' last published for a decision,
falling back to the history archive for finalized decisions.

With --latest the most recently updated decision is shown instead of one
named by ID.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "Print the raw JSON snapshot")
	statusCmd.Flags().BoolVar(&statusLatest, "latest", false, "Show the most recently updated decision")
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var decisionID string
	switch {
	case statusLatest:
		decisionID, err = latestDecisionID(statusDir(cfg.Inbox.Dir))
		if err != nil {
			return err
		}
	case len(args) == 1:
		decisionID = args[0]
	default:
		return fmt.Errorf("pass a decision ID or --latest")
	}

	d, err := loadSnapshot(cfg.Inbox.Dir, cfg.Archive.Path, decisionID)
	if err != nil {
		return err
	}

	if statusJSON {
		data, err := json.MarshalIndent(d, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal snapshot: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	displayDecision(d)
	return nil
}

// loadSnapshot reads a decision from the published status directory first,
// then from the archive.
func loadSnapshot(inboxDir, archivePath, decisionID string) (*models.Decision, error) {
	path := filepath.Join(statusDir(inboxDir), decisionID+".json")
	if data, err := os.ReadFile(path); err == nil {
		var d models.Decision
		if err := json.Unmarshal(data, &d); err != nil {
			return nil, fmt.Errorf("parse snapshot %s: %w", path, err)
		}
		return &d, nil
	}

	store, err := archive.Open(archivePath)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	d, err := store.Load(decisionID)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, fmt.Errorf("decision %s not found (no snapshot, not archived)", decisionID)
	}
	return d, nil
}

// latestDecisionID picks the most recently modified snapshot file.
func latestDecisionID(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("no published decisions yet (is 'quorum serve' running?)")
	}
	var latest string
	var latestMod int64
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().UnixNano() > latestMod {
			latestMod = info.ModTime().UnixNano()
			latest = strings.TrimSuffix(e.Name(), ".json")
		}
	}
	if latest == "" {
		return "", fmt.Errorf("no published decisions yet")
	}
	return latest, nil
}

func displayDecision(d *models.Decision) {
	bold := color.New(color.Bold)
	bold.Printf("Decision %s\n", d.DecisionID)
	fmt.Printf("  type:         %s\n", d.ConflictType)
	fmt.Printf("  reason:       %s\n", d.TriggerReason)
	fmt.Printf("  phase:        %s\n", phaseColor(d.CurrentPhase))
	fmt.Printf("  participants: %s\n", strings.Join(d.ParticipatingAgents, ", "))
	fmt.Printf("  started:      %s\n", d.StartTime.Format("2006-01-02 15:04:05"))
	if d.EndTime != nil {
		fmt.Printf("  ended:        %s\n", d.EndTime.Format("2006-01-02 15:04:05"))
	}

	fmt.Printf("\n  proposals (%d/%d):\n", len(d.Proposals), len(d.ParticipatingAgents))
	for _, p := range d.Proposals {
		fmt.Printf("    - %s: %s\n", p.AgentName, truncate(p.Proposal, 70))
	}

	if len(d.VotingOptions) > 0 {
		fmt.Printf("\n  options:\n")
		for _, o := range d.VotingOptions {
			fmt.Printf("    %s  %s\n", o.OptionID, o.Title)
		}
	}

	fmt.Printf("\n  ballots (%d/%d):\n", len(d.Votes), len(d.ParticipatingAgents))
	for _, v := range d.Votes {
		fmt.Printf("    - %s: %s\n", v.AgentName, strings.Join(v.RankedOptions, " > "))
	}

	if d.Result != nil {
		fmt.Printf("\n  %s\n", color.GreenString("winner: %s (%s)", d.Result.WinningOption.Title, d.Result.WinningOptionID))
		for _, s := range d.Result.Scores {
			fmt.Printf("    %-10s %3d points  %s\n", s.OptionID, s.Points, s.Title)
		}
	}

	if d.FinalDecision != "" {
		fmt.Printf("\n%s\n", d.FinalDecision)
	}
}

func phaseColor(p models.Phase) string {
	switch p {
	case models.PhaseCommitment:
		return color.GreenString(string(p))
	case models.PhaseRankedVoting:
		return color.YellowString(string(p))
	default:
		return string(p)
	}
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}

package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ShayCichocki/quorum/internal/synthesis"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <decision-id>",
	Short: "Analyze a decision's proposal landscape",
	Long: `Run the read-only theme analysis over a decision's submitted proposals:
which agents contributed, and which themes their text touches. Unlike
synthesis, one proposal can surface under several themes, and nothing on
the decision changes.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	d, err := loadSnapshot(cfg.Inbox.Dir, cfg.Archive.Path, args[0])
	if err != nil {
		return err
	}
	if len(d.Proposals) == 0 {
		fmt.Printf("no proposals yet for decision %s\n", d.DecisionID)
		return nil
	}

	analysis := synthesis.AnalyzeProposals(d.Proposals)
	out := struct {
		DecisionID string             `json:"decision_id"`
		Analysis   synthesis.Analysis `json:"analysis"`
		Summary    string             `json:"summary"`
	}{
		DecisionID: d.DecisionID,
		Analysis:   analysis,
		Summary: fmt.Sprintf("Analyzed %d proposals from %d agents. Identified %d main themes.",
			analysis.TotalProposals, len(analysis.Agents), len(analysis.Themes)),
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal analysis: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

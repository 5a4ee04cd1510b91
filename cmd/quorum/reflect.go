package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ShayCichocki/quorum/internal/synthesis"
)

var reflectCmd = &cobra.Command{
	Use:   "reflect <decision-id>",
	Short: "Assess the quality of a decision process",
	Long: `Report on how the decision process is going: participation balance,
reasoning depth, diversity of approaches, plus meta-questions and
recommendations for the facilitating agent. Read-only.`,
	Args: cobra.ExactArgs(1),
	RunE: runReflect,
}

func runReflect(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	d, err := loadSnapshot(cfg.Inbox.Dir, cfg.Archive.Path, args[0])
	if err != nil {
		return err
	}

	reflection := synthesis.Reflect(d)
	out := struct {
		DecisionID   string               `json:"decision_id"`
		CurrentPhase string               `json:"current_phase"`
		Reflection   synthesis.Reflection `json:"reflection"`
	}{
		DecisionID:   d.DecisionID,
		CurrentPhase: string(d.CurrentPhase),
		Reflection:   reflection,
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal reflection: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

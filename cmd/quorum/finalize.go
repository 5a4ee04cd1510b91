package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ShayCichocki/quorum/internal/inbox"
)

var finalizeText string

var finalizeCmd = &cobra.Command{
	Use:   "finalize <decision-id>",
	Short: "Commit a decision and archive it",
	Long: `Ask a running 'quorum serve' to finalize a decision: the decision enters
the terminal commitment phase, moves to completed storage, and is written
to the history archive. Its status stays queryable, but no further
proposals, options, or ballots will be accepted.`,
	Args: cobra.ExactArgs(1),
	RunE: runFinalize,
}

func init() {
	finalizeCmd.Flags().StringVarP(&finalizeText, "text", "t", "", "Override the final decision text")
}

func runFinalize(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	path, err := inbox.WriteRequest(cfg.Inbox.Dir, inbox.Request{
		Kind:          inbox.KindFinalize,
		DecisionID:    args[0],
		FinalDecision: finalizeText,
	})
	if err != nil {
		return err
	}

	fmt.Printf("%s finalize request queued: %s\n", color.GreenString("✓"), path)
	return nil
}

package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ShayCichocki/quorum/internal/inbox"
	"github.com/ShayCichocki/quorum/pkg/models"
)

var advanceCmd = &cobra.Command{
	Use:   "advance <decision-id> <phase>",
	Short: "Advance a decision to its next phase",
	Long: `Ask a running 'quorum serve' to advance a decision. Only the canonical
next phase is legal:

  context_loading → idea_collection → synthesis → ranked_voting

The commitment phase is entered through 'quorum finalize', not advance.`,
	Args: cobra.ExactArgs(2),
	RunE: runAdvance,
}

func runAdvance(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	phase := models.Phase(args[1])
	if !phase.Valid() {
		return fmt.Errorf("unknown phase %q", args[1])
	}

	path, err := inbox.WriteRequest(cfg.Inbox.Dir, inbox.Request{
		Kind:       inbox.KindAdvance,
		DecisionID: args[0],
		Phase:      string(phase),
	})
	if err != nil {
		return err
	}

	fmt.Printf("%s advance request queued: %s\n", color.GreenString("✓"), path)
	return nil
}

package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ShayCichocki/quorum/internal/inbox"
)

var synthesizeMaxOptions int

var synthesizeCmd = &cobra.Command{
	Use:   "synthesize <decision-id>",
	Short: "Cluster proposals into voting options",
	Long: `Ask a running 'quorum serve' to cluster the decision's proposals by theme,
build at most --max-options voting options, and advance the decision into
ranked voting. Re-running replaces the option set and renumbers it.`,
	Args: cobra.ExactArgs(1),
	RunE: runSynthesize,
}

func init() {
	synthesizeCmd.Flags().IntVarP(&synthesizeMaxOptions, "max-options", "m", 0, "Maximum ballot size (defaults to the configured value)")
}

func runSynthesize(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	path, err := inbox.WriteRequest(cfg.Inbox.Dir, inbox.Request{
		Kind:       inbox.KindSynthesize,
		DecisionID: args[0],
		MaxOptions: synthesizeMaxOptions,
	})
	if err != nil {
		return err
	}

	fmt.Printf("%s synthesis request queued: %s\n", color.GreenString("✓"), path)
	return nil
}

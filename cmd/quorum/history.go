package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ShayCichocki/quorum/internal/archive"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List archived decisions",
	Long:  `List finalized decisions from the history archive, most recent first.`,
	RunE:  runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := archive.Open(cfg.Archive.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	summaries, err := store.List()
	if err != nil {
		return err
	}
	if len(summaries) == 0 {
		fmt.Println("No archived decisions yet.")
		return nil
	}

	for _, s := range summaries {
		winner := s.WinnerTitle
		if winner == "" {
			winner = "(no winner recorded)"
		}
		fmt.Printf("%s  %s\n", s.FinalizedAt.Format("2006-01-02 15:04"), color.New(color.Bold).Sprint(s.DecisionID))
		fmt.Printf("  %s · %s\n", s.ConflictType, s.TriggerReason)
		fmt.Printf("  winner: %s\n\n", winner)
	}
	return nil
}

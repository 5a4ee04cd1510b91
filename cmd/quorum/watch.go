package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/ShayCichocki/quorum/internal/tui"
	"github.com/ShayCichocki/quorum/pkg/models"
)

var watchCmd = &cobra.Command{
	Use:   "watch <decision-id>",
	Short: "Watch a decision live in the terminal",
	Long: `Watch a decision hosted by 'quorum serve' as it moves through its phases.
The view polls the published status snapshot and exits once the decision
reaches commitment.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	decisionID := args[0]

	status := func(id string) (*models.Decision, error) {
		return loadSnapshot(cfg.Inbox.Dir, cfg.Archive.Path, id)
	}

	model := tui.New(decisionID, status, nil, cfg.TUI.RefreshRate)
	if _, err := tea.NewProgram(model).Run(); err != nil {
		return fmt.Errorf("run terminal view: %w", err)
	}
	return nil
}

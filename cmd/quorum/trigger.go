package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ShayCichocki/quorum/internal/inbox"
	"github.com/ShayCichocki/quorum/pkg/models"
)

var (
	triggerConflictType string
	triggerReason       string
	triggerContext      string
	triggerAgents       []string
)

var triggerCmd = &cobra.Command{
	Use:   "trigger",
	Short: "Start a new democratic decision",
	Long: `Drop a trigger request into the inbox of a running 'quorum serve'.

The server creates the decision, opens idea collection, and publishes its
status snapshot. Pick the decision ID up with 'quorum status --latest' or
from the server log.`,
	Example: `  quorum trigger --type architecture_decision \
      --reason "Storage layer disagreement" \
      --context "Choose between sqlite and flat files" \
      --agents "Project Manager,Developer,Researcher"`,
	RunE: runTrigger,
}

func init() {
	triggerCmd.Flags().StringVarP(&triggerConflictType, "type", "t", "", "Conflict type (defaults to the configured one)")
	triggerCmd.Flags().StringVarP(&triggerReason, "reason", "r", "Democratic decision needed", "Why the decision was triggered")
	triggerCmd.Flags().StringVarP(&triggerContext, "context", "c", "", "Full context of the decision to make")
	triggerCmd.Flags().StringSliceVarP(&triggerAgents, "agents", "a", nil, "Participating agent names (defaults to the configured roster)")
}

func runTrigger(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	agents := triggerAgents
	if len(agents) == 0 {
		agents = cfg.Defaults.Agents
	}
	if len(agents) == 0 {
		return fmt.Errorf("no participating agents: pass --agents or set defaults.agents in config")
	}

	if triggerConflictType != "" && !models.ConflictType(triggerConflictType).Valid() {
		return fmt.Errorf("unknown conflict type %q (valid: %v)", triggerConflictType, models.ConflictTypes())
	}

	path, err := inbox.WriteRequest(cfg.Inbox.Dir, inbox.Request{
		Kind:                inbox.KindTrigger,
		ConflictType:        triggerConflictType,
		TriggerReason:       triggerReason,
		Context:             triggerContext,
		ParticipatingAgents: agents,
	})
	if err != nil {
		return err
	}

	fmt.Printf("%s trigger request queued: %s\n", color.GreenString("✓"), path)
	return nil
}

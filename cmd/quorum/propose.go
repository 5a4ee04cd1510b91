package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ShayCichocki/quorum/internal/inbox"
)

var (
	proposeAgent     string
	proposeText      string
	proposeReasoning string
)

var proposeCmd = &cobra.Command{
	Use:   "propose <decision-id>",
	Short: "Submit a proposal for a decision",
	Long: `Drop a proposal into the inbox of a running 'quorum serve'.

Proposals are accepted only during idea_collection, only from participating
agents, and only once per agent.`,
	Args: cobra.ExactArgs(1),
	RunE: runPropose,
}

func init() {
	proposeCmd.Flags().StringVarP(&proposeAgent, "agent", "a", "", "Submitting agent name (required)")
	proposeCmd.Flags().StringVarP(&proposeText, "proposal", "p", "", "Proposal text (required)")
	proposeCmd.Flags().StringVarP(&proposeReasoning, "reasoning", "r", "", "Reasoning behind the proposal")
	proposeCmd.MarkFlagRequired("agent")
	proposeCmd.MarkFlagRequired("proposal")
}

func runPropose(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	path, err := inbox.WriteRequest(cfg.Inbox.Dir, inbox.Request{
		Kind:       inbox.KindProposal,
		DecisionID: args[0],
		AgentName:  proposeAgent,
		Proposal:   proposeText,
		Reasoning:  proposeReasoning,
	})
	if err != nil {
		return err
	}

	fmt.Printf("%s proposal from %s queued: %s\n", color.GreenString("✓"), proposeAgent, path)
	return nil
}

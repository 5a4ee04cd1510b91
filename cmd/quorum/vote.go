package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ShayCichocki/quorum/internal/inbox"
)

var (
	voteAgent     string
	voteRanking   []string
	voteReasoning string
)

var voteCmd = &cobra.Command{
	Use:   "vote <decision-id>",
	Short: "Cast a ranked ballot for a decision",
	Long: `Drop a ranked ballot into the inbox of a running 'quorum serve'.

Rank option IDs from most to least preferred. Partial rankings are allowed;
unranked options simply score nothing from this ballot. Once every
participant has voted the engine tallies automatically.`,
	Example: `  quorum vote decision_1748122344_architecture_decision \
      --agent Developer --rank option_2,option_1,option_3 \
      --reasoning "Option 2 keeps the build simple"`,
	Args: cobra.ExactArgs(1),
	RunE: runVote,
}

func init() {
	voteCmd.Flags().StringVarP(&voteAgent, "agent", "a", "", "Voting agent name (required)")
	voteCmd.Flags().StringSliceVarP(&voteRanking, "rank", "k", nil, "Option IDs in preference order (required)")
	voteCmd.Flags().StringVarP(&voteReasoning, "reasoning", "r", "", "Reasoning for the top choice")
	voteCmd.MarkFlagRequired("agent")
	voteCmd.MarkFlagRequired("rank")
}

func runVote(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	path, err := inbox.WriteRequest(cfg.Inbox.Dir, inbox.Request{
		Kind:          inbox.KindVote,
		DecisionID:    args[0],
		AgentName:     voteAgent,
		RankedOptions: voteRanking,
		Reasoning:     voteReasoning,
	})
	if err != nil {
		return err
	}

	fmt.Printf("%s ballot from %s queued: %s\n", color.GreenString("✓"), voteAgent, path)
	return nil
}

package decision

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ShayCichocki/quorum/pkg/models"
)

// tally runs a Borda count over the decision's ballots. With n options, the
// option at 0-indexed rank r on a ballot earns n-r points; ballot positions
// at or beyond n are ignored, and unranked options earn nothing from that
// ballot. This is a positional count, not instant-runoff elimination.
//
// Ties break deterministically to the earliest-created option (option_1
// before option_2): the winner scan walks options in creation order and only
// a strictly greater score displaces the current leader.
func tally(d *models.Decision) *models.TallyResult {
	n := len(d.VotingOptions)
	points := make(map[string]int, n)
	for _, opt := range d.VotingOptions {
		points[opt.OptionID] = 0
	}

	for _, vote := range d.Votes {
		ranked := vote.RankedOptions
		if len(ranked) > n {
			ranked = ranked[:n]
		}
		for rank, optID := range ranked {
			points[optID] += n - rank
		}
	}

	scores := make([]models.OptionScore, n)
	winner := d.VotingOptions[0]
	for i, opt := range d.VotingOptions {
		scores[i] = models.OptionScore{
			OptionID: opt.OptionID,
			Title:    opt.Title,
			Points:   points[opt.OptionID],
		}
		if points[opt.OptionID] > points[winner.OptionID] {
			winner = opt
		}
	}

	// Highest first; equal scores keep creation order.
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Points > scores[j].Points
	})

	won := winner
	won.SourceProposals = append([]string(nil), winner.SourceProposals...)
	return &models.TallyResult{
		WinningOptionID: winner.OptionID,
		WinningOption:   won,
		Scores:          scores,
	}
}

// renderFinalDecision produces the human-readable summary stored on the
// decision: winner title, full standings, then the winner's description.
func renderFinalDecision(result *models.TallyResult) string {
	var b strings.Builder
	b.WriteString("DEMOCRATIC DECISION COMPLETE!\n\n")
	fmt.Fprintf(&b, "Winner: %s\n\n", result.WinningOption.Title)
	b.WriteString("Final Scores:\n")
	for _, score := range result.Scores {
		fmt.Fprintf(&b, "- %s: %d points\n", score.Title, score.Points)
	}
	fmt.Fprintf(&b, "\nSelected Option Details:\n%s", result.WinningOption.Description)
	return b.String()
}

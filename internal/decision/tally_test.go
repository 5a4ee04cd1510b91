package decision

import (
	"strings"
	"testing"

	"github.com/ShayCichocki/quorum/pkg/models"
)

func tallyFixture(votes []models.Vote) *models.Decision {
	return &models.Decision{
		VotingOptions: []models.VotingOption{
			{OptionID: "option_1", Title: "First", Description: "first description"},
			{OptionID: "option_2", Title: "Second", Description: "second description"},
			{OptionID: "option_3", Title: "Third", Description: "third description"},
		},
		Votes: votes,
	}
}

func TestTally_PartialBallotsScoreZeroForUnranked(t *testing.T) {
	d := tallyFixture([]models.Vote{
		{AgentName: "alpha", RankedOptions: []string{"option_2"}},
		{AgentName: "beta", RankedOptions: []string{"option_2", "option_3"}},
	})

	result := tally(d)

	// option_2: 3+3 = 6, option_3: 0+2 = 2, option_1: unranked everywhere.
	if result.WinningOptionID != "option_2" {
		t.Errorf("winner = %q, want option_2", result.WinningOptionID)
	}
	points := make(map[string]int)
	for _, s := range result.Scores {
		points[s.OptionID] = s.Points
	}
	if points["option_2"] != 6 {
		t.Errorf("option_2 points = %d, want 6", points["option_2"])
	}
	if points["option_3"] != 2 {
		t.Errorf("option_3 points = %d, want 2", points["option_3"])
	}
	if points["option_1"] != 0 {
		t.Errorf("option_1 points = %d, want 0", points["option_1"])
	}
}

func TestTally_OverlongBallotTruncatedAtOptionCount(t *testing.T) {
	// Four entries on a three-option ballot; the fourth must be ignored so
	// no option can earn points from a position past the option count.
	d := tallyFixture([]models.Vote{
		{AgentName: "alpha", RankedOptions: []string{"option_1", "option_2", "option_3", "option_1"}},
	})

	result := tally(d)

	points := make(map[string]int)
	for _, s := range result.Scores {
		points[s.OptionID] = s.Points
	}
	if points["option_1"] != 3 {
		t.Errorf("option_1 points = %d, want 3 (duplicate tail entry must not add)", points["option_1"])
	}
	if points["option_2"] != 2 || points["option_3"] != 1 {
		t.Errorf("points = %v, want option_2=2 option_3=1", points)
	}
}

func TestTally_ScoresSortedDescendingStable(t *testing.T) {
	// option_1 and option_3 tie; option_1 was created first so it must stay
	// ahead in the standings.
	d := tallyFixture([]models.Vote{
		{AgentName: "alpha", RankedOptions: []string{"option_2", "option_1", "option_3"}},
		{AgentName: "beta", RankedOptions: []string{"option_2", "option_3", "option_1"}},
	})

	result := tally(d)

	if result.Scores[0].OptionID != "option_2" {
		t.Errorf("top score = %q, want option_2", result.Scores[0].OptionID)
	}
	if result.Scores[1].OptionID != "option_1" || result.Scores[2].OptionID != "option_3" {
		t.Errorf("tied options out of creation order: %q then %q",
			result.Scores[1].OptionID, result.Scores[2].OptionID)
	}
}

func TestTally_WinnerCarriesFullOptionRecord(t *testing.T) {
	d := tallyFixture([]models.Vote{
		{AgentName: "alpha", RankedOptions: []string{"option_3"}},
	})
	d.VotingOptions[2].SourceProposals = []string{"alpha", "beta"}

	result := tally(d)

	if result.WinningOption.OptionID != "option_3" {
		t.Fatalf("winning option = %q, want option_3", result.WinningOption.OptionID)
	}
	if result.WinningOption.Description != "third description" {
		t.Errorf("winning option description = %q", result.WinningOption.Description)
	}

	// The result must not share the option's source slice.
	result.WinningOption.SourceProposals[0] = "tampered"
	if d.VotingOptions[2].SourceProposals[0] != "alpha" {
		t.Error("tally result shares backing array with the decision's options")
	}
}

func TestRenderFinalDecision_Format(t *testing.T) {
	result := &models.TallyResult{
		WinningOptionID: "option_1",
		WinningOption: models.VotingOption{
			OptionID:    "option_1",
			Title:       "Meta-Documentation Approach (Team Consensus)",
			Description: "Document the process itself.",
		},
		Scores: []models.OptionScore{
			{OptionID: "option_1", Title: "Meta-Documentation Approach (Team Consensus)", Points: 8},
			{OptionID: "option_2", Title: "Technical-Focused Approach (gamma Proposal)", Points: 4},
		},
	}

	got := renderFinalDecision(result)
	want := "DEMOCRATIC DECISION COMPLETE!\n\n" +
		"Winner: Meta-Documentation Approach (Team Consensus)\n\n" +
		"Final Scores:\n" +
		"- Meta-Documentation Approach (Team Consensus): 8 points\n" +
		"- Technical-Focused Approach (gamma Proposal): 4 points\n\n" +
		"Selected Option Details:\n" +
		"Document the process itself."

	if got != want {
		t.Errorf("rendered text mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}
	if !strings.HasPrefix(got, "DEMOCRATIC DECISION COMPLETE!") {
		t.Error("rendered text should open with the completion banner")
	}
}

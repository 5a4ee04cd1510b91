package models

import (
	"testing"
	"time"
)

func sampleDecision() *Decision {
	end := time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC)
	return &Decision{
		DecisionID:          "decision_1_architecture_decision",
		ConflictType:        ConflictArchitectureDecision,
		TriggerReason:       "divergent designs",
		Context:             "two proposals for the storage layer",
		ParticipatingAgents: []string{"alpha", "beta"},
		Proposals: []Proposal{
			{AgentName: "alpha", Proposal: "use sqlite", Reasoning: "simple"},
			{AgentName: "beta", Proposal: "use postgres", Reasoning: "scalable"},
		},
		VotingOptions: []VotingOption{
			{OptionID: "option_1", Title: "SQLite", SourceProposals: []string{"alpha"}},
			{OptionID: "option_2", Title: "Postgres", SourceProposals: []string{"beta"}},
		},
		Votes: []Vote{
			{AgentName: "alpha", RankedOptions: []string{"option_1", "option_2"}},
		},
		Result: &TallyResult{
			WinningOptionID: "option_1",
			WinningOption:   VotingOption{OptionID: "option_1", Title: "SQLite", SourceProposals: []string{"alpha"}},
			Scores: []OptionScore{
				{OptionID: "option_1", Title: "SQLite", Points: 2},
				{OptionID: "option_2", Title: "Postgres", Points: 1},
			},
		},
		StartTime:    time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		EndTime:      &end,
		CurrentPhase: PhaseCommitment,
	}
}

func TestDecision_Clone_IsDeep(t *testing.T) {
	d := sampleDecision()
	c := d.Clone()

	c.ParticipatingAgents[0] = "mutated"
	c.Proposals[0].Proposal = "mutated"
	c.VotingOptions[0].SourceProposals[0] = "mutated"
	c.Votes[0].RankedOptions[0] = "mutated"
	c.Result.Scores[0].Points = 999
	c.Result.WinningOption.SourceProposals[0] = "mutated"
	*c.EndTime = time.Time{}

	if d.ParticipatingAgents[0] != "alpha" {
		t.Error("clone mutation leaked into ParticipatingAgents")
	}
	if d.Proposals[0].Proposal != "use sqlite" {
		t.Error("clone mutation leaked into Proposals")
	}
	if d.VotingOptions[0].SourceProposals[0] != "alpha" {
		t.Error("clone mutation leaked into VotingOptions source proposals")
	}
	if d.Votes[0].RankedOptions[0] != "option_1" {
		t.Error("clone mutation leaked into Votes ranked options")
	}
	if d.Result.Scores[0].Points != 2 {
		t.Error("clone mutation leaked into Result scores")
	}
	if d.Result.WinningOption.SourceProposals[0] != "alpha" {
		t.Error("clone mutation leaked into winning option source proposals")
	}
	if d.EndTime.IsZero() {
		t.Error("clone mutation leaked into EndTime")
	}
}

func TestDecision_Clone_NilOptionals(t *testing.T) {
	d := &Decision{
		DecisionID:          "decision_2_manual_trigger",
		ConflictType:        ConflictManualTrigger,
		ParticipatingAgents: []string{"alpha"},
		CurrentPhase:        PhaseContextLoading,
	}
	c := d.Clone()
	if c.Result != nil {
		t.Error("clone of undecided decision should keep Result nil")
	}
	if c.EndTime != nil {
		t.Error("clone of active decision should keep EndTime nil")
	}
}

func TestDecision_Membership(t *testing.T) {
	d := sampleDecision()

	if !d.IsParticipant("alpha") {
		t.Error("alpha should be a participant")
	}
	if d.IsParticipant("gamma") {
		t.Error("gamma should not be a participant")
	}

	if !d.HasProposalFrom("beta") {
		t.Error("beta should have a proposal")
	}
	if d.HasProposalFrom("gamma") {
		t.Error("gamma should not have a proposal")
	}

	if !d.HasVoteFrom("alpha") {
		t.Error("alpha should have a vote")
	}
	if d.HasVoteFrom("beta") {
		t.Error("beta should not have a vote")
	}

	if !d.HasOption("option_2") {
		t.Error("option_2 should exist")
	}
	if d.HasOption("option_3") {
		t.Error("option_3 should not exist")
	}
}

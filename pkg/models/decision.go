// Package models defines the shared data model for democratic decisions:
// the decision record, its proposals, voting options, ballots, and the
// tally result. All types are plain data and serialize to JSON with
// RFC3339 timestamps.
package models

import "time"

// Proposal is one agent's free-text idea, captured during idea collection.
// Proposals are immutable once recorded; at most one per agent per decision.
type Proposal struct {
	// AgentName is the submitting agent, unique within a decision.
	AgentName string `json:"agent_name"`
	// Proposal is the idea text.
	Proposal string `json:"proposal"`
	// Reasoning is the agent's justification.
	Reasoning string `json:"reasoning"`
	// Timestamp is when the proposal was recorded.
	Timestamp time.Time `json:"timestamp"`
}

// VotingOption is a synthesized, votable choice derived from one or more
// proposal clusters.
type VotingOption struct {
	// OptionID is assigned sequentially as "option_1", "option_2", …
	// in synthesis input order. IDs are stable for the life of the set.
	OptionID string `json:"option_id"`
	// Title is the human label for the option.
	Title string `json:"title"`
	// Description is the full option text shown to voters.
	Description string `json:"description"`
	// SourceProposals lists the agents whose proposals fed this option,
	// in arrival order.
	SourceProposals []string `json:"source_proposals"`
}

// OptionDraft is the caller-supplied shape of an option before the engine
// assigns its OptionID during synthesis.
type OptionDraft struct {
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	SourceProposals []string `json:"source_proposals"`
}

// Vote is one agent's ranked ballot. RankedOptions orders option IDs from
// most- to least-preferred and may be a strict subset of all options;
// unranked options simply score zero from this ballot.
type Vote struct {
	// AgentName is the voting agent, unique within a decision.
	AgentName string `json:"agent_name"`
	// RankedOptions holds option IDs in preference order, first choice first.
	RankedOptions []string `json:"ranked_options"`
	// Reasoning explains the agent's top choice.
	Reasoning string `json:"reasoning_for_top_choice"`
	// Timestamp is when the ballot was recorded.
	Timestamp time.Time `json:"timestamp"`
}

// OptionScore is one option's aggregate Borda points.
type OptionScore struct {
	OptionID string `json:"option_id"`
	Title    string `json:"title"`
	Points   int    `json:"points"`
}

// TallyResult is the outcome of a completed election. A nil *TallyResult on
// a decision means no winner has been determined yet; there is no empty
// string sentinel.
type TallyResult struct {
	// WinningOptionID is the highest-scoring option.
	WinningOptionID string `json:"winning_option_id"`
	// WinningOption is the full winning option record.
	WinningOption VotingOption `json:"winning_option"`
	// Scores lists every option's points, highest first. Options with equal
	// points keep their creation order.
	Scores []OptionScore `json:"scores"`
}

// Decision is the aggregate root for one democratic decision. It is owned
// and mutated exclusively by the decision engine; callers only ever see
// deep copies.
type Decision struct {
	DecisionID          string         `json:"decision_id"`
	ConflictType        ConflictType   `json:"conflict_type"`
	TriggerReason       string         `json:"trigger_reason"`
	Context             string         `json:"context"`
	ParticipatingAgents []string       `json:"participating_agents"`
	Proposals           []Proposal     `json:"proposals"`
	VotingOptions       []VotingOption `json:"voting_options"`
	Votes               []Vote         `json:"votes"`
	// Result is nil until the auto-tally has run.
	Result *TallyResult `json:"result,omitempty"`
	// FinalDecision is the rendered summary text, set by the tally and
	// optionally overwritten at finalize.
	FinalDecision string    `json:"final_decision,omitempty"`
	StartTime     time.Time `json:"start_time"`
	// EndTime is nil until the decision is finalized.
	EndTime      *time.Time `json:"end_time,omitempty"`
	CurrentPhase Phase      `json:"current_phase"`
}

// IsParticipant reports whether the agent is eligible to propose and vote.
func (d *Decision) IsParticipant(agent string) bool {
	for _, a := range d.ParticipatingAgents {
		if a == agent {
			return true
		}
	}
	return false
}

// HasProposalFrom reports whether the agent already submitted a proposal.
func (d *Decision) HasProposalFrom(agent string) bool {
	for _, p := range d.Proposals {
		if p.AgentName == agent {
			return true
		}
	}
	return false
}

// HasVoteFrom reports whether the agent already cast a ballot.
func (d *Decision) HasVoteFrom(agent string) bool {
	for _, v := range d.Votes {
		if v.AgentName == agent {
			return true
		}
	}
	return false
}

// HasOption reports whether the option ID belongs to the current option set.
func (d *Decision) HasOption(optionID string) bool {
	for _, o := range d.VotingOptions {
		if o.OptionID == optionID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy suitable for handing outside the engine.
func (d *Decision) Clone() *Decision {
	c := *d
	c.ParticipatingAgents = append([]string(nil), d.ParticipatingAgents...)
	c.Proposals = append([]Proposal(nil), d.Proposals...)
	c.VotingOptions = make([]VotingOption, len(d.VotingOptions))
	for i, o := range d.VotingOptions {
		c.VotingOptions[i] = o.clone()
	}
	c.Votes = make([]Vote, len(d.Votes))
	for i, v := range d.Votes {
		c.Votes[i] = v
		c.Votes[i].RankedOptions = append([]string(nil), v.RankedOptions...)
	}
	if d.Result != nil {
		r := *d.Result
		r.WinningOption = d.Result.WinningOption.clone()
		r.Scores = append([]OptionScore(nil), d.Result.Scores...)
		c.Result = &r
	}
	if d.EndTime != nil {
		t := *d.EndTime
		c.EndTime = &t
	}
	return &c
}

func (o VotingOption) clone() VotingOption {
	c := o
	c.SourceProposals = append([]string(nil), o.SourceProposals...)
	return c
}

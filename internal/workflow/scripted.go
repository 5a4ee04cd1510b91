package workflow

import (
	"context"
	"fmt"

	"github.com/ShayCichocki/quorum/pkg/models"
)

// ScriptedProposal is one canned agent contribution.
type ScriptedProposal struct {
	Proposal  string
	Reasoning string
}

// ScriptedRunner plays back canned proposals and derives rankings from a
// fixed preference function. It backs the demo command and tests; no model
// is involved.
type ScriptedRunner struct {
	// Proposals maps agent name to its canned proposal.
	Proposals map[string]ScriptedProposal
	// Preference returns the agent's ranking over the option set. When nil,
	// every agent ranks options in their listed order.
	Preference func(agent string, options []models.VotingOption) []string
}

// Propose returns the agent's canned proposal.
func (r *ScriptedRunner) Propose(_ context.Context, agent string, _ *models.Decision) (string, string, error) {
	p, ok := r.Proposals[agent]
	if !ok {
		return "", "", fmt.Errorf("no scripted proposal for agent %s", agent)
	}
	return p.Proposal, p.Reasoning, nil
}

// Rank returns the agent's ranking over the decision's options.
func (r *ScriptedRunner) Rank(_ context.Context, agent string, d *models.Decision) ([]string, string, error) {
	if len(d.VotingOptions) == 0 {
		return nil, "", fmt.Errorf("decision %s has no voting options", d.DecisionID)
	}
	if r.Preference != nil {
		ranked := r.Preference(agent, d.VotingOptions)
		return ranked, fmt.Sprintf("%s prefers %s", agent, ranked[0]), nil
	}
	ranked := make([]string, len(d.VotingOptions))
	for i, opt := range d.VotingOptions {
		ranked[i] = opt.OptionID
	}
	return ranked, fmt.Sprintf("%s prefers %s", agent, ranked[0]), nil
}

package synthesis

import (
	"fmt"
	"strings"

	"github.com/ShayCichocki/quorum/pkg/models"
)

// Cluster groups proposals that share a theme.
type Cluster struct {
	// Theme is the keyword group that claimed these proposals.
	Theme string
	// ContributingAgents lists contributors in proposal arrival order.
	ContributingAgents []string
	// MergedReasoning starts as the first proposal's reasoning; later
	// members append as " | {agent}: {reasoning}".
	MergedReasoning string
	// RepresentativeProposal is the first proposal assigned to the cluster.
	RepresentativeProposal string
}

// ClusterProposals assigns each proposal to exactly one theme in a single
// order-sensitive pass: the lower-cased proposal+reasoning text is tested
// against the groups in order and the first group with a keyword hit wins;
// unmatched proposals land in "general". Clusters come back in discovery
// order. There is no similarity scoring or refinement beyond this.
func ClusterProposals(proposals []models.Proposal, groups []ThemeGroup) []Cluster {
	if len(proposals) == 0 {
		return nil
	}

	var order []string
	byTheme := make(map[string]*Cluster)

	for _, p := range proposals {
		text := strings.ToLower(p.Proposal + " " + p.Reasoning)
		theme := classify(text, groups)

		cluster, ok := byTheme[theme]
		if !ok {
			cluster = &Cluster{Theme: theme}
			byTheme[theme] = cluster
			order = append(order, theme)
		}

		cluster.ContributingAgents = append(cluster.ContributingAgents, p.AgentName)
		if cluster.RepresentativeProposal == "" {
			cluster.RepresentativeProposal = p.Proposal
			cluster.MergedReasoning = p.Reasoning
		} else {
			cluster.MergedReasoning += fmt.Sprintf(" | %s: %s", p.AgentName, p.Reasoning)
		}
	}

	out := make([]Cluster, len(order))
	for i, theme := range order {
		out[i] = *byTheme[theme]
	}
	return out
}

// classify returns the theme of the first group containing any keyword of
// the text, or "general".
func classify(text string, groups []ThemeGroup) string {
	for _, g := range groups {
		for _, kw := range g.Keywords {
			if strings.Contains(text, kw) {
				return g.Theme
			}
		}
	}
	return ThemeGeneral
}

package synthesis

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ShayCichocki/quorum/pkg/models"
)

// DefaultMaxOptions bounds the ballot to keep ranked voting tractable.
const DefaultMaxOptions = 4

// BuildOptions turns clusters into at most maxOptions option drafts, most
// supported cluster first. The sort is stable, so clusters with equal
// support keep their discovery order, and the top cluster becomes option_1
// after the engine numbers the set. Returns nil when clusters is empty.
func BuildOptions(clusters []Cluster, maxOptions int) []models.OptionDraft {
	if len(clusters) == 0 {
		return nil
	}
	if maxOptions <= 0 {
		maxOptions = DefaultMaxOptions
	}

	sorted := make([]Cluster, len(clusters))
	copy(sorted, clusters)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i].ContributingAgents) > len(sorted[j].ContributingAgents)
	})
	if len(sorted) > maxOptions {
		sorted = sorted[:maxOptions]
	}

	drafts := make([]models.OptionDraft, len(sorted))
	for i, cluster := range sorted {
		drafts[i] = models.OptionDraft{
			Title:           optionTitle(cluster),
			Description:     optionDescription(cluster),
			SourceProposals: append([]string(nil), cluster.ContributingAgents...),
		}
	}
	return drafts
}

// optionTitle maps the cluster theme through the label table and attributes
// the option to its contributors.
func optionTitle(cluster Cluster) string {
	base, ok := themeTitles[cluster.Theme]
	if !ok {
		base = titleCase(cluster.Theme) + " Approach"
	}
	if len(cluster.ContributingAgents) > 1 {
		return base + " (Team Consensus)"
	}
	return fmt.Sprintf("%s (%s Proposal)", base, cluster.ContributingAgents[0])
}

// optionDescription renders the representative proposal plus an attribution
// block: multi-agent clusters show combined reasoning, single-agent clusters
// their one contributor's reasoning.
func optionDescription(cluster Cluster) string {
	var b strings.Builder
	b.WriteString(cluster.RepresentativeProposal)
	if len(cluster.ContributingAgents) > 1 {
		fmt.Fprintf(&b, "\n\nSupported by: %s", strings.Join(cluster.ContributingAgents, ", "))
		fmt.Fprintf(&b, "\nCombined reasoning: %s", cluster.MergedReasoning)
	} else {
		fmt.Fprintf(&b, "\n\nProposed by: %s", cluster.ContributingAgents[0])
		fmt.Fprintf(&b, "\nReasoning: %s", cluster.MergedReasoning)
	}
	return b.String()
}

// titleCase upper-cases each underscore- or space-separated word, so a
// custom theme like "deployment_strategy" labels as "Deployment Strategy".
func titleCase(theme string) string {
	words := strings.FieldsFunc(theme, func(r rune) bool {
		return r == '_' || r == ' '
	})
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

package synthesis

import (
	"strings"

	"github.com/ShayCichocki/quorum/pkg/models"
)

// Analysis is a read-only diagnostic over submitted proposals, distinct
// from the clustering that feeds synthesis: here one proposal can surface
// under several themes.
type Analysis struct {
	TotalProposals int            `json:"total_proposals"`
	Agents         []string       `json:"agents"`
	Themes         []ThemeMention `json:"themes"`
}

// ThemeMention records which agents touched a theme.
type ThemeMention struct {
	Theme  string   `json:"theme"`
	Agents []string `json:"agents"`
}

// AnalyzeProposals scans every proposal against the analysis keyword groups
// and reports, per theme, the agents whose text mentioned it. Themes with no
// mentions are omitted; theme order follows the fixed group order.
func AnalyzeProposals(proposals []models.Proposal) Analysis {
	analysis := Analysis{
		TotalProposals: len(proposals),
		Agents:         make([]string, 0, len(proposals)),
	}
	for _, p := range proposals {
		analysis.Agents = append(analysis.Agents, p.AgentName)
	}

	for _, group := range defaultAnalysisGroups {
		var agents []string
		for _, p := range proposals {
			text := strings.ToLower(p.Proposal + " " + p.Reasoning)
			for _, kw := range group.keywords {
				if strings.Contains(text, kw) {
					agents = append(agents, p.AgentName)
					break
				}
			}
		}
		if len(agents) > 0 {
			analysis.Themes = append(analysis.Themes, ThemeMention{
				Theme:  group.theme,
				Agents: agents,
			})
		}
	}
	return analysis
}

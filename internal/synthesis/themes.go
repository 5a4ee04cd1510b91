// Package synthesis turns free-text proposals into a bounded list of voting
// options: a deterministic keyword-driven clustering pass followed by option
// generation, plus read-only diagnostics over the proposal landscape.
package synthesis

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ThemeGroup is one ordered keyword group used to classify proposal text.
type ThemeGroup struct {
	// Theme is the cluster key this group assigns.
	Theme string `yaml:"theme"`
	// Keywords are matched as lower-case substrings of proposal+reasoning.
	Keywords []string `yaml:"keywords"`
	// Title is the human label used for option titles. Optional; unset
	// themes fall back to a Title-cased "<Theme> Approach".
	Title string `yaml:"title"`
}

// ThemeGeneral is the catch-all theme for proposals matching no group.
const ThemeGeneral = "general"

// DefaultThemeGroups is the ordered group list used for clustering. Order
// matters: a proposal is assigned to the first group with any keyword hit,
// and to "general" when nothing matches.
var DefaultThemeGroups = []ThemeGroup{
	{
		Theme:    "meta_documentation",
		Keywords: []string{"meta", "documentation", "process", "showcase", "creation"},
		Title:    "Meta-Documentation Approach",
	},
	{
		Theme:    "overview_approach",
		Keywords: []string{"about", "overview", "general", "mission", "contact"},
		Title:    "General Overview Approach",
	},
	{
		Theme:    "technical_focus",
		Keywords: []string{"technical", "architecture", "code", "development"},
		Title:    "Technical-Focused Approach",
	},
}

// themeTitles maps known themes to their option-title labels, including
// themes that only appear via custom group files.
var themeTitles = map[string]string{
	"meta_documentation": "Meta-Documentation Approach",
	"overview_approach":  "General Overview Approach",
	"technical_focus":    "Technical-Focused Approach",
	"collaboration":      "Collaboration-Centered Approach",
	ThemeGeneral:         "Hybrid Approach",
}

// analysisGroup is a keyword group for the read-only proposal analysis.
// Unlike clustering these are not exclusive: one proposal can surface in
// several themes.
type analysisGroup struct {
	theme    string
	keywords []string
}

var defaultAnalysisGroups = []analysisGroup{
	{"meta_documentation", []string{"meta", "documentation", "process", "creation", "showcase"}},
	{"collaboration", []string{"collaboration", "team", "collaborative", "democratic"}},
	{"technical", []string{"technical", "architecture", "code", "development", "stack"}},
	{"overview", []string{"overview", "about", "general", "mission", "capabilities"}},
	{"contact", []string{"contact", "reach", "communication"}},
}

// LoadThemeGroups reads an ordered theme group list from a YAML file,
// allowing projects to tune clustering to their own vocabulary.
func LoadThemeGroups(path string) ([]ThemeGroup, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read theme groups: %w", err)
	}
	var groups []ThemeGroup
	if err := yaml.Unmarshal(data, &groups); err != nil {
		return nil, fmt.Errorf("parse theme groups: %w", err)
	}
	for i, g := range groups {
		if g.Theme == "" {
			return nil, fmt.Errorf("theme group %d: missing theme", i)
		}
		if len(g.Keywords) == 0 {
			return nil, fmt.Errorf("theme group %q: no keywords", g.Theme)
		}
	}
	return groups, nil
}

package synthesis

import (
	"os"
	"path/filepath"
	"testing"
)

func writeThemesFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "themes.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write themes file: %v", err)
	}
	return path
}

func TestLoadThemeGroups_Valid(t *testing.T) {
	path := writeThemesFile(t, `
- theme: deployment_strategy
  keywords: [deploy, rollout, release]
  title: Deployment Strategy
- theme: testing_focus
  keywords: [test, coverage]
`)

	groups, err := LoadThemeGroups(path)
	if err != nil {
		t.Fatalf("LoadThemeGroups failed: %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("group count = %d, want 2", len(groups))
	}
	if groups[0].Theme != "deployment_strategy" {
		t.Errorf("first theme = %q", groups[0].Theme)
	}
	if groups[0].Title != "Deployment Strategy" {
		t.Errorf("first title = %q", groups[0].Title)
	}
	if len(groups[1].Keywords) != 2 || groups[1].Keywords[0] != "test" {
		t.Errorf("second keywords = %v", groups[1].Keywords)
	}
}

func TestLoadThemeGroups_MissingTheme(t *testing.T) {
	path := writeThemesFile(t, `
- keywords: [deploy]
`)
	if _, err := LoadThemeGroups(path); err == nil {
		t.Error("group without a theme should fail validation")
	}
}

func TestLoadThemeGroups_NoKeywords(t *testing.T) {
	path := writeThemesFile(t, `
- theme: empty_group
`)
	if _, err := LoadThemeGroups(path); err == nil {
		t.Error("group without keywords should fail validation")
	}
}

func TestLoadThemeGroups_MissingFile(t *testing.T) {
	if _, err := LoadThemeGroups(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("missing file should return an error")
	}
}

func TestLoadThemeGroups_MalformedYAML(t *testing.T) {
	path := writeThemesFile(t, "theme: [unclosed")
	if _, err := LoadThemeGroups(path); err == nil {
		t.Error("malformed YAML should return an error")
	}
}

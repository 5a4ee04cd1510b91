package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ShayCichocki/quorum/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Manage configuration",
	Long: `View or modify Quorum configuration.

Without arguments, displays current configuration.
With one argument (key), displays the value for that key.
With two arguments (key value), sets the configuration value.

Configuration is stored at ~/.config/quorum/config.yaml
Project-specific overrides can be placed in .quorum.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}

		switch len(args) {
		case 0:
			displayAllConfig(cfg)
		case 1:
			displayConfigKey(cfg, args[0])
		default:
			setConfigKey(cfg, args[0], args[1])
		}
	},
}

// displayAllConfig prints all configuration values.
func displayAllConfig(cfg *config.Config) {
	agents := "(not set)"
	if len(cfg.Defaults.Agents) > 0 {
		agents = strings.Join(cfg.Defaults.Agents, ",")
	}
	themesFile := cfg.Synthesis.ThemesFile
	if themesFile == "" {
		themesFile = "(built-in)"
	}

	fmt.Printf("defaults.agents: %s\n", agents)
	fmt.Printf("defaults.conflict_type: %s\n", cfg.Defaults.ConflictType)
	fmt.Printf("synthesis.max_options: %d\n", cfg.Synthesis.MaxOptions)
	fmt.Printf("synthesis.themes_file: %s\n", themesFile)
	fmt.Printf("inbox.dir: %s\n", cfg.Inbox.Dir)
	fmt.Printf("archive.path: %s\n", cfg.Archive.Path)
	fmt.Printf("tui.refresh_rate: %s\n", cfg.TUI.RefreshRate)
}

// displayConfigKey prints a single configuration value.
func displayConfigKey(cfg *config.Config, key string) {
	value, err := getConfigValue(cfg, key)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(value)
}

// setConfigKey sets a configuration value and saves the config.
func setConfigKey(cfg *config.Config, key, value string) {
	if err := setConfigValue(cfg, key, value); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := config.Save(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving config: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Set %s = %s\n", key, value)
}

// getConfigValue retrieves a configuration value by dot-notation key.
func getConfigValue(cfg *config.Config, key string) (string, error) {
	switch strings.ToLower(key) {
	case "defaults.agents":
		if len(cfg.Defaults.Agents) == 0 {
			return "(not set)", nil
		}
		return strings.Join(cfg.Defaults.Agents, ","), nil
	case "defaults.conflict_type":
		return cfg.Defaults.ConflictType, nil
	case "synthesis.max_options":
		return strconv.Itoa(cfg.Synthesis.MaxOptions), nil
	case "synthesis.themes_file":
		return cfg.Synthesis.ThemesFile, nil
	case "inbox.dir":
		return cfg.Inbox.Dir, nil
	case "archive.path":
		return cfg.Archive.Path, nil
	case "tui.refresh_rate":
		return cfg.TUI.RefreshRate.String(), nil
	default:
		return "", fmt.Errorf("unknown configuration key: %s", key)
	}
}

// setConfigValue sets a configuration value by dot-notation key.
func setConfigValue(cfg *config.Config, key, value string) error {
	switch strings.ToLower(key) {
	case "defaults.agents":
		cfg.Defaults.Agents = splitAgents(value)
	case "defaults.conflict_type":
		cfg.Defaults.ConflictType = value
	case "synthesis.max_options":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for max_options: %w", err)
		}
		cfg.Synthesis.MaxOptions = n
	case "synthesis.themes_file":
		cfg.Synthesis.ThemesFile = value
	case "inbox.dir":
		cfg.Inbox.Dir = value
	case "archive.path":
		cfg.Archive.Path = value
	case "tui.refresh_rate":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration for refresh_rate: %w", err)
		}
		cfg.TUI.RefreshRate = d
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	return nil
}

// splitAgents parses a comma-separated agent list, dropping empty entries.
func splitAgents(value string) []string {
	var agents []string
	for _, name := range strings.Split(value, ",") {
		name = strings.TrimSpace(name)
		if name != "" {
			agents = append(agents, name)
		}
	}
	return agents
}

// Package config handles configuration loading and management for Quorum.
// It supports XDG config paths, project-level overrides, and environment
// variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for Quorum.
type Config struct {
	Defaults  DefaultsConfig  `mapstructure:"defaults"`
	Synthesis SynthesisConfig `mapstructure:"synthesis"`
	Inbox     InboxConfig     `mapstructure:"inbox"`
	Archive   ArchiveConfig   `mapstructure:"archive"`
	TUI       TUIConfig       `mapstructure:"tui"`
}

// DefaultsConfig holds default values for new decisions.
type DefaultsConfig struct {
	// Agents is the default participating agent roster.
	Agents []string `mapstructure:"agents"`
	// ConflictType is used when a trigger omits one.
	ConflictType string `mapstructure:"conflict_type"`
}

// SynthesisConfig tunes clustering and option generation.
type SynthesisConfig struct {
	// MaxOptions bounds the synthesized ballot size.
	MaxOptions int `mapstructure:"max_options"`
	// ThemesFile optionally points at a YAML file with custom ordered
	// theme keyword groups.
	ThemesFile string `mapstructure:"themes_file"`
}

// InboxConfig locates the file drop-box for cross-process submissions.
type InboxConfig struct {
	Dir string `mapstructure:"dir"`
}

// ArchiveConfig locates the SQLite archive of finalized decisions.
type ArchiveConfig struct {
	Path string `mapstructure:"path"`
}

// TUIConfig holds watch-view display settings.
type TUIConfig struct {
	RefreshRate time.Duration `mapstructure:"refresh_rate"`
}

// Load loads configuration from XDG paths, project overrides, and
// environment variables. Precedence (highest to lowest):
// 1. Environment variables (QUORUM_*)
// 2. Project config (.quorum.yaml in current directory or parent)
// 3. User config (~/.config/quorum/config.yaml)
// 4. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	userConfigDir := getUserConfigDir()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(userConfigDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	// Project config overrides the user config when present.
	projectConfig := findProjectConfig()
	if projectConfig != "" {
		projectViper := viper.New()
		projectViper.SetConfigFile(projectConfig)
		if err := projectViper.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(projectViper.AllSettings()); err != nil {
				return nil, fmt.Errorf("merging project config: %w", err)
			}
		}
	}

	v.SetEnvPrefix("QUORUM")
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return cfg, nil
}

// LoadFromPath loads configuration from a specific path (for testing).
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration to the user config file.
func Save(cfg *Config) error {
	userConfigDir := getUserConfigDir()
	if err := os.MkdirAll(userConfigDir, 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	configPath := filepath.Join(userConfigDir, "config.yaml")

	v := viper.New()
	v.SetConfigFile(configPath)

	v.Set("defaults.agents", cfg.Defaults.Agents)
	v.Set("defaults.conflict_type", cfg.Defaults.ConflictType)
	v.Set("synthesis.max_options", cfg.Synthesis.MaxOptions)
	v.Set("synthesis.themes_file", cfg.Synthesis.ThemesFile)
	v.Set("inbox.dir", cfg.Inbox.Dir)
	v.Set("archive.path", cfg.Archive.Path)
	v.Set("tui.refresh_rate", cfg.TUI.RefreshRate.String())

	return v.WriteConfig()
}

// GetUserConfigPath returns the path to the user config file.
func GetUserConfigPath() string {
	return filepath.Join(getUserConfigDir(), "config.yaml")
}

// GetProjectConfigPath returns the path to the project config file if it exists.
func GetProjectConfigPath() string {
	return findProjectConfig()
}

// setDefaults configures default values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("defaults.agents", []string{})
	v.SetDefault("defaults.conflict_type", "manual_trigger")

	v.SetDefault("synthesis.max_options", 4)
	v.SetDefault("synthesis.themes_file", "")

	v.SetDefault("inbox.dir", filepath.Join(".quorum", "inbox"))
	v.SetDefault("archive.path", filepath.Join(".quorum", "decisions.db"))

	v.SetDefault("tui.refresh_rate", "500ms")
}

// getUserConfigDir returns the XDG config directory for Quorum.
func getUserConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "quorum")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "quorum")
	}
	return filepath.Join(home, ".config", "quorum")
}

// findProjectConfig searches for .quorum.yaml in the current directory and parents.
func findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(cwd, ".quorum.yaml")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(cwd)
		if parent == cwd {
			break
		}
		cwd = parent
	}

	return ""
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Defaults: DefaultsConfig{
			ConflictType: "manual_trigger",
		},
		Synthesis: SynthesisConfig{
			MaxOptions: 4,
		},
		Inbox: InboxConfig{
			Dir: filepath.Join(".quorum", "inbox"),
		},
		Archive: ArchiveConfig{
			Path: filepath.Join(".quorum", "decisions.db"),
		},
		TUI: TUIConfig{
			RefreshRate: 500 * time.Millisecond,
		},
	}
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ShayCichocki/quorum/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "quorum",
	Short: "Democratic decision engine for multi-agent workflows",
	Long: `Quorum runs structured democratic decisions between collaborating agents:
proposals are collected, clustered into voting options, and settled by
ranked-choice (Borda count) voting.

A decision moves through five phases:
  context_loading → idea_collection → synthesis → ranked_voting → commitment

Run 'quorum serve' to host the engine and ingest submissions from the file
inbox, or 'quorum demo' for a self-contained scripted run.`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig loads configuration and wraps the error for command use.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(triggerCmd)
	rootCmd.AddCommand(proposeCmd)
	rootCmd.AddCommand(voteCmd)
	rootCmd.AddCommand(synthesizeCmd)
	rootCmd.AddCommand(advanceCmd)
	rootCmd.AddCommand(finalizeCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(reflectCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

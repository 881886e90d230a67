// Package main provides the entry point for the hiring agent CLI and HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/hiring-agent/internal/config"
	"github.com/jonathan/hiring-agent/internal/logger"
)

var (
	configFile string
	v          = config.NewViper()
)

var rootCmd = &cobra.Command{
	Use:           "hiring_agent",
	Short:         "Autonomous hiring agent",
	Long:          "Hiring agent turns hiring goals into ranked candidate shortlists, outreach and follow-ups, and serves them over a REST API.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to config file (default ./hiring-agent.yaml if present)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().Bool("json-logs", false, "Emit logs as JSON")
	rootCmd.PersistentFlags().String("db-url", "", "Database URL (overrides DATABASE_URL)")

	_ = v.BindPFlag("log.debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = v.BindPFlag("log.json", rootCmd.PersistentFlags().Lookup("json-logs"))
	_ = v.BindPFlag("database.url", rootCmd.PersistentFlags().Lookup("db-url"))
}

// loadApp reads configuration and builds the logger for a command.
func loadApp() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(v, configFile)
	if err != nil {
		return nil, nil, err
	}
	log, err := logger.New(logger.Options{JSON: cfg.Log.JSON, Debug: cfg.Log.Debug, File: cfg.Log.File})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return cfg, log, nil
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

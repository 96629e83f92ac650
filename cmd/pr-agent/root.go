package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/HendryAvila/pr-agent/internal/config"
	"github.com/HendryAvila/pr-agent/internal/logging"
)

var (
	configFile string
	logLevel   string

	// cfg is loaded once in PersistentPreRunE for every subcommand.
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:          "pr-agent",
	Short:        "Pull request and CI/CD assistant for AI coding tools",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" {
			return nil
		}

		// Load .env file without overriding existing env vars.
		_ = godotenv.Load()

		loaded, err := config.Load(configFile)
		if err != nil {
			return err
		}
		if logLevel != "" {
			loaded.Log.Level = logLevel
		}
		cfg = loaded

		// stdout belongs to the MCP stdio transport.
		logging.Setup(os.Stderr, cfg.Log.Level)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default: pr-agent.{yaml,json,toml} in . or ~/.pr-agent)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")

	rootCmd.AddCommand(serveCmd, webhookCmd, versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

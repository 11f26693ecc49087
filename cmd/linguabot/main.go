package main

import (
	"fmt"
	"log/slog"
	"os"

	"linguabot/internal/config"
	"linguabot/internal/logging"

	"github.com/spf13/cobra"
)

var (
	version    = "0.1.0"
	logger     *slog.Logger
	configPath string
)

func main() {
	logger = logging.New("info", "text", os.Stderr)

	root := &cobra.Command{
		Use:          "linguabot",
		Short:        "Telegram translation bot with voice transcription",
		Long:         "linguabot serves a Telegram webhook that translates messages between Russian, English and Indonesian and mirrors all traffic to an operator chat.",
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "path to config.yaml (a missing file is fine)")

	root.AddCommand(serveCmd())
	root.AddCommand(webhookCmd())
	root.AddCommand(statusCmd())
	root.AddCommand(translateCmd())
	root.AddCommand(auditCmd())
	root.AddCommand(configCmd())
	root.AddCommand(versionCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig loads and validates the configuration, then replaces the
// bootstrap logger with one built from the log section.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger = logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)
	slog.SetDefault(logger)
	return cfg, nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "linguabot %s\n", version)
		},
	}
}

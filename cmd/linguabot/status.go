package main

import (
	"fmt"

	"linguabot/internal/provider"

	"github.com/spf13/cobra"
)

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check the bot token and show the configured backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "config:   %s\n", configPath)

			tg, err := newTelegram(cfg)
			if err != nil {
				fmt.Fprintf(out, "telegram: FAIL (%v)\n", err)
			} else {
				fmt.Fprintf(out, "telegram: ok (@%s)\n", tg.Self().UserName)
			}

			backend, err := provider.NewBackend(cmd.Context(), cfg.LLM, provider.SharedHTTPClient(0), logger)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "backend:  %s (%s)\n", backend.Name(), backend.Model())
			fmt.Fprintf(out, "whisper:  %s\n", cfg.Transcription.Model)
			fmt.Fprintf(out, "audit:    %t\n", cfg.Audit.Enabled)
			return nil
		},
	}
}

package main

import (
	"fmt"
	"strings"

	"linguabot/internal/dispatch"
	"linguabot/internal/provider"

	"github.com/spf13/cobra"
)

func translateCmd() *cobra.Command {
	var to string
	cmd := &cobra.Command{
		Use:   "translate [--to en|id|ru] <text>",
		Short: "Translate text once with the configured backend",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lang, ok := dispatch.LanguageByCode(to)
			if !ok {
				return fmt.Errorf("unknown target language %q (want en, id or ru)", to)
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			backend, err := provider.NewBackend(cmd.Context(), cfg.LLM, provider.SharedHTTPClient(0), logger)
			if err != nil {
				return err
			}

			out, err := dispatch.NewTranslator(backend).Translate(cmd.Context(), strings.Join(args, " "), lang)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVar(&to, "to", "en", "target language: en, id or ru")
	return cmd
}

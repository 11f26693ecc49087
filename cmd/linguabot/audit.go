package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"linguabot/internal/audit"

	"github.com/spf13/cobra"
)

func auditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Inspect the audit journal",
	}

	var n int
	tail := &cobra.Command{
		Use:   "tail",
		Short: "Print the most recent journal entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if !cfg.Audit.Enabled {
				logger.Warn("audit journal is disabled; showing existing rows only", "path", cfg.Audit.DBPath)
			}
			store, err := audit.Open(cfg.Audit.DBPath, logger)
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.Tail(cmd.Context(), n)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TIME\tDIR\tCHAT\tKIND\tMIRRORED\tTEXT")
			for _, e := range entries {
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%t\t%s\n",
					e.CreatedAt.Local().Format("2006-01-02 15:04:05"),
					e.Direction, e.ChatID, e.Kind, e.Mirrored, oneLine(e.Text, 60))
			}
			return w.Flush()
		},
	}
	tail.Flags().IntVarP(&n, "lines", "n", 20, "number of entries")

	cmd.AddCommand(tail)
	return cmd
}

func oneLine(s string, limit int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if r := []rune(s); len(r) > limit {
		return string(r[:limit]) + "…"
	}
	return s
}

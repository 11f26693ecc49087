package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func webhookCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "webhook",
		Short: "Manage the Telegram webhook registration",
	}

	var dropPending bool
	set := &cobra.Command{
		Use:   "set <url>",
		Short: "Point Telegram at url (https only); sends the configured secret token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			tg, err := newTelegram(cfg)
			if err != nil {
				return err
			}
			if err := tg.SetWebhook(args[0], cfg.Telegram.WebhookSecret, dropPending); err != nil {
				return err
			}
			logger.Info("webhook set", "url", args[0], "secret", cfg.Telegram.WebhookSecret != "")
			return nil
		},
	}
	set.Flags().BoolVar(&dropPending, "drop-pending", false, "drop updates queued while no webhook was set")

	var dropOnDelete bool
	del := &cobra.Command{
		Use:   "delete",
		Short: "Remove the webhook",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			tg, err := newTelegram(cfg)
			if err != nil {
				return err
			}
			if err := tg.DeleteWebhook(dropOnDelete); err != nil {
				return err
			}
			logger.Info("webhook deleted")
			return nil
		},
	}
	del.Flags().BoolVar(&dropOnDelete, "drop-pending", false, "drop pending updates")

	info := &cobra.Command{
		Use:   "info",
		Short: "Show the current webhook status",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			tg, err := newTelegram(cfg)
			if err != nil {
				return err
			}
			wi, err := tg.WebhookInfo()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "url:             %s\n", wi.URL)
			fmt.Fprintf(out, "pending updates: %d\n", wi.PendingUpdateCount)
			if wi.LastErrorDate != 0 {
				fmt.Fprintf(out, "last error:      %s (unix %d)\n", wi.LastErrorMessage, wi.LastErrorDate)
			}
			return nil
		},
	}

	cmd.AddCommand(set, del, info)
	return cmd
}

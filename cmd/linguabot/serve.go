package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"linguabot/internal/audit"
	"linguabot/internal/channel"
	"linguabot/internal/config"
	"linguabot/internal/dispatch"
	"linguabot/internal/media"
	"linguabot/internal/metrics"
	"linguabot/internal/provider"
	"linguabot/internal/scheduler"
	"linguabot/internal/telegram"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// staleTempDirAge is how old a leftover transcode directory must be before
// the sweep job removes it.
const staleTempDirAge = time.Hour

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the webhook server",
		Long:  "Starts the HTTP server receiving Telegram updates and the maintenance scheduler. Press Ctrl+C to stop.",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tg, err := newTelegram(cfg)
	if err != nil {
		return err
	}
	logger.Info("telegram connected", "bot", tg.Self().UserName)

	httpClient := provider.SharedHTTPClient(0)
	backend, err := provider.NewBackend(ctx, cfg.LLM, httpClient, logger)
	if err != nil {
		return err
	}
	transcoder := media.NewFFmpeg(media.FFmpegConfig{
		Path:    cfg.Media.FFmpegPath,
		TempDir: cfg.Media.TempDir,
		Logger:  logger,
	})

	sched, err := scheduler.New(logger)
	if err != nil {
		return err
	}

	dcfg := dispatch.Config{
		Messenger:   tg,
		Backend:     backend,
		Transcriber: provider.NewTranscriber(cfg.Transcription, cfg.LLM.MaxRetries, httpClient, logger),
		Transcoder:  transcoder,
		LogChatID:   cfg.Telegram.LogChatID,
		Greeting:    cfg.Messages.Greeting,
		Logger:      logger,
	}

	if cfg.Audit.Enabled {
		store, err := audit.Open(cfg.Audit.DBPath, logger)
		if err != nil {
			return fmt.Errorf("audit journal: %w", err)
		}
		defer store.Close()
		dcfg.Journal = store

		retention := time.Duration(cfg.Audit.RetentionDays) * 24 * time.Hour
		if err := sched.AddJournalPrune(cfg.Scheduler.PruneCron, store, retention); err != nil {
			return err
		}
		logger.Info("audit journal enabled", "path", cfg.Audit.DBPath, "retention_days", cfg.Audit.RetentionDays)
	}
	if err := sched.AddTempDirSweep(cfg.Scheduler.SweepCron, transcoder.TempDir(), staleTempDirAge); err != nil {
		return err
	}

	hook := channel.NewWebhook(channel.WebhookConfig{
		Path:           cfg.Server.WebhookPath,
		Secret:         cfg.Telegram.WebhookSecret,
		ProcessTimeout: cfg.Server.ProcessTimeout,
		Handler:        dispatch.New(dcfg),
		Logger:         logger,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return hook.Serve(gctx, cfg.Server.Addr()) })
	g.Go(func() error { return sched.Run(gctx) })

	logger.Info("linguabot started. Press Ctrl+C to stop.", "version", version, "jobs", sched.JobNames())
	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("shutdown complete", "requests_handled", metrics.RequestLatency.Count())
	return nil
}

func newTelegram(cfg *config.Config) (*telegram.Client, error) {
	return telegram.New(telegram.Config{
		Token:       cfg.Telegram.Token,
		APIEndpoint: cfg.Telegram.APIEndpoint,
		Logger:      logger,
	})
}

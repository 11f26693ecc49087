// Package scheduler runs the periodic maintenance jobs: journal retention
// and cleanup of stale transcode directories.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"linguabot/internal/media"

	"github.com/go-co-op/gocron/v2"
)

// Job is a unit of scheduled work. The context is cancelled on shutdown.
type Job func(ctx context.Context) error

// Pruner deletes journal rows older than maxAge.
type Pruner interface {
	Prune(ctx context.Context, maxAge time.Duration) (int64, error)
}

type Scheduler struct {
	s      gocron.Scheduler
	ctx    context.Context
	cancel context.CancelFunc
	logger *slog.Logger
}

// New creates a scheduler in UTC. Jobs start firing once Run is called.
func New(logger *slog.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s, err := gocron.NewScheduler(
		gocron.WithLocation(time.UTC),
		gocron.WithLogger(logger.With("component", "gocron")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{s: s, ctx: ctx, cancel: cancel, logger: logger}, nil
}

// AddJob schedules job on a standard five-field cron expression.
func (s *Scheduler) AddJob(name, cronExpr string, job Job) error {
	if name == "" {
		return errors.New("empty job name")
	}
	if cronExpr == "" {
		return errors.New("empty cron expression")
	}
	if job == nil {
		return errors.New("nil job function")
	}

	scheduled, err := s.s.NewJob(
		gocron.CronJob(cronExpr, false),
		gocron.NewTask(s.wrap(name, job)),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule job %s: %w", name, err)
	}

	attrs := []any{"job", name, "cron", cronExpr}
	if next, err := scheduled.NextRun(); err == nil {
		attrs = append(attrs, "next_run", next.Format(time.RFC3339))
	}
	s.logger.Info("job scheduled", attrs...)
	return nil
}

// AddJournalPrune deletes journal rows older than retention.
func (s *Scheduler) AddJournalPrune(cronExpr string, p Pruner, retention time.Duration) error {
	return s.AddJob("audit_prune", cronExpr, pruneJob(p, retention))
}

func pruneJob(p Pruner, retention time.Duration) Job {
	return func(ctx context.Context) error {
		_, err := p.Prune(ctx, retention)
		return err
	}
}

// AddTempDirSweep removes transcode directories in dir older than maxAge.
func (s *Scheduler) AddTempDirSweep(cronExpr, dir string, maxAge time.Duration) error {
	return s.AddJob("tempdir_sweep", cronExpr, s.sweepJob(dir, maxAge))
}

func (s *Scheduler) sweepJob(dir string, maxAge time.Duration) Job {
	return func(context.Context) error {
		n, err := media.SweepStale(dir, maxAge, time.Now())
		if n > 0 {
			s.logger.Info("stale transcode dirs removed", "count", n, "dir", dir)
		}
		return err
	}
}

// JobNames lists the registered jobs.
func (s *Scheduler) JobNames() []string {
	jobs := s.s.Jobs()
	names := make([]string, 0, len(jobs))
	for _, j := range jobs {
		names = append(names, j.Name())
	}
	return names
}

// Run starts the scheduler and blocks until ctx is done, then waits for
// running jobs to finish.
func (s *Scheduler) Run(ctx context.Context) error {
	s.s.Start()
	s.logger.Debug("scheduler started", "jobs", len(s.s.Jobs()))

	<-ctx.Done()
	s.cancel()
	if err := s.s.Shutdown(); err != nil {
		return fmt.Errorf("failed to shutdown scheduler: %w", err)
	}
	s.logger.Debug("scheduler stopped")
	return nil
}

func (s *Scheduler) wrap(name string, job Job) func() {
	return func() {
		start := time.Now()
		s.logger.Debug("job started", "job", name)

		if err := job(s.ctx); err != nil {
			s.logger.Error("job failed", "job", name, "duration", time.Since(start), "err", err)
			return
		}
		s.logger.Info("job finished", "job", name, "duration", time.Since(start))
	}
}

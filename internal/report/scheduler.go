package report

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

const runTimeout = 5 * time.Minute

// Runner is satisfied by *Service.
type Runner interface {
	RunPending(ctx context.Context, limit int) (int, error)
}

// Scheduler drains the report job queue on a cron schedule. A run that is
// still going when the next tick fires makes that tick a no-op.
type Scheduler struct {
	cron   *cron.Cron
	runner Runner
	batch  int
}

func NewScheduler(runner Runner, batch int) *Scheduler {
	logger := slogLogger{}

	return &Scheduler{
		cron:   cron.New(cron.WithLogger(logger), cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger))),
		runner: runner,
		batch:  batch,
	}
}

// Schedule registers the queue runner. Examples: "@every 1m", "*/5 * * * *".
func (s *Scheduler) Schedule(spec string) error {
	if _, err := s.cron.AddFunc(spec, s.RunOnce); err != nil {
		return fmt.Errorf("scheduling report jobs %q: %w", spec, err)
	}

	slog.Info("report jobs scheduled", "schedule", spec, "batch", s.batch)

	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop waits for a running batch to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	n, err := s.runner.RunPending(ctx, s.batch)
	if err != nil {
		slog.Error("failed to run report jobs", "error", err)
		return
	}

	if n > 0 {
		slog.Info("report jobs finished", "count", n)
	}
}

// slogLogger routes cron's own logging through slog.
type slogLogger struct{}

func (slogLogger) Info(msg string, keysAndValues ...any) {
	slog.Debug("cron: "+msg, keysAndValues...)
}

func (slogLogger) Error(err error, msg string, keysAndValues ...any) {
	slog.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}

// internal/syncer/schedule.go
package syncer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

const runTimeout = 30 * time.Minute

// Executor is the unit of work the Scheduler triggers.
type Executor interface {
	Execute(ctx context.Context) error
}

// Scheduler triggers an Executor on a cron schedule. A trigger that fires
// while the previous run is still going is skipped.
type Scheduler struct {
	cron         *cron.Cron
	schedule     cron.Schedule
	chain        cron.Chain
	exec         Executor
	logger       *slog.Logger
	spec         string
	runOnStartup bool
}

// NewScheduler validates spec (standard 5-field cron) and prepares the scheduler.
func NewScheduler(exec Executor, spec string, runOnStartup bool, logger *slog.Logger) (*Scheduler, error) {
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("invalid cron expression %q: %w", spec, err)
	}
	cl := cronLogger{logger: logger}
	return &Scheduler{
		cron:         cron.New(cron.WithLogger(cl)),
		schedule:     schedule,
		chain:        cron.NewChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		exec:         exec,
		logger:       logger,
		spec:         spec,
		runOnStartup: runOnStartup,
	}, nil
}

// Start runs the schedule until ctx is cancelled, then waits for a running job to finish.
func (s *Scheduler) Start(ctx context.Context) error {
	job := s.chain.Then(cron.FuncJob(func() { s.runOnce(ctx) }))
	s.cron.Schedule(s.schedule, job)
	s.cron.Start()
	s.logger.Info("Cron scheduler started", "schedule", s.spec)

	if s.runOnStartup {
		s.logger.Info("Running initial sync on startup")
		job.Run()
	}

	<-ctx.Done()
	s.logger.Info("Scheduler shutting down", "reason", ctx.Err())
	<-s.cron.Stop().Done()
	return nil
}

func (s *Scheduler) runOnce(parent context.Context) {
	if parent.Err() != nil {
		return
	}
	ctx, cancel := context.WithTimeout(parent, runTimeout)
	defer cancel()

	if err := s.exec.Execute(ctx); err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Error("Sync run failed", "error", err)
	}
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}

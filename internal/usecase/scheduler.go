package usecase

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"PreprintScanner/internal/ports"
)

// RunFunc performs one complete pipeline invocation.
type RunFunc func(ctx context.Context) error

// Scheduler wires the cron-like driver with the pipeline use case.
type Scheduler struct {
	driver  ports.Scheduler
	run     RunFunc
	logger  *slog.Logger
	running atomic.Bool
}

// NewScheduler returns a helper to start/stop recurring jobs.
func NewScheduler(driver ports.Scheduler, run RunFunc, logger *slog.Logger) *Scheduler {
	return &Scheduler{driver: driver, run: run, logger: logger}
}

// Start registers the run with the provided scheduler. Failed runs are
// logged and the scheduler waits for the next slot. A slot that fires while
// a run is still in progress is skipped.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.run == nil {
		return nil
	}

	return s.driver.Start(ctx, func(trigger time.Time) {
		s.Trigger(ctx, trigger)
	})
}

// Trigger executes one run unless another is in progress.
func (s *Scheduler) Trigger(ctx context.Context, trigger time.Time) {
	if !s.running.CompareAndSwap(false, true) {
		s.log(slog.LevelWarn, "previous run still in progress, skipping slot", "trigger", trigger)
		return
	}
	defer s.running.Store(false)

	s.log(slog.LevelInfo, "scheduled run started", "trigger", trigger)
	if err := s.run(ctx); err != nil {
		s.log(slog.LevelError, "scheduled run failed", "trigger", trigger, "error", err)
		return
	}
	s.log(slog.LevelInfo, "scheduled run finished", "trigger", trigger)
}

// Stop gracefully tears down the underlying scheduler.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}

	return s.driver.Stop(ctx)
}

func (s *Scheduler) log(level slog.Level, msg string, args ...any) {
	if s.logger != nil {
		s.logger.Log(context.Background(), level, msg, args...)
	}
}

// ============================================================================
// CoachLCD - Panel Script Interpreter
// ============================================================================
//
// Package:     scheduler
// Description: Periodic and on-demand sweeps without overlap
// Author:      Mike Stoffels
// Created:     2025-12-14
// License:     MIT
// ============================================================================

// Package scheduler runs sweeps on an interval and on demand. At most
// one sweep runs at a time; a trigger that arrives while a sweep is in
// progress is dropped.
package scheduler

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/tevino/abool/v2"

	"github.com/Coach97/SpaceEngineers-CoachLCD/internal/driver"
	"github.com/Coach97/SpaceEngineers-CoachLCD/pkg/core/logging"
)

// Sweeper runs one sweep
type Sweeper interface {
	Sweep(ctx context.Context) (*driver.Report, error)
}

// SweepFunc adapts a function to Sweeper
type SweepFunc func(ctx context.Context) (*driver.Report, error)

// Sweep calls f
func (f SweepFunc) Sweep(ctx context.Context) (*driver.Report, error) {
	return f(ctx)
}

// Options configures a Scheduler
type Options struct {
	Interval time.Duration               // 0 disables the periodic job
	OnReport func(*driver.Report, error) // Called after every sweep
	Logger   *logging.Logger
}

// Scheduler runs sweeps
type Scheduler struct {
	sweeper Sweeper
	cron    gocron.Scheduler
	opts    Options
	running *abool.AtomicBool
	skipped atomic.Int64
	ctx     context.Context
	cancel  context.CancelFunc
	logger  *logging.Logger
}

// New creates a scheduler; it does nothing until Start or Trigger
func New(sweeper Sweeper, opts Options) (*Scheduler, error) {
	if opts.Logger == nil {
		opts.Logger = logging.New("scheduler")
	}
	if opts.Interval < 0 {
		return nil, fmt.Errorf("interval cannot be negative: %v", opts.Interval)
	}

	cron, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		sweeper: sweeper,
		cron:    cron,
		opts:    opts,
		running: abool.New(),
		ctx:     ctx,
		cancel:  cancel,
		logger:  opts.Logger,
	}

	if opts.Interval > 0 {
		job, err := cron.NewJob(
			gocron.DurationJob(opts.Interval),
			gocron.NewTask(s.run),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
			gocron.WithStartAt(gocron.WithStartImmediately()),
		)
		if err != nil {
			cancel()
			_ = cron.Shutdown()
			return nil, fmt.Errorf("failed to schedule sweeps: %w", err)
		}
		s.logger.Debug("Sweep job scheduled", "job_id", job.ID().String(), "interval", opts.Interval)
	}

	return s, nil
}

// Start starts the periodic job
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("Scheduler started", "interval", s.opts.Interval)
}

// Trigger runs a sweep now. It returns false when a sweep was already
// running and this one was dropped.
func (s *Scheduler) Trigger() bool {
	return s.run()
}

// Running reports whether a sweep is in progress
func (s *Scheduler) Running() bool {
	return s.running.IsSet()
}

// Skipped returns the number of dropped triggers
func (s *Scheduler) Skipped() int64 {
	return s.skipped.Load()
}

// Stop cancels a running sweep between surfaces and shuts the job down
func (s *Scheduler) Stop() error {
	s.cancel()
	if err := s.cron.Shutdown(); err != nil {
		return fmt.Errorf("failed to stop scheduler: %w", err)
	}
	s.logger.Info("Scheduler stopped", "skipped", s.Skipped())
	return nil
}

func (s *Scheduler) run() bool {
	if s.ctx.Err() != nil {
		return false
	}
	if !s.running.SetToIf(false, true) {
		s.skipped.Add(1)
		s.logger.Debug("Sweep already running, trigger dropped")
		return false
	}
	defer s.running.UnSet()

	report, err := s.sweeper.Sweep(s.ctx)
	if err != nil {
		s.logger.Warn("Sweep failed", "error", err)
	}
	if s.opts.OnReport != nil {
		s.opts.OnReport(report, err)
	}
	return true
}

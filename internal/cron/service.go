package cron

import (
	"context"
	"fmt"
	"strings"
	"time"

	pkgerrors "github.com/alanhoffer/hf-dashboard/pkg/errors"
	"github.com/alanhoffer/hf-dashboard/pkg/logger"
	"github.com/alanhoffer/hf-dashboard/pkg/metrics"
	robfig "github.com/robfig/cron/v3"
)

const defaultInterval = time.Hour

// ServiceParams configure the cron service.
type ServiceParams struct {
	Logger   *logger.Logger
	Registry *Registry
	Lock     Lock
	Metrics  *metrics.CronJobMetrics
	Interval time.Duration
	// Schedule is a standard 5-field cron expression; it wins over Interval.
	Schedule string
	Now      func() time.Time
}

// Service executes registered cron jobs on a fixed cadence.
type Service struct {
	logg     *logger.Logger
	registry *Registry
	lock     Lock
	metrics  *metrics.CronJobMetrics
	schedule robfig.Schedule
	now      func() time.Time
}

// NewService builds a cron service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Lock == nil {
		return nil, fmt.Errorf("lock required")
	}
	registry := params.Registry
	if registry == nil {
		registry = NewRegistry()
	}
	schedule, err := parseSchedule(params.Schedule, params.Interval)
	if err != nil {
		return nil, err
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		logg:     params.Logger,
		registry: registry,
		lock:     params.Lock,
		metrics:  params.Metrics,
		schedule: schedule,
		now:      now,
	}, nil
}

func parseSchedule(expr string, interval time.Duration) (robfig.Schedule, error) {
	if expr = strings.TrimSpace(expr); expr != "" {
		schedule, err := robfig.ParseStandard(expr)
		if err != nil {
			return nil, fmt.Errorf("parse cron schedule %q: %w", expr, err)
		}
		return schedule, nil
	}
	if interval <= 0 {
		interval = defaultInterval
	}
	return robfig.Every(interval), nil
}

// Run executes one cycle immediately, then one per schedule tick until the
// context is canceled.
func (s *Service) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := s.runCycle(ctx); err != nil {
		s.logg.Error(ctx, "scheduled run failed", err)
	}

	for {
		now := s.now()
		wait := s.schedule.Next(now).Sub(now)
		if wait < 0 {
			wait = 0
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			s.logg.Info(ctx, "cron service context canceled")
			return ctx.Err()
		case <-timer.C:
			if err := s.runCycle(ctx); err != nil {
				s.logg.Error(ctx, "scheduled run failed", err)
			}
		}
	}
}

// RunOnce executes a single locked cycle.
func (s *Service) RunOnce(ctx context.Context) error {
	return s.runCycle(ctx)
}

func (s *Service) runCycle(ctx context.Context) error {
	locked, err := s.lock.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("lock acquire: %w", err)
	}
	if !locked {
		if holder, ok := s.lock.(holderLock); ok {
			if current, err := holder.Holder(ctx); err == nil && current != "" {
				ctx = s.logg.WithField(ctx, "lock_holder", current)
			}
		}
		s.logg.Info(ctx, "another cron instance is running; skipping this cycle")
		s.metrics.IncSkipped()
		return nil
	}
	defer func() {
		if relErr := s.lock.Release(ctx); relErr != nil {
			s.logg.Error(ctx, "failed to release cron lock", relErr)
		}
	}()

	s.logg.Info(ctx, "scheduled run starting")
	for _, job := range s.registry.Jobs() {
		s.runJob(ctx, job)
	}
	s.logg.Info(ctx, "scheduled run complete")
	return nil
}

func (s *Service) runJob(ctx context.Context, job Job) {
	ctx = s.logg.WithFields(ctx, map[string]any{"job": job.Name(), "event": "cron.job"})
	s.logg.Info(ctx, "job start")

	start := time.Now()
	err := job.Run(ctx)
	elapsed := time.Since(start)
	s.metrics.ObserveRun(job.Name(), elapsed, err)

	ctx = s.logg.WithField(ctx, "duration_ms", elapsed.Milliseconds())
	if err != nil {
		// Retryable failures are picked up again on the next cycle.
		ctx = s.logg.WithField(ctx, "retryable", pkgerrors.IsRetryable(err))
		s.logg.Error(ctx, "job failed", err)
		return
	}
	s.logg.Info(ctx, "job completed")
}

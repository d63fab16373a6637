package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alanhoffer/hf-dashboard/pkg/logger"
)

type fakeSweeper struct {
	calledAt time.Time
	swept    int
	err      error
}

func (f *fakeSweeper) SweepExpired(ctx context.Context, now time.Time) (int, error) {
	f.calledAt = now
	return f.swept, f.err
}

func TestStockExpirationJobSweepsAtNow(t *testing.T) {
	fixed := time.Date(2026, 5, 10, 3, 0, 0, 0, time.UTC)
	sweeper := &fakeSweeper{swept: 2}
	job, err := NewStockExpirationJob(StockExpirationJobParams{
		Logger:  logger.New(logger.Options{ServiceName: "cron-test"}),
		Sweeper: sweeper,
		Now:     func() time.Time { return fixed },
	})
	if err != nil {
		t.Fatalf("new job: %v", err)
	}
	if job.Name() != "stock-expiration" {
		t.Fatalf("unexpected job name %q", job.Name())
	}
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !sweeper.calledAt.Equal(fixed) {
		t.Fatalf("expected sweep at %s, got %s", fixed, sweeper.calledAt)
	}
}

func TestStockExpirationJobPropagatesError(t *testing.T) {
	job, err := NewStockExpirationJob(StockExpirationJobParams{
		Logger:  logger.New(logger.Options{ServiceName: "cron-test"}),
		Sweeper: &fakeSweeper{err: errors.New("db down")},
	})
	if err != nil {
		t.Fatalf("new job: %v", err)
	}
	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected sweep error")
	}
	if _, err := NewStockExpirationJob(StockExpirationJobParams{}); err == nil {
		t.Fatal("expected validation error")
	}
}

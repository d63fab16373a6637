package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/alanhoffer/hf-dashboard/pkg/logger"
)

type expiredSweeper interface {
	SweepExpired(ctx context.Context, now time.Time) (int, error)
}

// StockExpirationJobParams configures the stock expiration sweep.
type StockExpirationJobParams struct {
	Logger  *logger.Logger
	Sweeper expiredSweeper
	Now     func() time.Time
}

type stockExpirationJob struct {
	logg    *logger.Logger
	sweeper expiredSweeper
	now     func() time.Time
}

// NewStockExpirationJob builds the job that zeroes packages past their
// expiration date and marks unsold productions expired.
func NewStockExpirationJob(params StockExpirationJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Sweeper == nil {
		return nil, fmt.Errorf("stock sweeper required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &stockExpirationJob{logg: params.Logger, sweeper: params.Sweeper, now: now}, nil
}

func (j *stockExpirationJob) Name() string { return "stock-expiration" }

func (j *stockExpirationJob) Run(ctx context.Context) error {
	swept, err := j.sweeper.SweepExpired(ctx, j.now().UTC())
	logCtx := j.logg.WithField(ctx, "count", swept)
	if err != nil {
		return fmt.Errorf("sweep expired stock: %w", err)
	}
	j.logg.Info(logCtx, "stock expiration sweep complete")
	return nil
}

package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/alanhoffer/hf-dashboard/internal/cron"
	"github.com/alanhoffer/hf-dashboard/internal/stock"
	"github.com/alanhoffer/hf-dashboard/pkg/config"
	"github.com/alanhoffer/hf-dashboard/pkg/db"
	"github.com/alanhoffer/hf-dashboard/pkg/instance"
	"github.com/alanhoffer/hf-dashboard/pkg/logger"
	"github.com/alanhoffer/hf-dashboard/pkg/metrics"
	"github.com/alanhoffer/hf-dashboard/pkg/migrate"
	"github.com/alanhoffer/hf-dashboard/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "cron-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "cron-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	stockService, err := stock.NewService(stock.ServiceParams{
		Repo:   stock.NewRepository(dbClient.DB()),
		Tx:     dbClient,
		Logger: logg,
	})
	if err != nil {
		logg.Error(ctx, "failed to create stock service", err)
		os.Exit(1)
	}
	expirationJob, err := cron.NewStockExpirationJob(cron.StockExpirationJobParams{
		Logger:  logg,
		Sweeper: stockService,
	})
	if err != nil {
		logg.Error(ctx, "failed to create stock expiration job", err)
		os.Exit(1)
	}

	instanceID := instance.GetID("cron-worker")
	lock, err := cron.NewRedisLock(cron.RedisLockParams{
		Store:    redisClient,
		Key:      redisClient.LockKey(lockName(cfg)),
		Instance: instanceID,
		TTL:      cfg.Cron.LockTTL,
	})
	if err != nil {
		logg.Error(ctx, "failed to create cron lock", err)
		os.Exit(1)
	}

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: cron.NewRegistry(expirationJob),
		Lock:     lock,
		Metrics:  metrics.NewCronJobMetrics(prometheus.DefaultRegisterer),
		Interval: cfg.Cron.Interval,
		Schedule: cfg.Cron.Schedule,
	})
	if err != nil {
		logg.Error(ctx, "failed to create cron service", err)
		os.Exit(1)
	}

	ctx = logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"instance": instanceID,
		"schedule": cfg.Cron.Schedule,
		"interval": cfg.Cron.Interval.String(),
	})
	logg.Info(ctx, "starting cron worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "cron worker shutting down gracefully")
}

func lockName(cfg *config.Config) string {
	env := cfg.App.Env
	if env == "" {
		env = "local"
	}
	return cfg.Cron.LockKey + ":" + env
}

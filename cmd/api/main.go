package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alanhoffer/hf-dashboard/api/routes"
	"github.com/alanhoffer/hf-dashboard/internal/auth"
	"github.com/alanhoffer/hf-dashboard/internal/dashboard"
	"github.com/alanhoffer/hf-dashboard/internal/orders"
	"github.com/alanhoffer/hf-dashboard/internal/productions"
	"github.com/alanhoffer/hf-dashboard/internal/reports"
	"github.com/alanhoffer/hf-dashboard/internal/stock"
	"github.com/alanhoffer/hf-dashboard/internal/users"
	"github.com/alanhoffer/hf-dashboard/pkg/auth/session"
	"github.com/alanhoffer/hf-dashboard/pkg/config"
	"github.com/alanhoffer/hf-dashboard/pkg/db"
	"github.com/alanhoffer/hf-dashboard/pkg/instance"
	"github.com/alanhoffer/hf-dashboard/pkg/logger"
	"github.com/alanhoffer/hf-dashboard/pkg/metrics"
	"github.com/alanhoffer/hf-dashboard/pkg/migrate"
	"github.com/alanhoffer/hf-dashboard/pkg/redis"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
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

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(ctx, "failed to create session manager", err)
		os.Exit(1)
	}

	services, err := buildServices(cfg, logg, dbClient, sessionManager)
	if err != nil {
		logg.Error(ctx, "failed to wire services", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	httpMetrics := metrics.NewHTTPMetrics(registry)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx = logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": instance.GetID("local"),
	})

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(cfg, logg, dbClient, redisClient, sessionManager, httpMetrics, registry, services),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logg.Info(ctx, "starting api server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logg.Info(ctx, "shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logg.Error(ctx, "graceful shutdown failed", err)
		return
	}
	logg.Info(ctx, "api server stopped")
}

func buildServices(cfg *config.Config, logg *logger.Logger, dbClient *db.Client, sessions *session.Manager) (routes.Services, error) {
	conn := dbClient.DB()
	usersRepo := users.NewRepository(conn)
	ordersRepo := orders.NewRepository(conn)
	stockRepo := stock.NewRepository(conn)

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       usersRepo,
		SessionManager: sessions,
		JWTConfig:      cfg.JWT,
		Password:       cfg.Password,
		Logger:         logg,
	})
	if err != nil {
		return routes.Services{}, err
	}
	usersService, err := users.NewService(usersRepo, cfg.Password)
	if err != nil {
		return routes.Services{}, err
	}
	ordersService, err := orders.NewService(ordersRepo, dbClient)
	if err != nil {
		return routes.Services{}, err
	}
	stockService, err := stock.NewService(stock.ServiceParams{
		Repo:   stockRepo,
		Tx:     dbClient,
		Logger: logg,
	})
	if err != nil {
		return routes.Services{}, err
	}
	productionsService, err := productions.NewService(productions.ServiceParams{
		Repo:      productions.NewRepository(conn),
		Orders:    ordersRepo,
		Stock:     stockRepo,
		Tx:        dbClient,
		ShelfLife: cfg.Stock.ShelfLife(),
		Logger:    logg,
	})
	if err != nil {
		return routes.Services{}, err
	}
	dashboardService, err := dashboard.NewService(dashboard.ServiceParams{
		Orders:       ordersService,
		Productions:  productionsService,
		Stock:        stockService,
		UpcomingDays: cfg.Stock.DashboardUpcomingDays,
		ExpiringDays: cfg.Stock.DashboardExpiringDays,
	})
	if err != nil {
		return routes.Services{}, err
	}
	reportsService, err := reports.NewService(ordersService, productionsService, nil)
	if err != nil {
		return routes.Services{}, err
	}

	return routes.Services{
		Auth:        authService,
		Users:       usersService,
		Orders:      ordersService,
		Productions: productionsService,
		Stock:       stockService,
		Dashboard:   dashboardService,
		Reports:     reportsService,
	}, nil
}

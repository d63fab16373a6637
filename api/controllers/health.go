package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/alanhoffer/hf-dashboard/api/responses"
	"github.com/alanhoffer/hf-dashboard/pkg/config"
	pkgerrors "github.com/alanhoffer/hf-dashboard/pkg/errors"
	"github.com/alanhoffer/hf-dashboard/pkg/logger"
)

const readinessTimeout = 2 * time.Second

// Pinger is any dependency the readiness probe checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

const envHeader = "X-HF-Env"

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings each named dependency and reports 503 when any fails.
func HealthReady(cfg *config.Config, logg *logger.Logger, deps map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		checks := make(map[string]string, len(deps))
		var failed error
		for name, dep := range deps {
			if dep == nil {
				continue
			}
			if err := dep.Ping(ctx); err != nil {
				checks[name] = "down"
				if failed == nil {
					failed = pkgerrors.Wrap(pkgerrors.CodeDependency, err, name+" unavailable")
				}
				continue
			}
			checks[name] = "up"
		}
		if failed != nil {
			responses.WriteError(r.Context(), logg, w, failed)
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}

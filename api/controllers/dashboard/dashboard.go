package dashboard

import (
	"net/http"

	"github.com/alanhoffer/hf-dashboard/api/responses"
	internaldashboard "github.com/alanhoffer/hf-dashboard/internal/dashboard"
	pkgerrors "github.com/alanhoffer/hf-dashboard/pkg/errors"
	"github.com/alanhoffer/hf-dashboard/pkg/logger"
)

func unavailable() error {
	return pkgerrors.New(pkgerrors.CodeInternal, "dashboard service unavailable")
}

func Stats(svc internaldashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable())
			return
		}
		stats, err := svc.Stats(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}

func Upcoming(svc internaldashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable())
			return
		}
		rows, err := svc.Upcoming(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

func Expiring(svc internaldashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable())
			return
		}
		rows, err := svc.Expiring(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

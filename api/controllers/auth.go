package controllers

import (
	"net/http"

	"github.com/alanhoffer/hf-dashboard/api/middleware"
	"github.com/alanhoffer/hf-dashboard/api/responses"
	"github.com/alanhoffer/hf-dashboard/api/validators"
	"github.com/alanhoffer/hf-dashboard/internal/auth"
	pkgerrors "github.com/alanhoffer/hf-dashboard/pkg/errors"
	"github.com/alanhoffer/hf-dashboard/pkg/logger"
	"github.com/google/uuid"
)

// AuthLogin wires the login endpoint into the HTTP layer.
func AuthLogin(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var body auth.LoginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if logg != nil {
			ctx := logg.WithUserID(r.Context(), result.User.ID.String())
			logg.Info(ctx, "auth.login")
		}
		responses.WriteSuccess(w, result)
	}
}

// AuthRefresh rotates the refresh token bound to the presented (possibly expired) access token.
func AuthRefresh(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var body auth.RefreshRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		token, err := middleware.BearerToken(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		pair, err := svc.Refresh(r.Context(), token, body.RefreshToken)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, pair)
	}
}

// AuthLogout revokes the refresh mapping tied to the presented access token.
func AuthLogout(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		token, err := middleware.BearerToken(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Logout(r.Context(), token); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "logged_out"})
	}
}

// AuthMe returns the authenticated user.
func AuthMe(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		userID := middleware.UserUUIDFromContext(r.Context())
		if userID == uuid.Nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing user context"))
			return
		}

		user, err := svc.Me(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, user)
	}
}

package controllers

import (
	"context"
	"net/http"

	"github.com/alanhoffer/hf-dashboard/api/middleware"
	"github.com/alanhoffer/hf-dashboard/api/responses"
	"github.com/alanhoffer/hf-dashboard/api/validators"
	"github.com/alanhoffer/hf-dashboard/internal/users"
	"github.com/alanhoffer/hf-dashboard/pkg/enums"
	pkgerrors "github.com/alanhoffer/hf-dashboard/pkg/errors"
	"github.com/alanhoffer/hf-dashboard/pkg/logger"
	"github.com/google/uuid"
)

// UsersService is the account surface exposed to admins.
type UsersService interface {
	Create(ctx context.Context, input users.CreateUserInput) (*users.UserDTO, error)
	List(ctx context.Context) ([]users.UserDTO, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type createUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"notblank,max=120"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	Role     string `json:"role" validate:"omitempty,oneof=admin operator"`
}

// AdminListUsers lists every console account.
func AdminListUsers(svc UsersService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "users service unavailable"))
			return
		}
		rows, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// AdminCreateUser provisions a console account.
func AdminCreateUser(svc UsersService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "users service unavailable"))
			return
		}

		var body createUserRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.Create(r.Context(), users.CreateUserInput{
			Email:    body.Email,
			Name:     body.Name,
			Password: body.Password,
			Role:     enums.UserRole(body.Role),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, user)
	}
}

// AdminDeactivateUser blocks an account from logging in. Admins cannot lock
// themselves out.
func AdminDeactivateUser(svc UsersService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "users service unavailable"))
			return
		}
		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if id == middleware.UserUUIDFromContext(r.Context()) {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeStateConflict, "cannot deactivate your own account"))
			return
		}
		if err := svc.Deactivate(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"id": id, "is_active": false})
	}
}

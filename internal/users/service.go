package users

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/alanhoffer/hf-dashboard/pkg/config"
	"github.com/alanhoffer/hf-dashboard/pkg/db"
	"github.com/alanhoffer/hf-dashboard/pkg/db/models"
	"github.com/alanhoffer/hf-dashboard/pkg/enums"
	pkgerrors "github.com/alanhoffer/hf-dashboard/pkg/errors"
	"github.com/alanhoffer/hf-dashboard/pkg/security"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type repository interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}

// Service provisions and manages console accounts.
type Service struct {
	repo     repository
	password config.PasswordConfig
}

// NewService wires a users service.
func NewService(repo repository, password config.PasswordConfig) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	return &Service{repo: repo, password: password}, nil
}

// Create validates and stores a new account with an argon2id hash.
func (s *Service) Create(ctx context.Context, input CreateUserInput) (*UserDTO, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	name := strings.TrimSpace(input.Name)
	role := input.Role
	if role == "" {
		role = enums.UserRoleOperator
	}

	details := map[string]string{}
	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		details["email"] = "must be a valid email"
	}
	if name == "" {
		details["name"] = "is required"
	}
	if !role.IsValid() {
		details["role"] = "must be admin or operator"
	}
	if err := security.ValidatePassword(input.Password); err != nil {
		details["password"] = err.Error()
	}
	if len(details) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup user")
	}

	hash, err := security.HashPassword(input.Password, s.password)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user := &models.User{
		ID:           uuid.New(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
	}
	return FromModel(user), nil
}

// Get returns a single account.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*UserDTO, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return FromModel(user), nil
}

// List returns every account.
func (s *Service) List(ctx context.Context) ([]UserDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list users")
	}
	out := make([]UserDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, nil
}

// Deactivate blocks future logins for the account.
func (s *Service) Deactivate(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.SetActive(ctx, id, false); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deactivate user")
	}
	return nil
}

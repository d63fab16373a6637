package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alanhoffer/hf-dashboard/internal/users"
	pkgAuth "github.com/alanhoffer/hf-dashboard/pkg/auth"
	"github.com/alanhoffer/hf-dashboard/pkg/auth/session"
	"github.com/alanhoffer/hf-dashboard/pkg/config"
	"github.com/alanhoffer/hf-dashboard/pkg/db/models"
	pkgerrors "github.com/alanhoffer/hf-dashboard/pkg/errors"
	"github.com/alanhoffer/hf-dashboard/pkg/logger"
	"github.com/alanhoffer/hf-dashboard/pkg/security"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const invalidCredentialsMessage = "invalid credentials"

// Service defines the behavior needed by the auth controller.
type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Refresh(ctx context.Context, accessToken, refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context, accessToken string) error
	Me(ctx context.Context, userID uuid.UUID) (*users.UserDTO, error)
}

type service struct {
	users    userRepository
	session  sessionManager
	jwtCfg   config.JWTConfig
	password config.PasswordConfig
	logg     *logger.Logger
	now      func() time.Time
}

type userRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error
}

type sessionManager interface {
	Generate(ctx context.Context, userID uuid.UUID, accessID string) (string, error)
	Rotate(ctx context.Context, oldAccessID, provided string) (*session.Rotation, error)
	Revoke(ctx context.Context, accessID string) error
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	UserRepo       userRepository
	SessionManager sessionManager
	JWTConfig      config.JWTConfig
	// Password holds the argon2id parameters stale hashes are upgraded to on login.
	Password config.PasswordConfig
	Logger   *logger.Logger
	Now      func() time.Time
}

// NewService constructs a login service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.SessionManager == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		users:    params.UserRepo,
		session:  params.SessionManager,
		jwtCfg:   params.JWTConfig,
		password: params.Password,
		logg:     params.Logger,
		now:      now,
	}, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := s.authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update last login")
	}
	user.LastLoginAt = &now
	s.upgradeHash(ctx, user, req.Password)

	accessID := session.NewAccessID()
	accessToken, err := s.mint(now, user, accessID)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.session.Generate(ctx, user.ID, accessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store refresh token")
	}

	return &LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         users.FromModel(user),
	}, nil
}

// Refresh accepts an access token that may already be expired, rotates the
// refresh session bound to its jti and mints a replacement.
func (s *service) Refresh(ctx context.Context, accessToken, refreshToken string) (*TokenPair, error) {
	claims, err := pkgAuth.ParseAccessTokenAllowExpired(s.jwtCfg, accessToken)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token")
	}
	if claims.ID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id")
	}

	rotation, err := s.session.Rotate(ctx, claims.ID, refreshToken)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rotate session")
	}
	if rotation.UserID != claims.UserID {
		_ = s.session.Revoke(ctx, rotation.AccessID)
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token")
	}

	// role or activation may have changed since the last token was minted
	user, err := s.users.FindByID(ctx, rotation.UserID)
	if err != nil || !user.IsActive {
		_ = s.session.Revoke(ctx, rotation.AccessID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
		}
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	minted, err := s.mint(s.now().UTC(), user, rotation.AccessID)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: minted, RefreshToken: rotation.RefreshToken}, nil
}

func (s *service) Logout(ctx context.Context, accessToken string) error {
	claims, err := pkgAuth.ParseAccessTokenAllowExpired(s.jwtCfg, accessToken)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token")
	}
	if claims.ID == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id")
	}
	if err := s.session.Revoke(ctx, claims.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session")
	}
	return nil
}

func (s *service) Me(ctx context.Context, userID uuid.UUID) (*users.UserDTO, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user no longer exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	if !user.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user is inactive")
	}
	return users.FromModel(user), nil
}

func (s *service) authenticate(ctx context.Context, email, password string) (*models.User, error) {
	input := strings.TrimSpace(email)
	if input == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	user, err := s.users.FindByEmail(ctx, strings.ToLower(input))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	valid, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid || !user.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	return user, nil
}

// upgradeHash re-hashes the password when the stored hash predates the
// current argon2id settings. Failures are logged and leave the old hash in
// place for the next login to retry.
func (s *service) upgradeHash(ctx context.Context, user *models.User, password string) {
	if !security.NeedsRehash(user.PasswordHash, s.password) {
		return
	}
	hash, err := security.HashPassword(password, s.password)
	if err == nil {
		err = s.users.UpdatePasswordHash(ctx, user.ID, hash)
	}
	if err != nil {
		if s.logg != nil {
			logCtx := s.logg.WithFields(ctx, map[string]any{
				"user_id": user.ID.String(),
				"error":   err.Error(),
			})
			s.logg.Warn(logCtx, "auth.password_rehash_failed")
		}
		return
	}
	user.PasswordHash = hash
}

func (s *service) mint(now time.Time, user *models.User, accessID string) (string, error) {
	token, err := pkgAuth.MintAccessToken(s.jwtCfg, now, pkgAuth.AccessTokenPayload{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		JTI:    accessID,
	})
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	return token, nil
}

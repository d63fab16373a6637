package auth

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	pkgAuth "github.com/alanhoffer/hf-dashboard/pkg/auth"
	"github.com/alanhoffer/hf-dashboard/pkg/auth/session"
	"github.com/alanhoffer/hf-dashboard/pkg/config"
	"github.com/alanhoffer/hf-dashboard/pkg/db/models"
	"github.com/alanhoffer/hf-dashboard/pkg/enums"
	pkgerrors "github.com/alanhoffer/hf-dashboard/pkg/errors"
	"github.com/alanhoffer/hf-dashboard/pkg/logger"
	"github.com/alanhoffer/hf-dashboard/pkg/security"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var testJWT = config.JWTConfig{
	Secret:            "secret",
	Issuer:            "hf-dashboard",
	ExpirationMinutes: 30,
}

func TestServiceLoginMintsRoleClaim(t *testing.T) {
	password := "operator-secret"
	user := testUser(t, password, enums.UserRoleOperator)

	svc, sessions := buildTestService(t, user)
	resp, err := svc.Login(context.Background(), LoginRequest{Email: "  OPERADOR@criadero.test ", Password: password})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims, err := pkgAuth.ParseAccessToken(testJWT, resp.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.Role != enums.UserRoleOperator {
		t.Fatalf("expected operator role claim, got %s", claims.Role)
	}
	if claims.UserID != user.ID {
		t.Fatalf("expected user id claim %s, got %s", user.ID, claims.UserID)
	}
	if resp.RefreshToken != sessions.tokens[claims.ID] {
		t.Fatalf("expected refresh token stored under jti %s", claims.ID)
	}
	if resp.User == nil || resp.User.LastLoginAt == nil {
		t.Fatalf("expected user with last login, got %+v", resp.User)
	}
}

func TestServiceLoginRejectsBadCredentials(t *testing.T) {
	password := "operator-secret"
	inactive := testUser(t, password, enums.UserRoleOperator)
	inactive.IsActive = false

	cases := map[string]struct {
		user     *models.User
		email    string
		password string
	}{
		"unknown user":   {user: nil, email: "nobody@criadero.test", password: password},
		"wrong password": {user: testUser(t, password, enums.UserRoleAdmin), email: "operador@criadero.test", password: "nope"},
		"inactive":       {user: inactive, email: "operador@criadero.test", password: password},
		"blank email":    {user: testUser(t, password, enums.UserRoleAdmin), email: "  ", password: password},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			svc, _ := buildTestService(t, tc.user)
			_, err := svc.Login(context.Background(), LoginRequest{Email: tc.email, Password: tc.password})
			typed := pkgerrors.As(err)
			if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
				t.Fatalf("expected unauthorized error, got %v", err)
			}
			if typed.Message() != invalidCredentialsMessage {
				t.Fatalf("expected uniform message, got %q", typed.Message())
			}
		})
	}
}

func TestServiceRefreshRotatesSession(t *testing.T) {
	password := "admin-secret"
	user := testUser(t, password, enums.UserRoleAdmin)
	svc, sessions := buildTestService(t, user)
	ctx := context.Background()

	login, err := svc.Login(ctx, LoginRequest{Email: user.Email, Password: password})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	old, _ := pkgAuth.ParseAccessToken(testJWT, login.AccessToken)

	pair, err := svc.Refresh(ctx, login.AccessToken, login.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	claims, err := pkgAuth.ParseAccessToken(testJWT, pair.AccessToken)
	if err != nil {
		t.Fatalf("parse refreshed token: %v", err)
	}
	if claims.ID == old.ID {
		t.Fatal("expected a new jti after refresh")
	}
	if _, ok := sessions.tokens[old.ID]; ok {
		t.Fatal("expected old session to be rotated out")
	}
	if claims.Role != enums.UserRoleAdmin {
		t.Fatalf("expected admin role, got %s", claims.Role)
	}

	if _, err := svc.Refresh(ctx, login.AccessToken, login.RefreshToken); !pkgerrors.HasCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected replayed refresh to be unauthorized, got %v", err)
	}
}

func TestServiceRefreshAcceptsExpiredAccessToken(t *testing.T) {
	password := "admin-secret"
	user := testUser(t, password, enums.UserRoleAdmin)
	svc, sessions := buildTestService(t, user)

	expired, err := pkgAuth.MintAccessToken(testJWT, time.Now().Add(-2*time.Hour), pkgAuth.AccessTokenPayload{
		UserID: user.ID,
		Role:   user.Role,
		JTI:    "old-jti",
	})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	sessions.tokens["old-jti"] = "refresh-old"
	sessions.owners["old-jti"] = user.ID

	if _, err := svc.Refresh(context.Background(), expired, "refresh-old"); err != nil {
		t.Fatalf("refresh with expired token: %v", err)
	}
}

func TestServiceRefreshRejectsDeactivatedUser(t *testing.T) {
	password := "admin-secret"
	user := testUser(t, password, enums.UserRoleAdmin)
	svc, _ := buildTestService(t, user)
	ctx := context.Background()

	login, err := svc.Login(ctx, LoginRequest{Email: user.Email, Password: password})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	user.IsActive = false

	if _, err := svc.Refresh(ctx, login.AccessToken, login.RefreshToken); !pkgerrors.HasCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestServiceLogoutRevokes(t *testing.T) {
	password := "admin-secret"
	user := testUser(t, password, enums.UserRoleAdmin)
	svc, sessions := buildTestService(t, user)
	ctx := context.Background()

	login, err := svc.Login(ctx, LoginRequest{Email: user.Email, Password: password})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := svc.Logout(ctx, login.AccessToken); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if len(sessions.tokens) != 0 {
		t.Fatalf("expected no sessions after logout, got %d", len(sessions.tokens))
	}
	if err := svc.Logout(ctx, "garbage"); !pkgerrors.HasCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized for malformed token, got %v", err)
	}
}

func TestServiceMe(t *testing.T) {
	user := testUser(t, "whatever-pass", enums.UserRoleOperator)
	svc, _ := buildTestService(t, user)

	dto, err := svc.Me(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("me: %v", err)
	}
	if dto.Email != user.Email || dto.Name != user.Name {
		t.Fatalf("unexpected user %+v", dto)
	}
	if _, err := svc.Me(context.Background(), uuid.New()); !pkgerrors.HasCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized for unknown user, got %v", err)
	}
}

func TestServiceLoginUpgradesStaleHash(t *testing.T) {
	password := "operator-secret"
	user := testUser(t, password, enums.UserRoleOperator)
	repo := &stubUserRepo{user: user}
	stale := user.PasswordHash

	svc, err := NewService(ServiceParams{
		UserRepo:       repo,
		SessionManager: newStubSessionManager(),
		JWTConfig:      testJWT,
		Password:       config.PasswordConfig{ArgonMemoryKB: 8192, ArgonTime: 2, ArgonParallelism: 1, ArgonSaltLen: 16, ArgonKeyLen: 32},
	})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	if _, err := svc.Login(context.Background(), LoginRequest{Email: user.Email, Password: password}); err != nil {
		t.Fatalf("login: %v", err)
	}
	if repo.rehashed != 1 || user.PasswordHash == stale {
		t.Fatalf("expected one hash upgrade, got %d", repo.rehashed)
	}
	if ok, _ := security.VerifyPassword(password, user.PasswordHash); !ok {
		t.Fatal("upgraded hash must still verify")
	}

	if _, err := svc.Login(context.Background(), LoginRequest{Email: user.Email, Password: password}); err != nil {
		t.Fatalf("second login: %v", err)
	}
	if repo.rehashed != 1 {
		t.Fatalf("hash upgraded again, count %d", repo.rehashed)
	}
}

func TestServiceLoginLogsFailedHashUpgrade(t *testing.T) {
	password := "operator-secret"
	user := testUser(t, password, enums.UserRoleOperator)
	stale := user.PasswordHash
	repo := &stubUserRepo{user: user, rehashErr: errors.New("db unavailable")}
	buf := &bytes.Buffer{}

	svc, err := NewService(ServiceParams{
		UserRepo:       repo,
		SessionManager: newStubSessionManager(),
		JWTConfig:      testJWT,
		Password:       config.PasswordConfig{ArgonMemoryKB: 8192, ArgonTime: 2, ArgonParallelism: 1, ArgonSaltLen: 16, ArgonKeyLen: 32},
		Logger:         logger.New(logger.Options{ServiceName: "auth-test", Format: logger.FormatJSON, Output: buf}),
	})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	if _, err := svc.Login(context.Background(), LoginRequest{Email: user.Email, Password: password}); err != nil {
		t.Fatalf("login must proceed when the upgrade fails: %v", err)
	}
	if user.PasswordHash != stale {
		t.Fatal("stored hash must stay unchanged after a failed upgrade")
	}
	out := buf.String()
	if !strings.Contains(out, "auth.password_rehash_failed") || !strings.Contains(out, "db unavailable") {
		t.Fatalf("expected a rehash warning, got %q", out)
	}
	if !strings.Contains(out, user.ID.String()) {
		t.Fatalf("warning should carry the user id, got %q", out)
	}
}

func buildTestService(t *testing.T, user *models.User) (Service, *stubSessionManager) {
	t.Helper()
	sessions := newStubSessionManager()
	svc, err := NewService(ServiceParams{
		UserRepo:       &stubUserRepo{user: user},
		SessionManager: sessions,
		JWTConfig:      testJWT,
	})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc, sessions
}

func testUser(t *testing.T, password string, role enums.UserRole) *models.User {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{})
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return &models.User{
		ID:           uuid.New(),
		Email:        "operador@criadero.test",
		Name:         "Operador",
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}
}

type stubUserRepo struct {
	user      *models.User
	rehashed  int
	rehashErr error
}

func (s *stubUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if s.user == nil || s.user.Email != email {
		return nil, gorm.ErrRecordNotFound
	}
	return s.user, nil
}

func (s *stubUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if s.user == nil || s.user.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.user, nil
}

func (s *stubUserRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	if s.user != nil && s.user.ID == id {
		s.user.LastLoginAt = &at
	}
	return nil
}

func (s *stubUserRepo) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	if s.rehashErr != nil {
		return s.rehashErr
	}
	if s.user != nil && s.user.ID == id {
		s.rehashed++
	}
	return nil
}

type stubSessionManager struct {
	tokens map[string]string
	owners map[string]uuid.UUID
	seq    int
}

func newStubSessionManager() *stubSessionManager {
	return &stubSessionManager{tokens: map[string]string{}, owners: map[string]uuid.UUID{}}
}

func (s *stubSessionManager) Generate(ctx context.Context, userID uuid.UUID, accessID string) (string, error) {
	s.seq++
	token := "refresh-" + accessID
	s.tokens[accessID] = token
	s.owners[accessID] = userID
	return token, nil
}

func (s *stubSessionManager) Rotate(ctx context.Context, oldAccessID, provided string) (*session.Rotation, error) {
	current, ok := s.tokens[oldAccessID]
	if !ok || current != provided {
		return nil, session.ErrInvalidRefreshToken
	}
	owner := s.owners[oldAccessID]
	delete(s.tokens, oldAccessID)
	delete(s.owners, oldAccessID)

	accessID := session.NewAccessID()
	token, _ := s.Generate(ctx, owner, accessID)
	return &session.Rotation{UserID: owner, AccessID: accessID, RefreshToken: token}, nil
}

func (s *stubSessionManager) Revoke(ctx context.Context, accessID string) error {
	delete(s.tokens, accessID)
	delete(s.owners, accessID)
	return nil
}

package session

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alanhoffer/hf-dashboard/pkg/config"
	redisclient "github.com/alanhoffer/hf-dashboard/pkg/redis"
	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
)

const refreshTokenBytes = 32

var ErrInvalidRefreshToken = errors.New("invalid refresh token")

type sessionStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

type sessionKeyer interface {
	AccessSessionKey(accessID string) string
}

// record is what Redis holds under the access id.
type record struct {
	UserID uuid.UUID `json:"user_id"`
	Token  string    `json:"token"`
}

// Rotation is the outcome of a successful refresh.
type Rotation struct {
	UserID       uuid.UUID
	AccessID     string
	RefreshToken string
}

// Manager handles refresh token creation, storage, and rotation.
type Manager struct {
	store sessionStore
	keyer sessionKeyer
	ttl   time.Duration
}

// AccessSessionChecker exposes the read-only surface needed by middleware.
type AccessSessionChecker interface {
	HasSession(ctx context.Context, accessID string) (bool, error)
}

// NewManager constructs a session manager backed by Redis.
func NewManager(client *redisclient.Client, cfg config.JWTConfig) (*Manager, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	ttl := cfg.RefreshTokenTTL()
	if ttl <= 0 {
		return nil, fmt.Errorf("refresh token ttl must be positive")
	}
	accessTTL := time.Duration(cfg.ExpirationMinutes) * time.Minute
	if ttl <= accessTTL {
		return nil, fmt.Errorf("refresh token ttl (%s) must exceed access token ttl (%s)", ttl, accessTTL)
	}

	return &Manager{
		store: client,
		keyer: client,
		ttl:   ttl,
	}, nil
}

// Generate creates a refresh token for the user's access id and stores it.
func (m *Manager) Generate(ctx context.Context, userID uuid.UUID, accessID string) (string, error) {
	if strings.TrimSpace(accessID) == "" {
		return "", fmt.Errorf("access id is required")
	}
	if userID == uuid.Nil {
		return "", fmt.Errorf("user id is required")
	}
	token, err := generateRefreshToken()
	if err != nil {
		return "", err
	}
	if err := m.put(ctx, accessID, record{UserID: userID, Token: token}); err != nil {
		return "", err
	}
	return token, nil
}

// Rotate checks the refresh token stored for oldAccessID, replaces the
// session with a fresh one and returns it.
func (m *Manager) Rotate(ctx context.Context, oldAccessID, provided string) (*Rotation, error) {
	if strings.TrimSpace(oldAccessID) == "" || strings.TrimSpace(provided) == "" {
		return nil, ErrInvalidRefreshToken
	}

	key := m.keyer.AccessSessionKey(oldAccessID)
	current, err := m.get(ctx, key)
	if err != nil {
		return nil, err
	}
	if subtle.ConstantTimeCompare([]byte(current.Token), []byte(provided)) != 1 {
		return nil, ErrInvalidRefreshToken
	}

	newAccessID := NewAccessID()
	newToken, err := generateRefreshToken()
	if err != nil {
		return nil, err
	}
	if err := m.put(ctx, newAccessID, record{UserID: current.UserID, Token: newToken}); err != nil {
		return nil, err
	}
	if err := m.store.Del(ctx, key); err != nil {
		return nil, err
	}

	return &Rotation{UserID: current.UserID, AccessID: newAccessID, RefreshToken: newToken}, nil
}

// Revoke deletes the refresh mapping tied to the access identifier.
func (m *Manager) Revoke(ctx context.Context, accessID string) error {
	if strings.TrimSpace(accessID) == "" {
		return fmt.Errorf("access id is required")
	}
	return m.store.Del(ctx, m.keyer.AccessSessionKey(accessID))
}

// HasSession reports whether the provided access ID still has an active refresh session.
func (m *Manager) HasSession(ctx context.Context, accessID string) (bool, error) {
	if strings.TrimSpace(accessID) == "" {
		return false, fmt.Errorf("access id is required")
	}
	if _, err := m.store.Get(ctx, m.keyer.AccessSessionKey(accessID)); err != nil {
		if errors.Is(err, redislib.Nil) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// NewAccessID produces the identifier used as the JWT jti and Redis key.
func NewAccessID() string {
	return uuid.NewString()
}

func (m *Manager) put(ctx context.Context, accessID string, rec record) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	return m.store.Set(ctx, m.keyer.AccessSessionKey(accessID), string(raw), m.ttl)
}

func (m *Manager) get(ctx context.Context, key string) (record, error) {
	raw, err := m.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return record{}, ErrInvalidRefreshToken
		}
		return record{}, err
	}
	var rec record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil || rec.UserID == uuid.Nil {
		return record{}, ErrInvalidRefreshToken
	}
	return rec, nil
}

func generateRefreshToken() (string, error) {
	bytes := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("generating refresh token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}

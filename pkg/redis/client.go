package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alanhoffer/hf-dashboard/pkg/config"
	"github.com/alanhoffer/hf-dashboard/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// Every key the console writes lives under "hf:<kind>:...".
const (
	keyNamespace    = "hf"
	rateLimitPrefix = "rate_limit"
	lockPrefix      = "lock"
	sessionPrefix   = "session"
)

var errNotInitialized = errors.New("redis client not initialized")

type cmdable interface {
	Ping(context.Context) *redis.StatusCmd
	Set(context.Context, string, any, time.Duration) *redis.StatusCmd
	Get(context.Context, string) *redis.StringCmd
	SetNX(context.Context, string, any, time.Duration) *redis.BoolCmd
	Incr(context.Context, string) *redis.IntCmd
	Expire(context.Context, string, time.Duration) *redis.BoolCmd
	Del(context.Context, ...string) *redis.IntCmd
}

// Client backs refresh sessions, the login rate limiter and the cron lock.
type Client struct {
	store cmdable
	raw   *redis.Client
}

// New connects using cfg.URL when set, else cfg.Address, and pings once.
func New(ctx context.Context, cfg config.RedisConfig, logg *logger.Logger) (*Client, error) {
	opts, err := buildOptions(cfg)
	if err != nil {
		return nil, err
	}
	raw := redis.NewClient(opts)
	if err := raw.Ping(ctx).Err(); err != nil {
		_ = raw.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", opts.Addr, err)
	}
	if logg != nil {
		logg.Info(logg.WithField(ctx, "redis_db", opts.DB), "redis connection established")
	}
	return &Client{store: raw, raw: raw}, nil
}

func buildOptions(cfg config.RedisConfig) (*redis.Options, error) {
	var opts *redis.Options
	switch {
	case cfg.URL != "":
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("parsing redis url: %w", err)
		}
		opts = parsed
	case cfg.Address != "":
		opts = &redis.Options{Addr: cfg.Address, Password: cfg.Password}
	default:
		return nil, errors.New("redis url or address is required")
	}

	// Explicit settings fill whatever the URL left at zero.
	if opts.DB == 0 {
		opts.DB = cfg.DB
	}
	setIfZero(&opts.PoolSize, cfg.PoolSize)
	setIfZero(&opts.MinIdleConns, cfg.MinIdleConns)
	setIfZero(&opts.DialTimeout, cfg.DialTimeout)
	setIfZero(&opts.ReadTimeout, cfg.ReadTimeout)
	setIfZero(&opts.WriteTimeout, cfg.WriteTimeout)
	return opts, nil
}

func setIfZero[T comparable](dst *T, value T) {
	var zero T
	if *dst == zero {
		*dst = value
	}
}

func (c *Client) cmd() (cmdable, error) {
	if c == nil || c.store == nil {
		return nil, errNotInitialized
	}
	return c.store, nil
}

func (c *Client) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	store, err := c.cmd()
	if err != nil {
		return err
	}
	return store.Set(ctx, key, value, ttl).Err()
}

// Get returns redis.Nil when key is absent.
func (c *Client) Get(ctx context.Context, key string) (string, error) {
	store, err := c.cmd()
	if err != nil {
		return "", err
	}
	return store.Get(ctx, key).Result()
}

func (c *Client) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	store, err := c.cmd()
	if err != nil {
		return false, err
	}
	return store.SetNX(ctx, key, value, ttl).Result()
}

func (c *Client) Del(ctx context.Context, keys ...string) error {
	store, err := c.cmd()
	if err != nil {
		return err
	}
	return store.Del(ctx, keys...).Err()
}

// FixedWindowAllow counts one hit against scope. The window starts at the
// first hit, when the counter gets its TTL.
func (c *Client) FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error) {
	store, err := c.cmd()
	if err != nil {
		return false, 0, err
	}
	key := c.RateLimitKey(scope)
	count, err := store.Incr(ctx, key).Result()
	if err != nil {
		return false, 0, err
	}
	if count == 1 && window > 0 {
		if err := store.Expire(ctx, key, window).Err(); err != nil {
			return false, count, err
		}
	}
	return count <= limit, count, nil
}

func (c *Client) RateLimitKey(scope string) string {
	return buildKey(rateLimitPrefix, scope)
}

func (c *Client) LockKey(name string) string {
	return buildKey(lockPrefix, name)
}

func (c *Client) AccessSessionKey(accessID string) string {
	return buildKey(sessionPrefix, "access", accessID)
}

// Ping backs the readiness probe.
func (c *Client) Ping(ctx context.Context) error {
	store, err := c.cmd()
	if err != nil {
		return err
	}
	return store.Ping(ctx).Err()
}

func (c *Client) Close() error {
	if c == nil || c.raw == nil {
		return nil
	}
	return c.raw.Close()
}

func buildKey(parts ...string) string {
	key := keyNamespace
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			key += ":" + part
		}
	}
	return key
}

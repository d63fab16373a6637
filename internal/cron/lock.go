package cron

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const defaultLockTTL = 55 * time.Minute

// Lock makes sure only one worker runs a cycle at a time.
type Lock interface {
	Acquire(ctx context.Context) (bool, error)
	Release(ctx context.Context) error
}

// holderLock is implemented by locks that can name the current holder.
type holderLock interface {
	Holder(ctx context.Context) (string, error)
}

type redisStore interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

// RedisLockParams configure a RedisLock.
type RedisLockParams struct {
	Store redisStore
	Key   string
	// Instance identifies the worker in the stored lock value.
	Instance string
	TTL      time.Duration
}

// RedisLock is a SETNX lock whose value is "<instance>/<run id>". The TTL
// bounds how long a crashed worker can block the others.
type RedisLock struct {
	store    redisStore
	key      string
	instance string
	ttl      time.Duration
	token    string
}

// NewRedisLock validates params and builds the lock.
func NewRedisLock(params RedisLockParams) (*RedisLock, error) {
	if params.Store == nil {
		return nil, errors.New("redis store required for lock")
	}
	if params.Key == "" {
		return nil, errors.New("lock key is required")
	}
	ttl := params.TTL
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	instance := params.Instance
	if instance == "" {
		instance = "cron-worker"
	}
	return &RedisLock{store: params.Store, key: params.Key, instance: instance, ttl: ttl}, nil
}

func (l *RedisLock) Acquire(ctx context.Context) (bool, error) {
	token := l.instance + "/" + uuid.NewString()
	ok, err := l.store.SetNX(ctx, l.key, token, l.ttl)
	if err != nil {
		return false, fmt.Errorf("acquire %s: %w", l.key, err)
	}
	if ok {
		l.token = token
	}
	return ok, nil
}

// Release deletes the key only while it still holds this lock's token.
func (l *RedisLock) Release(ctx context.Context) error {
	if l.token == "" {
		return nil
	}
	token := l.token
	l.token = ""

	current, err := l.Holder(ctx)
	if err != nil {
		return err
	}
	if current != token {
		return nil
	}
	if err := l.store.Del(ctx, l.key); err != nil {
		return fmt.Errorf("release %s: %w", l.key, err)
	}
	return nil
}

// Holder returns the stored lock value, or "" when the lock is free.
func (l *RedisLock) Holder(ctx context.Context) (string, error) {
	value, err := l.store.Get(ctx, l.key)
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", l.key, err)
	}
	return value, nil
}

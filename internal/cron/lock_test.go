package cron

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type memoryStore struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: map[string]string{}}
}

func (m *memoryStore) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[key]; ok {
		return false, nil
	}
	m.data[key] = value.(string)
	return true, nil
}

func (m *memoryStore) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return "", redis.Nil
	}
	return v, nil
}

func (m *memoryStore) Del(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

func newLock(t *testing.T, store redisStore, instance string) *RedisLock {
	t.Helper()
	lock, err := NewRedisLock(RedisLockParams{Store: store, Key: "hf:lock:cron-worker:test", Instance: instance, TTL: time.Minute})
	if err != nil {
		t.Fatalf("new lock: %v", err)
	}
	return lock
}

func TestRedisLockExclusive(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	first := newLock(t, store, "worker-1")
	second := newLock(t, store, "worker-2")

	if ok, err := first.Acquire(ctx); err != nil || !ok {
		t.Fatalf("expected first acquire to succeed, ok=%v err=%v", ok, err)
	}
	if ok, err := second.Acquire(ctx); err != nil || ok {
		t.Fatalf("expected second acquire to fail, ok=%v err=%v", ok, err)
	}

	holder, err := second.Holder(ctx)
	if err != nil {
		t.Fatalf("holder: %v", err)
	}
	if !strings.HasPrefix(holder, "worker-1/") {
		t.Fatalf("unexpected holder %q", holder)
	}

	// a worker that never held the lock must not release it
	if err := second.Release(ctx); err != nil {
		t.Fatalf("release by non-owner: %v", err)
	}
	if _, err := store.Get(ctx, "hf:lock:cron-worker:test"); err != nil {
		t.Fatalf("lock released by non-owner: %v", err)
	}

	if err := first.Release(ctx); err != nil {
		t.Fatalf("release: %v", err)
	}
	if holder, _ := first.Holder(ctx); holder != "" {
		t.Fatalf("expected free lock, held by %q", holder)
	}
	if ok, _ := second.Acquire(ctx); !ok {
		t.Fatal("expected lock to be free after release")
	}
}

func TestReleaseAfterExpiryKeepsNewHolder(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	stale := newLock(t, store, "worker-1")
	if ok, _ := stale.Acquire(ctx); !ok {
		t.Fatal("expected acquire")
	}

	// the TTL lapsed and another worker took over
	_ = store.Del(ctx, "hf:lock:cron-worker:test")
	fresh := newLock(t, store, "worker-2")
	if ok, _ := fresh.Acquire(ctx); !ok {
		t.Fatal("expected fresh acquire")
	}

	if err := stale.Release(ctx); err != nil {
		t.Fatalf("stale release: %v", err)
	}
	holder, _ := fresh.Holder(ctx)
	if !strings.HasPrefix(holder, "worker-2/") {
		t.Fatalf("stale release removed the new holder, now %q", holder)
	}
}

func TestNewRedisLockValidates(t *testing.T) {
	if _, err := NewRedisLock(RedisLockParams{Key: "k"}); err == nil {
		t.Fatal("expected error for nil store")
	}
	if _, err := NewRedisLock(RedisLockParams{Store: newMemoryStore()}); err == nil {
		t.Fatal("expected error for empty key")
	}
	lock, err := NewRedisLock(RedisLockParams{Store: newMemoryStore(), Key: "k"})
	if err != nil {
		t.Fatalf("new lock: %v", err)
	}
	if lock.ttl != defaultLockTTL {
		t.Fatalf("expected default ttl, got %s", lock.ttl)
	}
	if lock.instance != "cron-worker" {
		t.Fatalf("expected default instance, got %q", lock.instance)
	}
}

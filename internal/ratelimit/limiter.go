// Package ratelimit caps OTP generate requests per entity with a fixed
// window, so a stuck client cannot burn the upstream SMS/email quota.
package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"legalbooks/internal/platform/redis"
)

// Limiter answers whether one more request is allowed for a key.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// Memory is a fixed-window in-process limiter.
type Memory struct {
	limit  int
	window time.Duration
	clock  func() time.Time

	mu      sync.Mutex
	windows map[string]*windowState
}

type windowState struct {
	start time.Time
	count int
}

// MemoryOption configures a Memory limiter.
type MemoryOption func(*Memory)

// WithClock injects the time source for tests.
func WithClock(clock func() time.Time) MemoryOption {
	return func(m *Memory) {
		if clock != nil {
			m.clock = clock
		}
	}
}

// NewMemory builds an in-process fixed-window limiter.
func NewMemory(limit int, window time.Duration, opts ...MemoryOption) *Memory {
	m := &Memory{
		limit:   limit,
		window:  window,
		clock:   time.Now,
		windows: make(map[string]*windowState),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Allow consumes one slot for key, resetting the window when it has lapsed.
func (m *Memory) Allow(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock()
	w, ok := m.windows[key]
	if !ok || now.Sub(w.start) >= m.window {
		m.windows[key] = &windowState{start: now, count: 1}
		return true, nil
	}
	if w.count >= m.limit {
		return false, nil
	}
	w.count++
	return true, nil
}

// Redis is a fixed-window limiter shared across gateway instances.
type Redis struct {
	client *redis.Client
	limit  int
	window time.Duration
}

// NewRedis builds the Redis-backed limiter.
func NewRedis(client *redis.Client, limit int, window time.Duration) *Redis {
	return &Redis{client: client, limit: limit, window: window}
}

// Allow consumes one slot for key. The window key expires on its own; INCR
// on a fresh key starts a new window.
func (r *Redis) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := "onboarding:ratelimit:" + key
	count, err := r.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, fmt.Errorf("ratelimit incr %s: %w", key, err)
	}
	if count == 1 {
		if err := r.client.Expire(ctx, redisKey, r.window).Err(); err != nil {
			return false, fmt.Errorf("ratelimit expire %s: %w", key, err)
		}
	}
	return count <= int64(r.limit), nil
}

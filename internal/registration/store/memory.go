// Package store persists registration drafts for their short lifetime. The
// in-memory store backs tests and single-instance deployments; the Redis
// store survives gateway restarts and seals credentials at rest.
//
// Error contract: all stores return ErrNotFound (possibly wrapped) when the
// draft does not exist, ErrExpired when its TTL elapsed, and wrapped
// infrastructure errors otherwise.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"legalbooks/internal/registration"
	"legalbooks/pkg/platform/sentinel"
)

// Memory stores drafts in memory with TTL eviction on read.
type Memory struct {
	mu     sync.RWMutex
	drafts map[string]memoryEntry
	ttl    time.Duration
	clock  func() time.Time
}

type memoryEntry struct {
	raw       []byte
	updatedAt time.Time
}

// MemoryOption configures a Memory store.
type MemoryOption func(*Memory)

// WithClock injects the time source for tests.
func WithClock(clock func() time.Time) MemoryOption {
	return func(m *Memory) {
		if clock != nil {
			m.clock = clock
		}
	}
}

// NewMemory constructs an empty in-memory draft store.
func NewMemory(ttl time.Duration, opts ...MemoryOption) *Memory {
	m := &Memory{
		drafts: make(map[string]memoryEntry),
		ttl:    ttl,
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Memory) Create(ctx context.Context, d *registration.Draft) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.drafts[d.ID]; ok {
		return fmt.Errorf("draft %s: %w", d.ID, sentinel.ErrConflict)
	}
	return m.put(d)
}

func (m *Memory) Save(ctx context.Context, d *registration.Draft) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.put(d)
}

func (m *Memory) Get(ctx context.Context, id string) (*registration.Draft, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.drafts[id]
	if !ok {
		return nil, fmt.Errorf("draft %s: %w", id, sentinel.ErrNotFound)
	}
	if m.ttl > 0 && m.clock().Sub(entry.updatedAt) > m.ttl {
		delete(m.drafts, id)
		return nil, fmt.Errorf("draft %s: %w", id, sentinel.ErrExpired)
	}
	var d registration.Draft
	if err := json.Unmarshal(entry.raw, &d); err != nil {
		return nil, fmt.Errorf("decode draft %s: %w", id, err)
	}
	return &d, nil
}

func (m *Memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.drafts[id]; !ok {
		return fmt.Errorf("draft %s: %w", id, sentinel.ErrNotFound)
	}
	delete(m.drafts, id)
	return nil
}

// put stores a deep copy via JSON so callers cannot mutate stored state.
// Caller holds the lock.
func (m *Memory) put(d *registration.Draft) error {
	raw, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encode draft %s: %w", d.ID, err)
	}
	m.drafts[d.ID] = memoryEntry{raw: raw, updatedAt: m.clock()}
	return nil
}

// Package store persists auth sessions. Same store pair as drafts: memory
// for tests and single-instance runs, Redis for deployments.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"legalbooks/internal/session"
	"legalbooks/pkg/platform/sentinel"
)

// Memory stores sessions in memory with TTL eviction on read.
type Memory struct {
	mu       sync.RWMutex
	sessions map[string]memoryEntry
	ttl      time.Duration
	clock    func() time.Time
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

// NewMemory constructs an empty in-memory session store.
func NewMemory(ttl time.Duration, opts ...MemoryOption) *Memory {
	m := &Memory{
		sessions: make(map[string]memoryEntry),
		ttl:      ttl,
		clock:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Memory) Create(ctx context.Context, s *session.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[s.ID]; ok {
		return fmt.Errorf("session %s: %w", s.ID, sentinel.ErrConflict)
	}
	return m.put(s)
}

func (m *Memory) Save(ctx context.Context, s *session.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.put(s)
}

func (m *Memory) Get(ctx context.Context, id string) (*session.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session %s: %w", id, sentinel.ErrNotFound)
	}
	if m.ttl > 0 && m.clock().Sub(entry.updatedAt) > m.ttl {
		delete(m.sessions, id)
		return nil, fmt.Errorf("session %s: %w", id, sentinel.ErrExpired)
	}
	var s session.Session
	if err := json.Unmarshal(entry.raw, &s); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return &s, nil
}

func (m *Memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return fmt.Errorf("session %s: %w", id, sentinel.ErrNotFound)
	}
	delete(m.sessions, id)
	return nil
}

// put stores a deep copy via JSON so callers cannot mutate stored state.
// Caller holds the lock.
func (m *Memory) put(s *session.Session) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", s.ID, err)
	}
	m.sessions[s.ID] = memoryEntry{raw: raw, updatedAt: m.clock()}
	return nil
}

// Package audit records workflow events: best effort, append-only, never on
// the critical path of a registration.
package audit

import (
	"context"
	"sync"
	"time"
)

// Store is an append-only event sink.
type Store interface {
	Append(ctx context.Context, event Event) error
}

// Publisher captures structured audit events. Emission goes through an inbox
// channel drained by the Worker so slow sinks never block workflow calls.
type Publisher struct {
	inbox chan Event
	clock func() time.Time
}

// NewPublisher builds a publisher with a buffered inbox. Events beyond the
// buffer are dropped rather than blocking the caller.
func NewPublisher(buffer int) *Publisher {
	if buffer <= 0 {
		buffer = 256
	}
	return &Publisher{
		inbox: make(chan Event, buffer),
		clock: time.Now,
	}
}

// Emit enqueues one event, stamping the time when unset.
func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = p.clock()
	}
	select {
	case p.inbox <- event:
		return nil
	default:
		return ErrInboxFull
	}
}

// Inbox exposes the event channel to the Worker.
func (p *Publisher) Inbox() <-chan Event {
	return p.inbox
}

// ErrInboxFull reports a dropped event.
var ErrInboxFull = errInboxFull{}

type errInboxFull struct{}

func (errInboxFull) Error() string { return "audit inbox full, event dropped" }

// MemoryStore keeps events in memory for inspection and as the default sink.
type MemoryStore struct {
	mu     sync.RWMutex
	events []Event
}

// NewMemoryStore constructs an empty in-memory event store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Append(ctx context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

// List returns a copy of all recorded events in append order.
func (s *MemoryStore) List(ctx context.Context) []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}

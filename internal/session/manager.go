package session

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	dErrors "legalbooks/pkg/domain-errors"
)

//go:generate mockgen -source=manager.go -destination=mocks/mocks.go -package=mocks Store

// Store persists sessions for the manager.
type Store interface {
	Create(ctx context.Context, s *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}

// Subscriber receives session change notifications. Callbacks run
// synchronously on the mutating goroutine and must not block.
type Subscriber func(Event)

// Manager is the single owner of auth session state: explicit read, update,
// and clear operations with subscriber notification, replacing scattered
// ad hoc storage reads.
type Manager struct {
	store  Store
	logger *slog.Logger
	clock  func() time.Time

	mu          sync.RWMutex
	subscribers []Subscriber
}

// NewManager builds a session manager over the given store.
func NewManager(store Store, logger *slog.Logger) *Manager {
	return &Manager{store: store, logger: logger, clock: time.Now}
}

// WithClock injects the time source for tests.
func (m *Manager) WithClock(clock func() time.Time) *Manager {
	m.clock = clock
	return m
}

// Subscribe registers a callback for session change events.
func (m *Manager) Subscribe(sub Subscriber) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subscribers = append(m.subscribers, sub)
}

// Start creates a session from a fresh token pair, recording device
// metadata from the login request's User-Agent.
func (m *Manager) Start(ctx context.Context, access, refresh string, userDetails json.RawMessage, userAgent string) (*Session, error) {
	now := m.clock()
	s := &Session{
		ID:          uuid.NewString(),
		Access:      access,
		Refresh:     refresh,
		UserDetails: userDetails,
		Device:      ParseDevice(userAgent),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := m.store.Create(ctx, s); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create session")
	}
	m.notify(Event{Kind: EventStarted, SessionID: s.ID, At: now})
	return s, nil
}

// Get reads one session.
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	s, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnauthorized, "no active session")
	}
	return s, nil
}

// Resolve implements the transport middleware's session check.
func (m *Manager) Resolve(ctx context.Context, id string) error {
	_, err := m.Get(ctx, id)
	return err
}

// UpdateTokens stores a rotated token pair in place. An empty refresh keeps
// the previous refresh token, matching upstream rotation semantics.
func (m *Manager) UpdateTokens(ctx context.Context, id, access, refresh string) error {
	s, err := m.Get(ctx, id)
	if err != nil {
		return err
	}
	s.Access = access
	if refresh != "" {
		s.Refresh = refresh
	}
	s.UpdatedAt = m.clock()
	if err := m.store.Save(ctx, s); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save session")
	}
	m.notify(Event{Kind: EventRefreshed, SessionID: id, At: s.UpdatedAt})
	return nil
}

// Clear destroys one session. Clearing an already-absent session is not an
// error; logout must be idempotent.
func (m *Manager) Clear(ctx context.Context, id string) error {
	if err := m.store.Delete(ctx, id); err != nil {
		m.logger.DebugContext(ctx, "session already gone", "session_id", id, "error", err)
	}
	m.notify(Event{Kind: EventCleared, SessionID: id, At: m.clock()})
	return nil
}

// PutStash stores one handoff value on the session.
func (m *Manager) PutStash(ctx context.Context, id, key string, value json.RawMessage) error {
	s, err := m.Get(ctx, id)
	if err != nil {
		return err
	}
	if s.Stash == nil {
		s.Stash = make(map[string]json.RawMessage)
	}
	s.Stash[key] = value
	s.UpdatedAt = m.clock()
	if err := m.store.Save(ctx, s); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save session")
	}
	return nil
}

// TakeStash reads and removes one handoff value; missing keys return nil.
func (m *Manager) TakeStash(ctx context.Context, id, key string) (json.RawMessage, error) {
	s, err := m.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	value, ok := s.Stash[key]
	if !ok {
		return nil, nil
	}
	delete(s.Stash, key)
	s.UpdatedAt = m.clock()
	if err := m.store.Save(ctx, s); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save session")
	}
	return value, nil
}

// TokenSource returns a per-session adapter for the upstream client's
// refresh-and-retry flow.
func (m *Manager) TokenSource(sessionID string) *TokenSource {
	return &TokenSource{manager: m, sessionID: sessionID}
}

func (m *Manager) notify(event Event) {
	m.mu.RLock()
	subs := make([]Subscriber, len(m.subscribers))
	copy(subs, m.subscribers)
	m.mu.RUnlock()
	for _, sub := range subs {
		sub(event)
	}
}

// TokenSource adapts one session to the upstream client's token interface.
type TokenSource struct {
	manager   *Manager
	sessionID string
}

func (ts *TokenSource) Tokens(ctx context.Context) (string, string, error) {
	s, err := ts.manager.Get(ctx, ts.sessionID)
	if err != nil {
		return "", "", err
	}
	return s.Access, s.Refresh, nil
}

func (ts *TokenSource) UpdateTokens(ctx context.Context, access, refresh string) error {
	return ts.manager.UpdateTokens(ctx, ts.sessionID, access, refresh)
}

func (ts *TokenSource) Invalidate(ctx context.Context) error {
	return ts.manager.Clear(ctx, ts.sessionID)
}

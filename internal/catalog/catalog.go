// Package catalog loads and caches the reference data registration forms
// depend on: states with nested cities, practices with nested
// specializations, court hierarchies, and the role list.
package catalog

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"legalbooks/internal/platform/metrics"
	"legalbooks/internal/upstream"
	pstrings "legalbooks/pkg/platform/strings"
)

// Catalog is a read-only snapshot of reference data for one role. A failed
// load yields the zero value: dropdown consumers degrade to placeholder
// options and the workflow stays interactive.
type Catalog struct {
	States     []upstream.State
	Practices  []upstream.Practice
	CourtTypes []string
	Courts     []upstream.Court
	Roles      []upstream.Role
	LoadedAt   time.Time
}

// Empty reports whether the load produced no usable data.
func (c *Catalog) Empty() bool {
	return len(c.States) == 0 && len(c.Practices) == 0 && len(c.Roles) == 0
}

// CitiesForState returns the nested city list of the given state, or nil when
// the state is unknown. Backs the state→city cascade.
func (c *Catalog) CitiesForState(stateID int) []upstream.City {
	for _, s := range c.States {
		if s.ID == stateID {
			return s.Cities
		}
	}
	return nil
}

// PracticeByID looks up one practice area.
func (c *Catalog) PracticeByID(id int) (upstream.Practice, bool) {
	for _, p := range c.Practices {
		if p.ID == id {
			return p, true
		}
	}
	return upstream.Practice{}, false
}

// RoleByName looks up a role id by name.
func (c *Catalog) RoleByName(name string) (upstream.Role, bool) {
	for _, r := range c.Roles {
		if r.Name == name {
			return r, true
		}
	}
	return upstream.Role{}, false
}

// Fetcher is the slice of the upstream client the catalog needs.
type Fetcher interface {
	RegisterFields(ctx context.Context, role string) (*upstream.Fields, error)
	Roles(ctx context.Context) ([]upstream.Role, error)
}

// Service fetches catalogs with a per-role TTL cache.
type Service struct {
	fetcher Fetcher
	logger  *slog.Logger
	metrics *metrics.Metrics
	ttl     time.Duration
	clock   func() time.Time

	mu    sync.RWMutex
	cache map[string]*Catalog
}

// Option configures a Service.
type Option func(*Service)

// WithClock injects the time source for tests.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// NewService builds a catalog service.
func NewService(fetcher Fetcher, logger *slog.Logger, m *metrics.Metrics, ttl time.Duration, opts ...Option) *Service {
	s := &Service{
		fetcher: fetcher,
		logger:  logger,
		metrics: m,
		ttl:     ttl,
		clock:   time.Now,
		cache:   make(map[string]*Catalog),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load returns the catalog for one role, fetching fields and roles in
// parallel on a cache miss. Load never returns an error: a failed fetch logs
// and yields an empty catalog, per the field-catalog contract. Empty catalogs
// are not cached so the next mount retries.
func (s *Service) Load(ctx context.Context, role string) *Catalog {
	s.mu.RLock()
	cached, ok := s.cache[role]
	s.mu.RUnlock()
	if ok && s.clock().Sub(cached.LoadedAt) < s.ttl {
		s.metrics.CatalogCacheHits.Inc()
		return cached
	}
	s.metrics.CatalogCacheMisses.Inc()

	catalog := &Catalog{LoadedAt: s.clock()}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		fields, err := s.fetcher.RegisterFields(gctx, role)
		if err != nil {
			return err
		}
		catalog.States = fields.States
		catalog.Practices = fields.Practices
		// The upstream list repeats court types per bench.
		catalog.CourtTypes = pstrings.DedupeAndTrim(fields.CourtTypes)
		catalog.Courts = fields.Courts
		return nil
	})
	g.Go(func() error {
		roles, err := s.fetcher.Roles(gctx)
		if err != nil {
			return err
		}
		catalog.Roles = roles
		return nil
	})

	if err := g.Wait(); err != nil {
		s.logger.WarnContext(ctx, "catalog load failed, serving empty catalog",
			"role", role,
			"error", err,
		)
		return &Catalog{LoadedAt: s.clock()}
	}

	s.mu.Lock()
	s.cache[role] = catalog
	s.mu.Unlock()
	return catalog
}

// Invalidate drops the cached catalog for one role.
func (s *Service) Invalidate(role string) {
	s.mu.Lock()
	delete(s.cache, role)
	s.mu.Unlock()
}

package catalog

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"legalbooks/internal/platform/metrics"
	"legalbooks/internal/upstream"
)

type countingFetcher struct {
	fieldCalls atomic.Int64
	roleCalls  atomic.Int64
	fieldsErr  error
	rolesErr   error
}

func (f *countingFetcher) RegisterFields(_ context.Context, _ string) (*upstream.Fields, error) {
	f.fieldCalls.Add(1)
	if f.fieldsErr != nil {
		return nil, f.fieldsErr
	}
	return &upstream.Fields{
		States: []upstream.State{
			{ID: 5, Name: "Telangana", Cities: []upstream.City{{ID: 12, Name: "Hyderabad"}}},
		},
		Practices: []upstream.Practice{
			{ID: 1, Name: "Civil Law"},
		},
		CourtTypes: []string{"High Court", " District Court", "High Court", ""},
	}, nil
}

func (f *countingFetcher) Roles(_ context.Context) ([]upstream.Role, error) {
	f.roleCalls.Add(1)
	if f.rolesErr != nil {
		return nil, f.rolesErr
	}
	return []upstream.Role{{ID: 1, Name: "lawyer"}, {ID: 2, Name: "firm"}}, nil
}

func newTestService(f Fetcher, ttl time.Duration, opts ...Option) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(f, logger, metrics.NewWith(prometheus.NewRegistry()), ttl, opts...)
}

func TestLoadFetchesBothHalves(t *testing.T) {
	fetcher := &countingFetcher{}
	s := newTestService(fetcher, time.Minute)

	c := s.Load(context.Background(), "lawyer")
	require.False(t, c.Empty())
	assert.Len(t, c.States, 1)
	assert.Len(t, c.Practices, 1)
	assert.Len(t, c.Roles, 2)
	assert.Equal(t, int64(1), fetcher.fieldCalls.Load())
	assert.Equal(t, int64(1), fetcher.roleCalls.Load())
}

func TestLoadNormalizesCourtTypes(t *testing.T) {
	s := newTestService(&countingFetcher{}, time.Minute)

	c := s.Load(context.Background(), "lawyer")
	assert.Equal(t, []string{"High Court", "District Court"}, c.CourtTypes)
}

func TestLoadCachesPerRole(t *testing.T) {
	fetcher := &countingFetcher{}
	s := newTestService(fetcher, time.Minute)
	ctx := context.Background()

	s.Load(ctx, "lawyer")
	s.Load(ctx, "lawyer")
	assert.Equal(t, int64(1), fetcher.fieldCalls.Load(), "second load hits the cache")

	s.Load(ctx, "firm")
	assert.Equal(t, int64(2), fetcher.fieldCalls.Load(), "roles are cached independently")
}

func TestLoadTTLExpiry(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	fetcher := &countingFetcher{}
	s := newTestService(fetcher, 5*time.Minute, WithClock(func() time.Time { return now }))
	ctx := context.Background()

	s.Load(ctx, "lawyer")
	now = now.Add(4 * time.Minute)
	s.Load(ctx, "lawyer")
	assert.Equal(t, int64(1), fetcher.fieldCalls.Load())

	now = now.Add(2 * time.Minute)
	s.Load(ctx, "lawyer")
	assert.Equal(t, int64(2), fetcher.fieldCalls.Load(), "stale entries refetch")
}

func TestLoadFailureYieldsEmptyUncached(t *testing.T) {
	fetcher := &countingFetcher{fieldsErr: assert.AnError}
	s := newTestService(fetcher, time.Minute)
	ctx := context.Background()

	c := s.Load(ctx, "lawyer")
	assert.True(t, c.Empty())

	// Failures are not cached: the next load retries.
	fetcher.fieldsErr = nil
	c = s.Load(ctx, "lawyer")
	assert.False(t, c.Empty())
}

func TestInvalidate(t *testing.T) {
	fetcher := &countingFetcher{}
	s := newTestService(fetcher, time.Minute)
	ctx := context.Background()

	s.Load(ctx, "lawyer")
	s.Invalidate("lawyer")
	s.Load(ctx, "lawyer")
	assert.Equal(t, int64(2), fetcher.fieldCalls.Load())
}

func TestCitiesForState(t *testing.T) {
	c := &Catalog{States: []upstream.State{
		{ID: 5, Cities: []upstream.City{{ID: 12, Name: "Hyderabad"}}},
	}}
	assert.Len(t, c.CitiesForState(5), 1)
	assert.Nil(t, c.CitiesForState(99))
}

func TestRoleByName(t *testing.T) {
	c := &Catalog{Roles: []upstream.Role{{ID: 2, Name: "firm"}}}
	r, ok := c.RoleByName("firm")
	assert.True(t, ok)
	assert.Equal(t, 2, r.ID)
	_, ok = c.RoleByName("visitor")
	assert.False(t, ok)
}

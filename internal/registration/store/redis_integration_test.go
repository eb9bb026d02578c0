//go:build integration

package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	platformredis "legalbooks/internal/platform/redis"
	"legalbooks/internal/registration"
	"legalbooks/pkg/platform/sentinel"
	"legalbooks/pkg/testutil/containers"
)

func newRedisDraftStore(t *testing.T, ttl time.Duration) (*Redis, *containers.RedisContainer) {
	t.Helper()
	rc := containers.NewRedisContainer(t)
	require.NoError(t, rc.FlushAll(context.Background()))
	sealer, err := NewSealer("integration-test-seal-key")
	require.NoError(t, err)
	return NewRedis(&platformredis.Client{Client: rc.Client}, sealer, ttl), rc
}

func newDraft(id string) *registration.Draft {
	return registration.NewDraft(id, "lawyer", 4, time.Now())
}

func TestRedisDraftRoundTrip(t *testing.T) {
	s, _ := newRedisDraftStore(t, time.Hour)
	ctx := context.Background()

	d := newDraft("d1")
	d.Fields[registration.FieldFirstName] = "Asha"
	require.NoError(t, s.Create(ctx, d))

	got, err := s.Get(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, "Asha", got.Fields[registration.FieldFirstName])
	assert.Equal(t, "lawyer", got.Role)
}

func TestRedisDraftSealsCredentialsAtRest(t *testing.T) {
	s, rc := newRedisDraftStore(t, time.Hour)
	ctx := context.Background()

	d := newDraft("d1")
	d.Fields[registration.FieldPassword] = "Secret1!"
	d.Fields[registration.FieldConfirmPassword] = "Secret1!"
	require.NoError(t, s.Create(ctx, d))

	// The stored blob must not contain the plaintext password.
	raw, err := rc.Client.Get(ctx, "onboarding:draft:d1").Result()
	require.NoError(t, err)
	assert.NotContains(t, raw, "Secret1!")

	got, err := s.Get(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, "Secret1!", got.Fields[registration.FieldPassword])
	assert.Equal(t, "Secret1!", got.Fields[registration.FieldConfirmPassword])
}

func TestRedisDraftCreateConflict(t *testing.T) {
	s, _ := newRedisDraftStore(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, newDraft("d1")))
	assert.ErrorIs(t, s.Create(ctx, newDraft("d1")), sentinel.ErrConflict)
}

func TestRedisDraftMissing(t *testing.T) {
	s, _ := newRedisDraftStore(t, time.Hour)
	ctx := context.Background()

	_, err := s.Get(ctx, "nope")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, "nope"), sentinel.ErrNotFound)
}

func TestRedisDraftTTL(t *testing.T) {
	s, _ := newRedisDraftStore(t, time.Second)
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, newDraft("d1")))
	time.Sleep(1500 * time.Millisecond)

	_, err := s.Get(ctx, "d1")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestRedisDraftSaveAndDelete(t *testing.T) {
	s, _ := newRedisDraftStore(t, time.Hour)
	ctx := context.Background()

	d := newDraft("d1")
	require.NoError(t, s.Create(ctx, d))

	d.Fields[registration.FieldCity] = "12"
	require.NoError(t, s.Save(ctx, d))

	got, err := s.Get(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, "12", got.Fields[registration.FieldCity])

	require.NoError(t, s.Delete(ctx, "d1"))
	_, err = s.Get(ctx, "d1")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

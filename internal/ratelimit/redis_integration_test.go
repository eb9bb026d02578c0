//go:build integration

package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	platformredis "legalbooks/internal/platform/redis"
	"legalbooks/pkg/testutil/containers"
)

func TestRedisAllowFixedWindow(t *testing.T) {
	rc := containers.NewRedisContainer(t)
	ctx := context.Background()
	require.NoError(t, rc.FlushAll(ctx))

	l := NewRedis(&platformredis.Client{Client: rc.Client}, 2, time.Second)

	ok, err := l.Allow(ctx, "draft-1:email")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = l.Allow(ctx, "draft-1:email")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = l.Allow(ctx, "draft-1:email")
	require.NoError(t, err)
	assert.False(t, ok)

	// A different key has its own window.
	ok, err = l.Allow(ctx, "draft-2:email")
	require.NoError(t, err)
	assert.True(t, ok)

	// The window key expires and a fresh one starts over.
	time.Sleep(1500 * time.Millisecond)
	ok, err = l.Allow(ctx, "draft-1:email")
	require.NoError(t, err)
	assert.True(t, ok)
}

package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/cinerank/core"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	defer s.Close()

	_, err := s.Get(ctx, "missing")
	assert.True(t, core.IsStoreNotFound(err))

	require.NoError(t, s.Set(ctx, "a", []byte("1")))
	require.NoError(t, s.Set(ctx, "b", []byte("2"), 60))
	require.NoError(t, s.Set(ctx, "c", []byte("3")))

	v, err := s.Get(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, []byte("2"), v)
	assert.Equal(t, 3, s.Len())

	require.NoError(t, s.Delete(ctx, "a"))
	require.NoError(t, s.BatchDelete(ctx, []string{"b", "c", "never-set"}))
	assert.Equal(t, 0, s.Len())
}

func TestMemoryStore_TTL(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	defer s.Close()

	require.NoError(t, s.Set(ctx, "short", []byte("x"), 1))
	require.NoError(t, s.Set(ctx, "forever", []byte("y"), 0))

	time.Sleep(1100 * time.Millisecond)

	_, err := s.Get(ctx, "short")
	assert.True(t, core.IsStoreNotFound(err))
	_, err = s.Get(ctx, "forever")
	assert.NoError(t, err)
	assert.Equal(t, 1, s.Len())
}

func TestMemoryStore_CloseTwice(t *testing.T) {
	s := NewMemoryStore()
	assert.NoError(t, s.Close())
	assert.NoError(t, s.Close())
	assert.Equal(t, "memory", s.Name())
}

func TestNewRedisStore_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := NewRedisStore(ctx, "127.0.0.1:1", 0)
	require.Error(t, err)
	assert.True(t, core.IsUnavailable(err))
}

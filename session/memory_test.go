package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Hour)

	id, err := s.Create(ctx, 7)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	userID, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, uint(7), userID)

	require.NoError(t, s.Delete(ctx, id))
	_, err = s.Get(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)

	// deleting twice is fine
	assert.NoError(t, s.Delete(ctx, id))
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewMemoryStore(30 * time.Minute)
	s.now = func() time.Time { return now }

	id, err := s.Create(ctx, 1)
	require.NoError(t, err)

	now = now.Add(29 * time.Minute)
	_, err = s.Get(ctx, id)
	require.NoError(t, err)

	now = now.Add(time.Minute)
	_, err = s.Get(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreUnknownID(t *testing.T) {
	_, err := NewMemoryStore(time.Hour).Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	sess, err := store.Create(ctx, 7, time.Hour)
	require.NoError(t, err)
	assert.NotEmpty(t, sess.ID)

	got, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, uint(7), got.UserID)

	require.NoError(t, store.Delete(ctx, sess.ID))
	_, err = store.Get(ctx, sess.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	sess, err := store.Create(ctx, 1, -time.Second)
	require.NoError(t, err)

	_, err = store.Get(ctx, sess.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_DeleteUser(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	a, err := store.Create(ctx, 1, time.Hour)
	require.NoError(t, err)
	b, err := store.Create(ctx, 1, time.Hour)
	require.NoError(t, err)
	other, err := store.Create(ctx, 2, time.Hour)
	require.NoError(t, err)

	require.NoError(t, store.DeleteUser(ctx, 1, ""))

	_, err = store.Get(ctx, a.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.Get(ctx, b.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.Get(ctx, other.ID)
	assert.NoError(t, err)
}

func TestMemoryStore_Sweep(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, err := store.Create(ctx, 1, time.Minute)
	require.NoError(t, err)
	_, err = store.Create(ctx, 2, time.Hour)
	require.NoError(t, err)

	assert.Equal(t, 1, store.Sweep(time.Now().Add(2*time.Minute)))
}

func TestMemoryStore_DeleteUserKeepsCurrent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	current, err := store.Create(ctx, 1, time.Hour)
	require.NoError(t, err)
	stale, err := store.Create(ctx, 1, time.Hour)
	require.NoError(t, err)

	require.NoError(t, store.DeleteUser(ctx, 1, current.ID))

	_, err = store.Get(ctx, current.ID)
	assert.NoError(t, err)
	_, err = store.Get(ctx, stale.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

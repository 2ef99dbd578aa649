package session

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 需要真实 Redis：REDIS_ADDR=127.0.0.1:6379 go test ./pkg/session
func newRedisStore(t *testing.T) *RedisStore {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	client := redis.NewClient(&redis.Options{Addr: addr, DB: 15})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, client.Ping(ctx).Err())
	t.Cleanup(func() { client.Close() })
	return NewRedisStore(client)
}

func TestRedisStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	store := newRedisStore(t)

	sess, err := store.Create(ctx, 7, time.Minute)
	require.NoError(t, err)

	got, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, uint(7), got.UserID)

	require.NoError(t, store.Delete(ctx, sess.ID))
	_, err = store.Get(ctx, sess.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// 删除不存在的会话不是错误
	assert.NoError(t, store.Delete(ctx, sess.ID))
}

func TestRedisStore_DeleteUser(t *testing.T) {
	ctx := context.Background()
	store := newRedisStore(t)
	userID := uint(time.Now().UnixNano() % 1_000_000)

	current, err := store.Create(ctx, userID, time.Minute)
	require.NoError(t, err)
	stale, err := store.Create(ctx, userID, time.Minute)
	require.NoError(t, err)

	require.NoError(t, store.DeleteUser(ctx, userID, current.ID))
	_, err = store.Get(ctx, current.ID)
	assert.NoError(t, err)
	_, err = store.Get(ctx, stale.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.DeleteUser(ctx, userID, ""))
	_, err = store.Get(ctx, current.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

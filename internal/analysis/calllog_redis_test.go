package analysis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisCallLog(t *testing.T) {
	ctx := context.Background()

	t.Run("empty log returns zero times", func(t *testing.T) {
		_, client := newTestRedis(t)
		log := NewRedisCallLog(client, "", 0)

		user, global, err := log.LastCalls(ctx, "u1")
		require.NoError(t, err)
		assert.True(t, user.IsZero())
		assert.True(t, global.IsZero())
	})

	t.Run("record then read", func(t *testing.T) {
		mr, client := newTestRedis(t)
		log := NewRedisCallLog(client, "test", time.Hour)
		at := time.Date(2024, 5, 1, 12, 0, 0, 123_000_000, time.UTC)

		require.NoError(t, log.RecordCall(ctx, "u1", at))

		user, global, err := log.LastCalls(ctx, "u1")
		require.NoError(t, err)
		assert.True(t, at.Equal(user))
		assert.True(t, at.Equal(global))

		other, global2, err := log.LastCalls(ctx, "u2")
		require.NoError(t, err)
		assert.True(t, other.IsZero())
		assert.True(t, at.Equal(global2))

		assert.True(t, mr.Exists("test:user:u1"))
		assert.Equal(t, time.Hour, mr.TTL("test:global"))
	})

	t.Run("anonymous user key", func(t *testing.T) {
		mr, client := newTestRedis(t)
		log := NewRedisCallLog(client, "", 0)

		require.NoError(t, log.RecordCall(ctx, "", time.Now()))
		assert.True(t, mr.Exists("bookmood:llm:user:anonymous"))
		assert.Equal(t, 24*time.Hour, mr.TTL("bookmood:llm:global"))
	})

	t.Run("garbage value is an error", func(t *testing.T) {
		mr, client := newTestRedis(t)
		log := NewRedisCallLog(client, "", 0)
		require.NoError(t, mr.Set("bookmood:llm:global", "not-a-number"))

		_, _, err := log.LastCalls(ctx, "u1")
		assert.Error(t, err)
	})

	t.Run("redis down", func(t *testing.T) {
		mr, client := newTestRedis(t)
		log := NewRedisCallLog(client, "", 0)
		mr.Close()

		_, _, err := log.LastCalls(ctx, "u1")
		assert.Error(t, err)
		assert.Error(t, log.RecordCall(ctx, "u1", time.Now()))
	})
}

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySetGet(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(10, 0)

	require.NoError(t, c.Set(ctx, "events:list", `[{"id":"e1"}]`, time.Minute))

	val, found, err := c.Get(ctx, "events:list")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `[{"id":"e1"}]`, val)
}

func TestMemoryExpiration(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(10, 0)

	require.NoError(t, c.Set(ctx, "k", "v", 10*time.Millisecond))
	time.Sleep(25 * time.Millisecond)

	_, found, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryDelete(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(10, 0)

	require.NoError(t, c.Set(ctx, "k", "v", 0))
	require.NoError(t, c.Delete(ctx, "k"))

	_, found, _ := c.Get(ctx, "k")
	assert.False(t, found)
}

func TestMemoryEviction(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(2, 0)

	require.NoError(t, c.Set(ctx, "a", "1", time.Minute))
	require.NoError(t, c.Set(ctx, "b", "2", 2*time.Minute))
	require.NoError(t, c.Set(ctx, "c", "3", 3*time.Minute))

	count := 0
	for _, key := range []string{"a", "b", "c"} {
		if _, found, _ := c.Get(ctx, key); found {
			count++
		}
	}
	assert.Equal(t, 2, count)
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	c := NewRedis(mr.Addr(), "", 0)
	require.NoError(t, c.Ping(ctx))

	_, found, err := c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.Set(ctx, "events:list", "payload", time.Minute))

	val, found, err := c.Get(ctx, "events:list")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "payload", val)

	require.NoError(t, c.Delete(ctx, "events:list"))
	_, found, _ = c.Get(ctx, "events:list")
	assert.False(t, found)
}

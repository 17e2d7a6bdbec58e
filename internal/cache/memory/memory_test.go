package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_SetGetExpire(t *testing.T) {
	c := New(time.Minute)
	ctx := context.Background()

	_, ok := c.Get(ctx, "missing")
	assert.False(t, ok)

	c.Set(ctx, "k", []byte(`["hackathon"]`), 20*time.Millisecond)

	got, ok := c.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, `["hackathon"]`, string(got))

	// go-cache hides expired items from Get before the janitor runs
	assert.Eventually(t, func() bool {
		_, ok := c.Get(ctx, "k")
		return !ok
	}, time.Second, 10*time.Millisecond)
}

func TestCache_NonPositiveTTLFallsBackToDefault(t *testing.T) {
	c := New(0)
	ctx := context.Background()

	// gocache.DefaultExpiration resolves to the constructor's TTL
	c.Set(ctx, "k", []byte("v"), 0)

	got, ok := c.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, "v", string(got))
}

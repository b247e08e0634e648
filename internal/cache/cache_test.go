package cache

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/longevity-snapshot-server/internal/domain"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func lruOnlyCache(t *testing.T, ttl time.Duration) *TieredCache {
	t.Helper()

	c, err := New(domain.CacheConfig{LRUSize: 8, DefaultTTL: ttl}, testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestProfileKeyDeterministic(t *testing.T) {
	profile := &domain.HealthProfile{
		UserID: "user-1",
		Age:    40,
		Gender: "female",
	}

	k1, err := ProfileKey(profile)
	require.NoError(t, err)
	k2, err := ProfileKey(profile)
	require.NoError(t, err)

	assert.Equal(t, k1, k2)
	assert.Len(t, k1, 64)
}

func TestProfileKeyChangesWithProfile(t *testing.T) {
	profile := &domain.HealthProfile{UserID: "user-1", Age: 40}

	k1, err := ProfileKey(profile)
	require.NoError(t, err)

	profile.Age = 41
	k2, err := ProfileKey(profile)
	require.NoError(t, err)

	assert.NotEqual(t, k1, k2)
}

func TestCacheSetGet(t *testing.T) {
	c := lruOnlyCache(t, time.Minute)
	ctx := context.Background()

	a := &domain.Assessment{
		ID:     "assessment-1",
		UserID: "user-1",
		Result: &domain.SynthesizedResult{Confidence: domain.ConfidenceHigh},
	}
	c.Set(ctx, "key-1", a)

	got, ok := c.Get(ctx, "key-1")
	require.True(t, ok)
	assert.Equal(t, "assessment-1", got.ID)
	assert.Equal(t, domain.ConfidenceHigh, got.Result.Confidence)
}

func TestCacheMiss(t *testing.T) {
	c := lruOnlyCache(t, time.Minute)

	_, ok := c.Get(context.Background(), "absent")
	assert.False(t, ok)
}

func TestCacheEntryExpires(t *testing.T) {
	c := lruOnlyCache(t, 10*time.Millisecond)
	ctx := context.Background()

	c.Set(ctx, "key-1", &domain.Assessment{ID: "assessment-1"})

	time.Sleep(25 * time.Millisecond)

	_, ok := c.Get(ctx, "key-1")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len(), "expired entry should be evicted on read")
}

func TestCacheEviction(t *testing.T) {
	c, err := New(domain.CacheConfig{LRUSize: 2, DefaultTTL: time.Minute}, testLogger())
	require.NoError(t, err)
	defer c.Close()
	ctx := context.Background()

	c.Set(ctx, "key-1", &domain.Assessment{ID: "a1"})
	c.Set(ctx, "key-2", &domain.Assessment{ID: "a2"})
	c.Set(ctx, "key-3", &domain.Assessment{ID: "a3"})

	assert.Equal(t, 2, c.Len())
	_, ok := c.Get(ctx, "key-1")
	assert.False(t, ok, "oldest entry should have been evicted")
}

func TestCachePurge(t *testing.T) {
	c := lruOnlyCache(t, time.Minute)
	ctx := context.Background()

	c.Set(ctx, "key-1", &domain.Assessment{ID: "a1"})
	c.Purge()

	assert.Equal(t, 0, c.Len())
}

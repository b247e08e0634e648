// Package cache provides a two-tier cache for assessment results keyed by
// profile content hash. An in-process LRU tier is always on; a Redis tier
// can be enabled for shared deployments and sits behind a circuit breaker
// so an unhealthy Redis degrades the service to LRU-only instead of
// failing requests.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/longevity-snapshot-server/internal/domain"
)

// keyPrefix namespaces assessment entries in the shared Redis tier.
const keyPrefix = "assessment:"

// entry wraps a cached assessment with its expiry for the LRU tier,
// which has no TTL of its own.
type entry struct {
	Assessment *domain.Assessment `json:"assessment"`
	CachedAt   time.Time          `json:"cached_at"`
	ExpiresAt  time.Time          `json:"expires_at"`
}

// TieredCache is the two-tier assessment cache. Both tiers hold the same
// serialized entries; the LRU tier is consulted first and backfilled on
// Redis hits.
type TieredCache struct {
	local   *lru.Cache[string, entry]
	redis   *redis.Client
	breaker *gobreaker.CircuitBreaker
	ttl     time.Duration
	log     *logrus.Logger
}

// New creates the cache from configuration. A Redis tier that cannot be
// reached at startup is disabled with a warning rather than treated as
// fatal.
func New(config domain.CacheConfig, logger *logrus.Logger) (*TieredCache, error) {
	size := config.LRUSize
	if size <= 0 {
		size = 1024
	}
	local, err := lru.New[string, entry](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create LRU cache: %w", err)
	}

	c := &TieredCache{
		local: local,
		ttl:   config.DefaultTTL,
		log:   logger,
	}
	if c.ttl <= 0 {
		c.ttl = time.Hour
	}

	if config.RedisEnabled {
		client, err := newRedisClient(config, logger)
		if err != nil {
			logger.WithError(err).Warn("Redis cache tier unavailable, continuing with LRU only")
		} else {
			c.redis = client
			c.breaker = newRedisBreaker(logger)
		}
	}

	return c, nil
}

func newRedisClient(config domain.CacheConfig, logger *logrus.Logger) (*redis.Client, error) {
	opts, err := redis.ParseURL(config.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	opts.PoolSize = config.PoolSize
	opts.PoolTimeout = config.PoolTimeout
	opts.MaxRetries = config.MaxRetries

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis cache tier connected")
	return client, nil
}

func newRedisBreaker(logger *logrus.Logger) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "redis-cache",
		MaxRequests: 5,
		Interval:    30 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("Cache circuit breaker state changed")
		},
	})
}

// ProfileKey derives the cache key for a profile: the SHA-256 of its
// canonical JSON form. Struct field order is fixed, so equal profiles
// always hash to the same key.
func ProfileKey(profile *domain.HealthProfile) (string, error) {
	data, err := json.Marshal(profile)
	if err != nil {
		return "", fmt.Errorf("failed to encode profile for hashing: %w", err)
	}
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash), nil
}

// Get looks the key up in the LRU tier first, then Redis. Cache failures
// are logged and reported as misses.
func (c *TieredCache) Get(ctx context.Context, key string) (*domain.Assessment, bool) {
	if e, ok := c.local.Get(key); ok {
		if time.Now().Before(e.ExpiresAt) {
			return e.Assessment, true
		}
		c.local.Remove(key)
	}

	if c.redis == nil {
		return nil, false
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.redis.Get(ctx, keyPrefix+key).Result()
	})
	if err != nil {
		if err != redis.Nil && err != gobreaker.ErrOpenState {
			c.log.WithError(err).Debug("Redis cache get failed")
		}
		return nil, false
	}

	var e entry
	if err := json.Unmarshal([]byte(result.(string)), &e); err != nil {
		// Corrupted entry; drop it.
		c.redis.Del(ctx, keyPrefix+key)
		return nil, false
	}
	if time.Now().After(e.ExpiresAt) {
		c.redis.Del(ctx, keyPrefix+key)
		return nil, false
	}

	c.local.Add(key, e)
	return e.Assessment, true
}

// Set stores the assessment in both tiers. Redis failures are logged and
// ignored; the LRU tier always gets the entry.
func (c *TieredCache) Set(ctx context.Context, key string, assessment *domain.Assessment) {
	now := time.Now()
	e := entry{
		Assessment: assessment,
		CachedAt:   now,
		ExpiresAt:  now.Add(c.ttl),
	}
	c.local.Add(key, e)

	if c.redis == nil {
		return
	}

	data, err := json.Marshal(e)
	if err != nil {
		c.log.WithError(err).Debug("Failed to encode cache entry")
		return
	}

	_, err = c.breaker.Execute(func() (interface{}, error) {
		return nil, c.redis.Set(ctx, keyPrefix+key, data, c.ttl).Err()
	})
	if err != nil && err != gobreaker.ErrOpenState {
		c.log.WithError(err).Debug("Redis cache set failed")
	}
}

// Purge drops every entry from the LRU tier. Redis entries expire on
// their own TTL.
func (c *TieredCache) Purge() {
	c.local.Purge()
}

// Len reports the number of entries in the LRU tier.
func (c *TieredCache) Len() int {
	return c.local.Len()
}

// Close closes the Redis connection if the tier is enabled.
func (c *TieredCache) Close() error {
	if c.redis != nil {
		return c.redis.Close()
	}
	return nil
}

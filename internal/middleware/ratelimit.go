package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/longevity-snapshot-server/internal/domain"
)

// limiterIdleTimeout is how long an idle client's bucket survives before
// a sweep drops it.
const limiterIdleTimeout = 10 * time.Minute

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// rateLimiters tracks one token bucket per client IP. Idle buckets are
// swept opportunistically on lookup rather than by a background
// goroutine, so the middleware holds no resources that outlive the
// server.
type rateLimiters struct {
	mu        sync.Mutex
	clients   map[string]*clientLimiter
	rps       rate.Limit
	burst     int
	lastSweep time.Time
}

func newRateLimiters(cfg domain.RateLimitConfig) *rateLimiters {
	return &rateLimiters{
		clients:   make(map[string]*clientLimiter),
		rps:       rate.Limit(cfg.RequestsPerSecond),
		burst:     cfg.Burst,
		lastSweep: time.Now(),
	}
}

func (r *rateLimiters) get(ip string) *rate.Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	if now.Sub(r.lastSweep) >= limiterIdleTimeout {
		r.sweepLocked(now)
	}

	cl, ok := r.clients[ip]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(r.rps, r.burst)}
		r.clients[ip] = cl
	}
	cl.lastSeen = now
	return cl.limiter
}

// sweepLocked drops buckets idle longer than limiterIdleTimeout. The
// caller must hold r.mu.
func (r *rateLimiters) sweepLocked(now time.Time) {
	cutoff := now.Add(-limiterIdleTimeout)
	for ip, cl := range r.clients {
		if cl.lastSeen.Before(cutoff) {
			delete(r.clients, ip)
		}
	}
	r.lastSweep = now
}

// RateLimit applies a per-client-IP token bucket. Exhausted clients get
// 429 with a Retry-After hint.
func RateLimit(cfg domain.RateLimitConfig) gin.HandlerFunc {
	limiters := newRateLimiters(cfg)

	return func(c *gin.Context) {
		if !limiters.get(c.ClientIP()).Allow() {
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":          "Rate limit exceeded",
				"correlation_id": c.GetString("correlation_id"),
				"timestamp":      time.Now().UTC().Format(time.RFC3339),
			})
			return
		}
		c.Next()
	}
}

package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type RateLimiterConfig struct {
	RequestsPerSecond int
	Burst             int
	CleanupInterval   time.Duration
	TTL               time.Duration
}

// visitors tracks one token bucket per client IP
type visitors struct {
	mu    sync.Mutex
	m     map[string]*visitor
	rps   int
	burst int
}

func (v *visitors) get(ip string, now time.Time) *rate.Limiter {
	v.mu.Lock()
	defer v.mu.Unlock()

	vis, exists := v.m[ip]
	if !exists {
		limiter := rate.NewLimiter(rate.Limit(v.rps), v.burst)
		v.m[ip] = &visitor{limiter, now}
		return limiter
	}

	vis.lastSeen = now
	return vis.limiter
}

func (v *visitors) cleanup(now time.Time, ttl time.Duration) {
	v.mu.Lock()
	defer v.mu.Unlock()

	for ip, vis := range v.m {
		if now.Sub(vis.lastSeen) > ttl {
			delete(v.m, ip)
		}
	}
}

// RateLimiterMiddleware limits requests per client IP in memory. Idle
// visitors are forgotten after TTL until ctx is cancelled
func RateLimiterMiddleware(ctx context.Context, config RateLimiterConfig) gin.HandlerFunc {
	if config.CleanupInterval == 0 {
		config.CleanupInterval = time.Minute
	}
	if config.TTL == 0 {
		config.TTL = 3 * time.Minute
	}
	if config.Burst == 0 {
		config.Burst = config.RequestsPerSecond
	}

	v := &visitors{
		m:     make(map[string]*visitor),
		rps:   config.RequestsPerSecond,
		burst: config.Burst,
	}

	go func() {
		ticker := time.NewTicker(config.CleanupInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				v.cleanup(now, config.TTL)
			}
		}
	}()

	return func(c *gin.Context) {
		if !v.get(c.ClientIP(), time.Now()).Allow() {
			tooManyRequests(c)
			return
		}

		c.Next()
	}
}

func tooManyRequests(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
		"error":     "Too many requests",
		"requestID": c.GetString("requestID"),
	})
}

package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisRateLimiterMiddleware allows limit requests per client IP in every
// fixed window. Counters live in Redis so all instances share them. When
// Redis can't be reached requests are let through
func RedisRateLimiterMiddleware(rdb *redis.Client, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		slot := time.Now().UnixNano() / int64(window)
		key := fmt.Sprintf("ratelimit:%s:%d", c.ClientIP(), slot)

		pipe := rdb.TxPipeline()
		incr := pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, window)

		if _, err := pipe.Exec(ctx); err != nil {
			zap.L().Warn("Rate limiter unavailable, letting request through",
				zap.Error(err),
				zap.String("requestID", c.GetString("requestID")))
			c.Next()
			return
		}

		if incr.Val() > int64(limit) {
			tooManyRequests(c)
			return
		}

		c.Next()
	}
}

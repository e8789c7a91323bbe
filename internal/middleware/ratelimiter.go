package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimiter - лимитер на Redis INCR. Считает запросы с одного IP
// в окне window; Redis недоступен - пропускаем, лимитер не должен
// превращаться в единую точку отказа.
type RateLimiter struct {
	rdb *redis.Client
}

func NewRateLimiter(rdb *redis.Client) *RateLimiter {
	return &RateLimiter{rdb: rdb}
}

func (rl *RateLimiter) Limit(name string, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("ratelimit:%s:%s", name, c.ClientIP())

		count, err := rl.rdb.Incr(c, key).Result()
		if err != nil {
			c.Next()
			return
		}
		if count == 1 {
			rl.rdb.Expire(c, key, window)
		}

		if count > int64(limit) {
			ttl, _ := rl.rdb.TTL(c, key).Result()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "too many requests",
				"retry_after": ttl.Round(time.Second).String(),
			})
			return
		}
		c.Next()
	}
}

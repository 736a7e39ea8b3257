package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/Payphone-Digital/marketplace/internal/constants"
	"github.com/Payphone-Digital/marketplace/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RateLimiter is a sliding window of request times per client IP.
type RateLimiter struct {
	hits       map[string][]time.Time
	maxRequest int
	window     time.Duration
	now        func() time.Time
	mu         sync.Mutex
}

func NewRateLimiter(maxRequest int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		hits:       make(map[string][]time.Time),
		maxRequest: maxRequest,
		window:     window,
		now:        time.Now,
	}
}

// Take records a hit for key and reports how many remain in the window.
func (rl *RateLimiter) Take(key string) (remaining int, ok bool) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.cleanup(now)

	hits := rl.hits[key]
	if len(hits) >= rl.maxRequest {
		return 0, false
	}
	rl.hits[key] = append(hits, now)
	return rl.maxRequest - len(hits) - 1, true
}

func (rl *RateLimiter) cleanup(now time.Time) {
	for key, hits := range rl.hits {
		valid := hits[:0]
		for _, t := range hits {
			if now.Sub(t) < rl.window {
				valid = append(valid, t)
			}
		}
		if len(valid) > 0 {
			rl.hits[key] = valid
		} else {
			delete(rl.hits, key)
		}
	}
}

// Handler rejects clients over the limit with 429
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()

		remaining, ok := rl.Take(ip)
		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.maxRequest))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if !ok {
			logger.GetLogger().Warn("Rate limit exceeded",
				zap.String("client_ip", ip),
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.Int("max_requests", rl.maxRequest),
				zap.Duration("window", rl.window),
			)
			c.Header("Retry-After", strconv.Itoa(int(rl.window.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, constants.BuildErrorResponse("Too many requests"))
			return
		}

		c.Next()
	}
}

func RateLimit(maxRequest int, window time.Duration) gin.HandlerFunc {
	return NewRateLimiter(maxRequest, window).Handler()
}

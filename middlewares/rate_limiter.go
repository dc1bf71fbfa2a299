package middlewares

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/tablesession-api/utils"
	"golang.org/x/time/rate"
)

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	every    time.Duration
	burst    int
	limiters map[string]*rate.Limiter
	mu       sync.Mutex
}

// NewRateLimiter allows burst requests at once and one more every interval.
func NewRateLimiter(burst int, every time.Duration) *RateLimiter {
	return &RateLimiter{
		every:    every,
		burst:    burst,
		limiters: make(map[string]*rate.Limiter),
	}
}

func (rl *RateLimiter) limiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	l, ok := rl.limiters[ip]
	if !ok {
		l = rate.NewLimiter(rate.Every(rl.every), rl.burst)
		rl.limiters[ip] = l
	}
	return l
}

func (rl *RateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.limiter(c.ClientIP()).Allow() {
			utils.AbortWithError(c, http.StatusTooManyRequests, errors.New("too many requests, please wait a moment"))
			return
		}
		c.Next()
	}
}

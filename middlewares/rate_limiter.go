package middlewares

import (
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

// RateLimiter -> token bucket per IP di memori proses
type RateLimiter struct {
	limit    int
	interval time.Duration
	ips      map[string]*visitor
	mu       sync.Mutex
}

// NewRateLimiter mengizinkan limit request per interval untuk setiap IP
func NewRateLimiter(limit int, interval time.Duration) *RateLimiter {
	if limit <= 0 {
		limit = 1
	}
	if interval <= 0 {
		interval = time.Second
	}
	return &RateLimiter{
		limit:    limit,
		interval: interval,
		ips:      make(map[string]*visitor),
	}
}

func (rl *RateLimiter) limiterFor(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	v, exists := rl.ips[ip]
	if !exists {
		every := rl.interval / time.Duration(rl.limit)
		v = &visitor{limiter: rate.NewLimiter(rate.Every(every), rl.limit)}
		rl.ips[ip] = v
	}
	v.lastSeen = now

	// buang IP yang lama tidak terlihat
	if len(rl.ips) > 1024 {
		for key, other := range rl.ips {
			if now.Sub(other.lastSeen) > 10*rl.interval+time.Minute {
				delete(rl.ips, key)
			}
		}
	}
	return v.limiter
}

func (rl *RateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.limiterFor(c.ClientIP()).Allow() {
			c.Header("Retry-After", "1")
			c.JSON(http.StatusTooManyRequests, gin.H{
				"status":  false,
				"message": "Terlalu banyak request, silakan tunggu beberapa saat",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

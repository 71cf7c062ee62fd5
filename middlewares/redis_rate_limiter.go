package middlewares

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/yeremiapane/table-reservations/utils"
)

// tokenBucketScript: state bucket disimpan di hash redis supaya beberapa
// instance server berbagi limit yang sama
var tokenBucketScript = redis.NewScript(`
	local key = KEYS[1]
	local now_ms = tonumber(ARGV[1])
	local capacity = tonumber(ARGV[2])
	local interval_ms = tonumber(ARGV[3])
	local ttl_seconds = tonumber(ARGV[4])

	local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
	local tokens = tonumber(state[1])
	local last_refill = tonumber(state[2])

	if tokens == nil or last_refill == nil then
		tokens = capacity
		last_refill = now_ms
	end

	local elapsed = math.max(0, now_ms - last_refill)
	local intervals = math.floor(elapsed / interval_ms)
	if intervals > 0 then
		tokens = capacity
		last_refill = last_refill + (intervals * interval_ms)
	end

	local allowed = 0
	local retry_after_ms = 0
	if tokens > 0 then
		allowed = 1
		tokens = tokens - 1
	else
		retry_after_ms = math.max(0, interval_ms - (now_ms - last_refill))
	end

	redis.call('HSET', key, 'tokens', tokens, 'last_refill_ms', last_refill)
	redis.call('EXPIRE', key, ttl_seconds)

	return { allowed, tokens, retry_after_ms }
`)

// RedisRateLimit -> limit request per IP yang dibagi lewat redis.
// Jika redis error, request tetap diteruskan.
func RedisRateLimit(rdb *redis.Client, prefix string, limit int, interval time.Duration) gin.HandlerFunc {
	if interval <= 0 {
		interval = time.Second
	}
	ttl := int64(math.Ceil(interval.Seconds())) * 2
	if ttl < 1 {
		ttl = 1
	}

	return func(c *gin.Context) {
		key := fmt.Sprintf("%s:ip:%s", prefix, c.ClientIP())
		vals, err := tokenBucketScript.Run(c.Request.Context(), rdb, []string{key},
			time.Now().UnixMilli(), limit, interval.Milliseconds(), ttl).Int64Slice()
		if err != nil || len(vals) != 3 {
			utils.Error().WithField("key", key).Warnf("Rate limit check failed: %v", err)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(vals[1], 10))

		if vals[0] != 1 {
			secs := int(math.Ceil(float64(vals[2]) / 1000.0))
			c.Header("Retry-After", strconv.Itoa(secs))
			c.JSON(http.StatusTooManyRequests, gin.H{
				"status":      false,
				"message":     "rate limit exceeded",
				"retry_after": secs,
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

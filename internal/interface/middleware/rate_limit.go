package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/mycookbook-api/pkg/helpers"
	"github.com/oksasatya/mycookbook-api/pkg/response"
)

// ipFromCtx extracts the client IP from Gin context, falling back to "unknown"
func ipFromCtx(c *gin.Context) string {
	if ip := c.GetString("real_ip"); ip != "" {
		return ip
	}
	if ip := c.ClientIP(); ip != "" {
		return ip
	}
	return "unknown"
}

func routeOf(c *gin.Context) string {
	if fp := c.FullPath(); fp != "" {
		return fp
	}
	return c.Request.URL.Path
}

// KeyFunc builds a rate-limit key from the request
type KeyFunc func(c *gin.Context) string

// KeyByIPAndRoute limits each client per route, e.g. login attempts.
func KeyByIPAndRoute() KeyFunc {
	return func(c *gin.Context) string {
		return "rl:route:" + routeOf(c) + ":ip:" + ipFromCtx(c)
	}
}

// KeyByUserID limits an authenticated user across routes. Anonymous callers
// fall back to their IP.
func KeyByUserID() KeyFunc {
	return func(c *gin.Context) string {
		uid := c.GetString(CtxUserIDKey)
		if uid == "" {
			return "rl:user:anon:ip:" + ipFromCtx(c)
		}
		return "rl:user:" + uid
	}
}

type AllowFunc func(*gin.Context) bool // return true for bypass limit

// Counter counts hits of key inside a fixed window and reports how long the
// window has left.
type Counter interface {
	Hit(ctx context.Context, key string, window time.Duration) (int, time.Duration, error)
}

// INCR, PEXPIRE on first hit, and PTTL in one round trip
var hitScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return {current, redis.call("PTTL", KEYS[1])}
`)

// RedisCounter is a fixed-window Counter shared by every API instance.
type RedisCounter struct {
	RDB redis.Scripter
}

func (r RedisCounter) Hit(ctx context.Context, key string, window time.Duration) (int, time.Duration, error) {
	res, err := hitScript.Run(ctx, r.RDB, []string{helpers.RedisKey(key)}, window.Milliseconds()).Int64Slice()
	if err != nil {
		return 0, 0, err
	}
	if len(res) != 2 {
		return 0, 0, redis.Nil
	}
	return int(res[0]), time.Duration(res[1]) * time.Millisecond, nil
}

// Rule configures one RateLimit instance.
type Rule struct {
	Max    int
	Window time.Duration
	Key    KeyFunc
	Allow  AllowFunc
}

// RateLimit rejects requests over rule.Max per window with 429 and sets the
// X-RateLimit-* headers. It fails open when the counter errors and is a
// no-op without a counter.
func RateLimit(counter Counter, rule Rule) gin.HandlerFunc {
	if counter == nil || rule.Max <= 0 || rule.Window <= 0 || rule.Key == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		if rule.Allow != nil && rule.Allow(c) {
			c.Next()
			return
		}
		if strings.EqualFold(c.Request.Method, http.MethodOptions) {
			c.Next()
			return
		}

		count, ttl, err := counter.Hit(c.Request.Context(), rule.Key(c), rule.Window)
		if err != nil {
			c.Next()
			return
		}
		resetSec := 0
		if ttl > 0 {
			resetSec = int((ttl + time.Second - 1) / time.Second)
		}
		remaining := rule.Max - count
		if remaining < 0 {
			remaining = 0
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(rule.Max))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.Itoa(resetSec))

		if count > rule.Max {
			if resetSec > 0 {
				c.Header("Retry-After", strconv.Itoa(resetSec))
			}
			response.Abort(c, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		c.Next()
	}
}

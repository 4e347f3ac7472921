package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"flagdeck/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// bucketScript is a token bucket evaluated atomically in redis.
// KEYS: tokens, timestamp. ARGV: rate, capacity, now, requested.
// Returns { allowed, remaining, reset_after }.
var bucketScript = redis.NewScript(`
local tokens_key = KEYS[1]
local ts_key = KEYS[2]
local rate = tonumber(ARGV[1])
local capacity = tonumber(ARGV[2])
local now = tonumber(ARGV[3])
local requested = tonumber(ARGV[4])

local fill_time = capacity / rate
local ttl = math.ceil(fill_time * 2)

local last_tokens = tonumber(redis.call("get", tokens_key))
if last_tokens == nil then last_tokens = capacity end

local last_ts = tonumber(redis.call("get", ts_key))
if last_ts == nil then last_ts = now end

local delta = math.max(0, now - last_ts)
local filled = math.min(capacity, last_tokens + (delta * rate))
local allowed = 0
local reset_after = 0

if filled >= requested then
    allowed = 1
    filled = filled - requested
    redis.call("set", tokens_key, filled, "EX", ttl)
    redis.call("set", ts_key, now, "EX", ttl)
else
    reset_after = (requested - filled) / rate
end

return { allowed, filled, reset_after }
`)

// clientLimiter tracks one client's in-process fallback limiter. The pool
// below is shared across middleware instances so redis outages do not
// multiply limiter state.
type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type limiterPool struct {
	mu      sync.Mutex
	clients map[string]*clientLimiter
}

var fallbackPool = newLimiterPool(10 * time.Minute)

func newLimiterPool(idle time.Duration) *limiterPool {
	p := &limiterPool{clients: map[string]*clientLimiter{}}
	go func() {
		for range time.Tick(idle) {
			cutoff := time.Now().Add(-idle)
			p.mu.Lock()
			for ip, cl := range p.clients {
				if cl.lastSeen.Before(cutoff) {
					delete(p.clients, ip)
				}
			}
			p.mu.Unlock()
		}
	}()
	return p
}

func (p *limiterPool) get(ip string, r rate.Limit, burst int) *rate.Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()

	cl, ok := p.clients[ip]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(r, burst)}
		p.clients[ip] = cl
	}
	cl.lastSeen = time.Now()
	return cl.limiter
}

// RateLimitMiddleware applies a per-client token bucket in redis so the
// limit holds across instances. When redis is unreachable it fails open to
// a local in-process limiter rather than rejecting traffic.
func RateLimitMiddleware(rdb *redis.Client, requestsPerSecond int) gin.HandlerFunc {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 5
	}
	burst := requestsPerSecond

	return func(c *gin.Context) {
		ip := c.ClientIP()
		prefix := "flagdeck:ratelimit:" + ip
		now := float64(time.Now().UnixMicro()) / 1e6

		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()

		result, err := bucketScript.Run(ctx, rdb,
			[]string{prefix + ":tokens", prefix + ":ts"},
			float64(requestsPerSecond), float64(burst), now, 1,
		).Result()

		c.Header("X-RateLimit-Limit", strconv.Itoa(requestsPerSecond))

		if err != nil {
			logger.Warn("redis rate limit failed, switching to local fallback",
				zap.Error(err),
				zap.String("ip", ip))

			limiter := fallbackPool.get(ip, rate.Limit(requestsPerSecond), burst)
			if !limiter.Allow() {
				c.Header("X-RateLimit-Remaining", "0")
				c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too Many Requests"})
				return
			}
			c.Header("X-RateLimit-Remaining", strconv.Itoa(int(limiter.Tokens())))
			c.Next()
			return
		}

		res, ok := result.([]any)
		if !ok || len(res) != 3 {
			logger.Error("invalid redis rate limit response", zap.Any("response", result))
			c.Next()
			return
		}

		allowed := asFloat(res[0]) == 1
		remaining := asFloat(res[1])
		resetAfter := asFloat(res[2])

		c.Header("X-RateLimit-Remaining", strconv.Itoa(int(remaining)))
		reset := time.Now().Add(time.Duration(resetAfter * float64(time.Second)))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(reset.Unix(), 10))

		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too Many Requests"})
			return
		}

		c.Next()
	}
}

func asFloat(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case int64:
		return float64(val)
	default:
		return 0
	}
}

package middleware

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/iliyamo/fyyur/internal/config"
)

// Token bucket kept in a Redis hash so every process shares it.
var limiterScript = redis.NewScript(`
	local key = KEYS[1]
	local now_ms = tonumber(ARGV[1])
	local capacity = tonumber(ARGV[2])
	local refill_tokens = tonumber(ARGV[3])
	local interval_ms = tonumber(ARGV[4])
	local ttl_seconds = tonumber(ARGV[5])

	local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
	local tokens = tonumber(state[1])
	local last_refill = tonumber(state[2])

	if tokens == nil or last_refill == nil then
		tokens = capacity
		last_refill = now_ms
	end

	if interval_ms > 0 and refill_tokens > 0 then
		local elapsed = math.max(0, now_ms - last_refill)
		local intervals = math.floor(elapsed / interval_ms)
		if intervals > 0 then
			tokens = math.min(capacity, tokens + (intervals * refill_tokens))
			last_refill = last_refill + (intervals * interval_ms)
		end
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

// NewTokenBucket limits requests per client IP.  With a Redis client the
// bucket lives in Redis; otherwise each process keeps an in-memory
// limiter per IP.  Blocked requests get 429 with Retry-After.
func NewTokenBucket(cfg config.RateLimitConfig, rdb *redis.Client, log logrus.FieldLogger) echo.MiddlewareFunc {
	if !cfg.Enabled {
		return passThrough
	}
	cfg = cfg.Normalized()
	if rdb == nil {
		b := newLocalBucket(cfg)
		go b.janitor()
		return b.middleware
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := rateKey(cfg, c)
			args := []interface{}{
				time.Now().UnixMilli(),
				cfg.Capacity,
				cfg.RefillTokens,
				cfg.RefillInterval.Milliseconds(),
				int64(cfg.TTL / time.Second),
			}
			vals, err := limiterScript.Run(c.Request().Context(), rdb, []string{key}, args...).Result()
			if err != nil {
				// Fail open when Redis is unavailable.
				log.WithError(err).WithField("key", key).Warn("ratelimit: redis error")
				return next(c)
			}
			arr, ok := vals.([]interface{})
			if !ok || len(arr) != 3 {
				log.WithField("result", fmt.Sprintf("%#v", vals)).Warn("ratelimit: unexpected script result")
				return next(c)
			}
			allowed := asInt64(arr[0]) == 1
			remaining := asInt64(arr[1])
			retryMs := asInt64(arr[2])

			c.Response().Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.Capacity))
			c.Response().Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
			if !allowed {
				if cfg.Debug {
					log.WithFields(logrus.Fields{"key": key, "retry_ms": retryMs}).Info("ratelimit: blocked")
				}
				return tooManyRequests(c, time.Duration(retryMs)*time.Millisecond)
			}
			return next(c)
		}
	}
}

// localBucket is the in-process fallback: one rate.Limiter per client
// IP.  Idle limiters are swept by a background ticker.
type localBucket struct {
	cfg     config.RateLimitConfig
	every   rate.Limit
	mu      sync.Mutex
	clients map[string]*localEntry
}

type localEntry struct {
	lim  *rate.Limiter
	seen time.Time
}

func newLocalBucket(cfg config.RateLimitConfig) *localBucket {
	return &localBucket{
		cfg:     cfg,
		every:   rate.Every(cfg.RefillInterval / time.Duration(cfg.RefillTokens)),
		clients: map[string]*localEntry{},
	}
}

func (b *localBucket) limiter(ip string, now time.Time) *rate.Limiter {
	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.clients[ip]
	if !ok {
		e = &localEntry{lim: rate.NewLimiter(b.every, b.cfg.Capacity)}
		b.clients[ip] = e
	}
	e.seen = now
	return e.lim
}

// sweep drops limiters idle for longer than cfg.TTL.
func (b *localBucket) sweep(now time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ip, e := range b.clients {
		if now.Sub(e.seen) > b.cfg.TTL {
			delete(b.clients, ip)
		}
	}
}

// janitor sweeps once per TTL for the life of the process.
func (b *localBucket) janitor() {
	t := time.NewTicker(b.cfg.TTL)
	defer t.Stop()
	for now := range t.C {
		b.sweep(now)
	}
}

func (b *localBucket) middleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		now := time.Now()
		lim := b.limiter(clientIP(c), now)
		c.Response().Header().Set("X-RateLimit-Limit", strconv.Itoa(b.cfg.Capacity))
		r := lim.ReserveN(now, 1)
		if delay := r.DelayFrom(now); delay > 0 {
			r.CancelAt(now)
			return tooManyRequests(c, delay)
		}
		c.Response().Header().Set("X-RateLimit-Remaining", strconv.Itoa(int(lim.TokensAt(now))))
		return next(c)
	}
}

func tooManyRequests(c echo.Context, retry time.Duration) error {
	secs := int(math.Ceil(retry.Seconds()))
	if secs < 0 {
		secs = 0
	}
	c.Response().Header().Set("Retry-After", strconv.Itoa(secs))
	return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
}

func rateKey(cfg config.RateLimitConfig, c echo.Context) string {
	return cfg.Prefix + ":ip:" + clientIP(c)
}

func clientIP(c echo.Context) string {
	if ip := c.RealIP(); ip != "" {
		return ip
	}
	return "unknown"
}

func asInt64(v interface{}) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case int:
		return int64(t)
	case float64:
		return int64(t)
	case string:
		if n, err := strconv.ParseInt(t, 10, 64); err == nil {
			return n
		}
	}
	return 0
}

package middleware

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/event-analytics/internal/config"
	"github.com/iliyamo/event-analytics/internal/logging"
)

// takeToken refills the bucket in KEYS[1] for the time elapsed since its
// last update, then tries to take one token.
//
//	ARGV: now_ms, capacity, refill_tokens, interval_ms, ttl_ms
//	returns {allowed (0|1), tokens left, wait_ms}
var takeToken = redis.NewScript(`
local now, cap = tonumber(ARGV[1]), tonumber(ARGV[2])
local refill, interval = tonumber(ARGV[3]), tonumber(ARGV[4])
local s = redis.call('HMGET', KEYS[1], 'tokens', 'ts')
local tokens = tonumber(s[1]) or cap
local ts = tonumber(s[2]) or now
tokens = math.min(cap, tokens + math.max(0, now - ts) * refill / interval)
local allowed, wait = 0, 0
if tokens >= 1 then
	allowed = 1
	tokens = tokens - 1
else
	wait = math.ceil((1 - tokens) * interval / refill)
end
redis.call('HSET', KEYS[1], 'tokens', tostring(tokens), 'ts', ARGV[1])
redis.call('PEXPIRE', KEYS[1], ARGV[5])
return {allowed, math.floor(tokens), wait}
`)

var errUnexpectedScriptResult = errors.New("ratelimit: unexpected script result")

// decision is the outcome of one takeToken call.
type decision struct {
	allowed   bool
	remaining int64
	wait      time.Duration
}

type bucket struct {
	cfg config.RateLimitConfig
	rdb *redis.Client
	now func() time.Time
}

func (b *bucket) take(ctx context.Context, key string) (decision, error) {
	vals, err := takeToken.Run(ctx, b.rdb, []string{key},
		b.now().UnixMilli(),
		b.cfg.Capacity,
		max(b.cfg.RefillTokens, 1),
		max(b.cfg.RefillInterval.Milliseconds(), 1),
		b.cfg.TTL.Milliseconds(),
	).Int64Slice()
	if err != nil {
		return decision{}, err
	}
	if len(vals) != 3 {
		return decision{}, errUnexpectedScriptResult
	}
	return decision{
		allowed:   vals[0] == 1,
		remaining: vals[1],
		wait:      time.Duration(vals[2]) * time.Millisecond,
	}, nil
}

// NewTokenBucket limits each client with a token bucket held in Redis.
// With the default "ip_report" strategy every report gets its own bucket
// per client, and all chart images share one; "ip" gives a client a single
// bucket.  A Redis failure lets the request through.
func NewTokenBucket(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
	return newTokenBucket(cfg, rdb, time.Now)
}

func newTokenBucket(cfg config.RateLimitConfig, rdb *redis.Client, now func() time.Time) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	b := &bucket{cfg: cfg, rdb: rdb, now: now}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := rateKey(cfg, c)
			d, err := b.take(c.Request().Context(), key)
			if err != nil {
				logging.Warn().Err(err).Str("key", key).Msg("ratelimit: redis error, allowing request")
				return next(c)
			}

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(cfg.Capacity))
			h.Set("X-RateLimit-Remaining", strconv.FormatInt(d.remaining, 10))
			if d.allowed {
				return next(c)
			}

			secs := int(math.Ceil(d.wait.Seconds()))
			h.Set("Retry-After", strconv.Itoa(secs))
			logging.Debug().Str("key", key).Dur("wait", d.wait).Msg("ratelimit: blocked")
			return c.JSON(http.StatusTooManyRequests, echo.Map{
				"error":       "too_many_requests",
				"retry_after": secs,
			})
		}
	}
}

// rateKey names the bucket for a request: <prefix>:ip:<client>[:<scope>].
func rateKey(cfg config.RateLimitConfig, c echo.Context) string {
	ip := c.RealIP()
	if ip == "" {
		ip = "unknown"
	}
	key := cfg.Prefix + ":ip:" + ip
	if strings.EqualFold(cfg.KeyStrategy, "ip") {
		return key
	}
	return key + ":" + rateScope(c)
}

// rateScope is "report:<name>" for a report, "charts" for any chart image
// and the route pattern for everything else.
func rateScope(c echo.Context) string {
	route := c.Path()
	switch {
	case strings.HasSuffix(route, "/reports/:name"):
		return "report:" + c.Param("name")
	case strings.HasSuffix(route, "/charts/:file"):
		return "charts"
	case route == "":
		return "unrouted"
	}
	return "route:" + route
}

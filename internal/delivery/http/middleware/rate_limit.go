package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"talent-marketplace-backend/internal/delivery/http/response"
	"talent-marketplace-backend/internal/domain"
	"talent-marketplace-backend/pkg/redis"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type RateLimitConfig struct {
	Limit  int
	Window time.Duration
	// KeyPrefix namespaces the counters of one limiter in the shared store.
	KeyPrefix string
	KeyFunc   func(*gin.Context) string
	// FailClosed rejects requests when Redis errors instead of counting in memory.
	FailClosed bool
}

// DefaultRateLimitConfig caps every route per client IP.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Limit:     100,
		Window:    time.Minute,
		KeyPrefix: "rl:ip:",
		KeyFunc:   func(c *gin.Context) string { return c.ClientIP() },
	}
}

// WriteRateLimitConfig limits state-changing calls per profile (apply,
// review, status changes). It must run after AuthMiddleware.
func WriteRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Limit:     30,
		Window:    time.Minute,
		KeyPrefix: "rl:write:",
		KeyFunc: func(c *gin.Context) string {
			if id := c.GetString(domain.KeyProfileID); id != "" {
				return id
			}
			return c.ClientIP()
		},
	}
}

// counterStore counts hits of key within a fixed window starting at the first hit.
type counterStore interface {
	Hit(ctx context.Context, key string, window time.Duration) (count int, resetAt time.Time, err error)
}

// incrScript increments a counter and arms its expiry on the first hit.
// Returns {count, ttl_seconds}.
const incrScript = `
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
return {count, redis.call('TTL', KEYS[1])}
`

type redisCounter struct {
	client *goredis.Client
}

func (r redisCounter) Hit(ctx context.Context, key string, window time.Duration) (int, time.Time, error) {
	res, err := r.client.Eval(ctx, incrScript, []string{key}, int(window.Seconds())).Int64Slice()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("rate limit counter: %w", err)
	}
	if len(res) != 2 {
		return 0, time.Time{}, fmt.Errorf("rate limit counter: unexpected reply %v", res)
	}
	return int(res[0]), time.Now().Add(time.Duration(res[1]) * time.Second), nil
}

type memoryWindow struct {
	count   int
	resetAt time.Time
}

// memoryCounter backs a single instance when Redis is not configured.
// Expired windows are pruned whenever the map doubles since the last prune.
type memoryCounter struct {
	mu        sync.Mutex
	windows   map[string]*memoryWindow
	pruneSize int
	now       func() time.Time
}

func newMemoryCounter() *memoryCounter {
	return &memoryCounter{windows: make(map[string]*memoryWindow), pruneSize: 1024, now: time.Now}
}

func (m *memoryCounter) Hit(_ context.Context, key string, window time.Duration) (int, time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	w, ok := m.windows[key]
	if !ok || !now.Before(w.resetAt) {
		w = &memoryWindow{resetAt: now.Add(window)}
		m.windows[key] = w
		if len(m.windows) >= m.pruneSize {
			m.prune(now)
		}
	}
	w.count++
	return w.count, w.resetAt, nil
}

func (m *memoryCounter) prune(now time.Time) {
	for k, w := range m.windows {
		if !now.Before(w.resetAt) {
			delete(m.windows, k)
		}
	}
	m.pruneSize = max(1024, 2*len(m.windows))
}

// RateLimitMiddleware counts in Redis when it is connected, in process memory otherwise.
func RateLimitMiddleware(config RateLimitConfig, log *zap.Logger) gin.HandlerFunc {
	return rateLimit(config, func() counterStore {
		if c := redis.Client(); c != nil {
			return redisCounter{client: c}
		}
		return nil
	}, newMemoryCounter(), log)
}

// GlobalRateLimitMiddleware applies DefaultRateLimitConfig to every route.
func GlobalRateLimitMiddleware(log *zap.Logger) gin.HandlerFunc {
	return RateLimitMiddleware(DefaultRateLimitConfig(), log)
}

func rateLimit(config RateLimitConfig, shared func() counterStore, local *memoryCounter, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := config.KeyPrefix + config.KeyFunc(c)

		store := shared()
		if store == nil {
			store = local
		}
		count, resetAt, err := store.Hit(c.Request.Context(), key, config.Window)
		if err != nil {
			log.Warn("redis rate limit unavailable", zap.Error(err))
			if config.FailClosed {
				response.Error(c, http.StatusServiceUnavailable, "Service temporarily unavailable. Please try again.", nil)
				c.Abort()
				return
			}
			count, resetAt, _ = local.Hit(c.Request.Context(), key, config.Window)
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(config.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(max(0, config.Limit-count)))
		c.Header("X-RateLimit-Reset", resetAt.UTC().Format(time.RFC3339))

		if count > config.Limit {
			c.Header("Retry-After", strconv.Itoa(max(1, int(time.Until(resetAt).Seconds()))))
			log.Warn("rate limit triggered",
				zap.String("request_id", c.GetString(response.RequestIDKey)),
				zap.String("key", key),
				zap.String("path", c.FullPath()),
			)
			response.Error(c, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

package middleware

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"gridjump/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const CodeRateLimited = "ERR_RATE_LIMITED"

// RateLimiter - счетчик запросов в фиксированном окне.
// С redis окно общее для всех инстансов, без него считаем в памяти процесса.
type RateLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	now    func() time.Time

	mu      sync.Mutex
	buckets map[string]*bucket
}

type bucket struct {
	window int64
	count  int
}

// InitRedisRateLimiter подключается к redis; пустой addr или недоступный
// сервер - лимитер работает в памяти
func InitRedisRateLimiter(addr, password string, db, perMinute int) *RateLimiter {
	rl := NewMemoryRateLimiter(perMinute, time.Minute)
	if addr == "" {
		logger.Info("rate limiter: in-memory", "limit", perMinute)
		return rl
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("rate limiter: redis unavailable, falling back to memory", "addr", addr, "error", err)
		_ = client.Close()
		return rl
	}

	rl.client = client
	logger.Info("rate limiter: redis", "addr", addr, "limit", perMinute)
	return rl
}

func NewMemoryRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:   limit,
		window:  window,
		now:     time.Now,
		buckets: make(map[string]*bucket),
	}
}

// Allow засчитывает запрос и говорит, укладывается ли он в лимит
func (rl *RateLimiter) Allow(ctx context.Context, key string) bool {
	if rl.limit <= 0 {
		return true
	}
	window := rl.now().UnixNano() / int64(rl.window)

	if rl.client != nil {
		n, err := rl.incrRedis(ctx, fmt.Sprintf("ratelimit:%s:%d", key, window))
		if err == nil {
			return n <= int64(rl.limit)
		}
		logger.Warn("rate limiter: redis error, counting locally", "error", err)
	}
	return rl.incrMemory(key, window) <= rl.limit
}

func (rl *RateLimiter) incrRedis(ctx context.Context, key string) (int64, error) {
	pipe := rl.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, rl.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

func (rl *RateLimiter) incrMemory(key string, window int64) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, ok := rl.buckets[key]
	if !ok || b.window != window {
		if len(rl.buckets) > 10000 {
			rl.prune(window)
		}
		b = &bucket{window: window}
		rl.buckets[key] = b
	}
	b.count++
	return b.count
}

// prune выкидывает счетчики прошлых окон, вызывается под rl.mu
func (rl *RateLimiter) prune(window int64) {
	for k, b := range rl.buckets {
		if b.window != window {
			delete(rl.buckets, k)
		}
	}
}

func (rl *RateLimiter) Close() error {
	if rl.client == nil {
		return nil
	}
	return rl.client.Close()
}

// Middleware ограничивает запросы по ip клиента и маршруту
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP() + ":" + c.FullPath()
		if !rl.Allow(c.Request.Context(), key) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": CodeRateLimited})
			return
		}
		c.Next()
	}
}

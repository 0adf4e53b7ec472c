package http

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/allisson/vault/internal/httputil"
)

const (
	limiterCleanupInterval = 5 * time.Minute
	limiterIdleTTL         = time.Hour
)

// ipRateLimiter keeps one token bucket per client IP.
type ipRateLimiter struct {
	limiters sync.Map // map[string]*rateLimiterEntry
	rps      float64
	burst    int
	logger   *slog.Logger

	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

type rateLimiterEntry struct {
	limiter    *rate.Limiter
	mu         sync.Mutex
	lastAccess time.Time
}

// newIPRateLimiter starts the stale-entry sweeper; Close stops it.
func newIPRateLimiter(rps float64, burst int, logger *slog.Logger) *ipRateLimiter {
	return newIPRateLimiterWithCleanup(rps, burst, logger, limiterCleanupInterval, limiterIdleTTL)
}

func newIPRateLimiterWithCleanup(
	rps float64,
	burst int,
	logger *slog.Logger,
	interval, idleTTL time.Duration,
) *ipRateLimiter {
	ctx, cancel := context.WithCancel(context.Background())
	l := &ipRateLimiter{
		rps:    rps,
		burst:  burst,
		logger: logger,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go l.cleanupStale(ctx, interval, idleTTL)
	return l
}

// Middleware rejects requests over the per-IP budget with 429 and Retry-After.
func (l *ipRateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := c.ClientIP()
		limiter := l.getLimiter(clientIP)

		if !limiter.Allow() {
			reservation := limiter.Reserve()
			retryAfter := int(math.Ceil(reservation.Delay().Seconds()))
			reservation.Cancel()

			l.logger.Debug("rate limit exceeded",
				slog.String("client_ip", clientIP),
				slog.Int("retry_after", retryAfter))

			c.Header("Retry-After", fmt.Sprintf("%d", retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, httputil.ErrorResponse{
				Error:   "rate_limit_exceeded",
				Message: "Too many requests. Please retry after the specified delay.",
			})
			return
		}

		c.Next()
	}
}

func (l *ipRateLimiter) getLimiter(key string) *rate.Limiter {
	now := time.Now()
	if val, ok := l.limiters.Load(key); ok {
		entry := val.(*rateLimiterEntry)
		entry.mu.Lock()
		entry.lastAccess = now
		entry.mu.Unlock()
		return entry.limiter
	}

	entry := &rateLimiterEntry{
		limiter:    rate.NewLimiter(rate.Limit(l.rps), l.burst),
		lastAccess: now,
	}
	actual, _ := l.limiters.LoadOrStore(key, entry)
	return actual.(*rateLimiterEntry).limiter
}

// cleanupStale drops limiters that have been idle longer than idleTTL.
func (l *ipRateLimiter) cleanupStale(ctx context.Context, interval, idleTTL time.Duration) {
	defer close(l.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			threshold := time.Now().Add(-idleTTL)
			l.limiters.Range(func(key, value any) bool {
				entry := value.(*rateLimiterEntry)
				entry.mu.Lock()
				stale := entry.lastAccess.Before(threshold)
				entry.mu.Unlock()

				if stale {
					l.limiters.Delete(key)
				}
				return true
			})
		}
	}
}

// size reports how many client IPs are tracked.
func (l *ipRateLimiter) size() int {
	n := 0
	l.limiters.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// Close stops the sweeper and waits for it to exit.
func (l *ipRateLimiter) Close() {
	l.once.Do(func() {
		l.cancel()
		<-l.done
	})
}

package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/d60-Lab/anontalk/pkg/response"
)

// PerHumanLimiter 按用户的令牌桶；必须挂在 Auth 之后
type PerHumanLimiter struct {
	mu       sync.Mutex
	limiters map[uint64]*limiterEntry
	every    rate.Limit
	burst    int
	idle     time.Duration
}

type limiterEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// NewPerHumanLimiter perMinute<=0 时不限流
func NewPerHumanLimiter(perMinute, burst int) *PerHumanLimiter {
	every := rate.Inf
	if perMinute > 0 {
		every = rate.Every(time.Minute / time.Duration(perMinute))
	}
	if burst <= 0 {
		burst = 1
	}
	return &PerHumanLimiter{limiters: map[uint64]*limiterEntry{}, every: every, burst: burst, idle: 10 * time.Minute}
}

func (l *PerHumanLimiter) Allow(id uint64) bool {
	now := time.Now()
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.limiters[id]
	if !ok {
		e = &limiterEntry{lim: rate.NewLimiter(l.every, l.burst)}
		l.limiters[id] = e
		l.sweep(now)
	}
	e.lastSeen = now
	return e.lim.AllowN(now, 1)
}

// sweep 清理长时间未出现的用户
func (l *PerHumanLimiter) sweep(now time.Time) {
	for id, e := range l.limiters {
		if now.Sub(e.lastSeen) > l.idle && !e.lastSeen.IsZero() {
			delete(l.limiters, id)
		}
	}
}

func (l *PerHumanLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.Allow(c.GetUint64(HumanIDKey)) {
			response.TooManyRequests(c)
			return
		}
		c.Next()
	}
}

package middleware

import (
	"ComputexChatbot/pkg/response"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

var (
	ErrTooManyRequests = response.NewError(http.StatusTooManyRequests, "too many requests")
)

// limiterIdleTTL is how long a client IP may stay silent before its bucket
// is dropped.
const limiterIdleTTL = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64
}

type rateLimiter struct {
	bucket    map[string]*visitor
	rate      rate.Limit
	burstSize int
	mutex     *sync.RWMutex
	idleTTL   time.Duration
	lastSweep time.Time
	now       func() time.Time
}

func newRateLimiter(reqRate rate.Limit, burstSize int) *rateLimiter {
	return &rateLimiter{
		bucket:    make(map[string]*visitor),
		rate:      reqRate,
		burstSize: burstSize,
		mutex:     &sync.RWMutex{},
		idleTTL:   limiterIdleTTL,
		now:       time.Now,
	}
}

func (r *rateLimiter) enabled() bool {
	return r.rate > 0 && r.burstSize > 0
}

func (r *rateLimiter) GetLimiterFrom(ip string) *rate.Limiter {
	now := r.now()

	r.mutex.RLock()
	v, exist := r.bucket[ip]
	r.mutex.RUnlock()
	if exist {
		v.lastSeen.Store(now.UnixNano())
		return v.limiter
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	// Only inserts grow the map, so idle buckets are swept here.
	if now.Sub(r.lastSweep) >= r.idleTTL {
		r.evictIdle(now)
		r.lastSweep = now
	}

	v, exist = r.bucket[ip]
	if !exist {
		v = &visitor{limiter: rate.NewLimiter(r.rate, r.burstSize)}
		r.bucket[ip] = v
	}
	v.lastSeen.Store(now.UnixNano())

	return v.limiter
}

// evictIdle must be called with the write lock held.
func (r *rateLimiter) evictIdle(now time.Time) {
	cutoff := now.Add(-r.idleTTL).UnixNano()
	for ip, v := range r.bucket {
		if v.lastSeen.Load() < cutoff {
			delete(r.bucket, ip)
		}
	}
}

func (r *rateLimiter) size() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return len(r.bucket)
}

func (m *middleware) NewRateLimiter(ctx *fiber.Ctx) error {
	if !m.rateLimitter.enabled() {
		return ctx.Next()
	}

	clientIP := ctx.IP()
	limiter := m.rateLimitter.GetLimiterFrom(clientIP)

	if !limiter.Allow() {
		m.log.WithFields(logrus.Fields{
			"request_id": m.GetRequestID(ctx),
			"client_ip":  clientIP,
			"path":       ctx.Path(),
		}).Warn("Too many requests")
		return ctx.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"error": ErrTooManyRequests.Error(),
		})
	}

	return ctx.Next()
}

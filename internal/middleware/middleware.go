package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

type Middleware interface {
	NewRateLimiter(ctx *fiber.Ctx) error
	NewAdminTokenMiddleware(ctx *fiber.Ctx) error
	NewRequestIDMiddleware() fiber.Handler
	GetRequestID(ctx *fiber.Ctx) string
}

// Config tunes the per-IP limiter and the admin guard. An empty AdminSecret
// leaves admin routes open.
type Config struct {
	RateLimitRPS   float64
	RateLimitBurst int
	AdminSecret    string
}

type middleware struct {
	admin               *adminGuard
	rateLimitter        *rateLimiter
	requestIDMiddleware fiber.Handler
	log                 *logrus.Logger
}

func New(logger *logrus.Logger, cfg Config) Middleware {
	rateLimit := newRateLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)
	admin := newAdminGuard(cfg.AdminSecret)
	requestID := NewRequestIDMiddleware()

	return &middleware{
		admin:               admin,
		rateLimitter:        rateLimit,
		requestIDMiddleware: requestID,
		log:                 logger,
	}
}

func (m *middleware) GetRequestID(ctx *fiber.Ctx) string {
	requestID, ok := ctx.Locals(RequestIDKey).(string)
	if !ok || requestID == "" {
		return "unknown"
	}
	return requestID
}

func (m *middleware) NewRequestIDMiddleware() fiber.Handler {
	return m.requestIDMiddleware
}

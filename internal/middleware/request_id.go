package middleware

import (
	"ComputexChatbot/pkg/utils"
	"time"

	"github.com/gofiber/fiber/v2"
)

const (
	RequestIDKey       = "X-Request-ID"
	maxRequestIDLength = 64
)

func NewRequestIDMiddleware() fiber.Handler {
	utilsInstance := utils.New()

	return func(c *fiber.Ctx) error {
		requestID := c.Get(RequestIDKey)

		if requestID == "" || len(requestID) > maxRequestIDLength {
			requestID, _ = utilsInstance.NewULIDFromTimestamp(time.Now())
		}

		c.Locals(RequestIDKey, requestID)
		c.Set(RequestIDKey, requestID)

		return c.Next()
	}
}

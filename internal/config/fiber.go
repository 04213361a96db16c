package config

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

func NewFiber(logger *logrus.Logger) *fiber.App {
	app := fiber.New(
		fiber.Config{
			AppName:          "ChatBot Computex API",
			BodyLimit:        1 * 1024 * 1024,
			ReadTimeout:      30 * time.Second,
			WriteTimeout:     30 * time.Second,
			DisableKeepalive: false,
			StrictRouting:    true,
			CaseSensitive:    true,
			JSONEncoder:      jsoniter.Marshal,
			JSONDecoder:      jsoniter.Unmarshal,
			ErrorHandler: func(c *fiber.Ctx, err error) error {
				code := fiber.StatusInternalServerError
				var fiberErr *fiber.Error
				if errors.As(err, &fiberErr) {
					code = fiberErr.Code
				}

				if code >= fiber.StatusInternalServerError {
					logger.WithFields(logrus.Fields{
						"path":  c.Path(),
						"error": err.Error(),
					}).Error("Unhandled error")
				}

				return c.Status(code).JSON(fiber.Map{
					"error": err.Error(),
				})
			},
		})

	return app
}

package handlerUtil

import (
	"ComputexChatbot/internal/api/chatbot"
	"ComputexChatbot/pkg/log"
	"ComputexChatbot/pkg/response"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/sirupsen/logrus"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

type ErrorHandler struct {
	logger *logrus.Logger
}

func New(logger *logrus.Logger) *ErrorHandler {
	return &ErrorHandler{
		logger: logger,
	}
}

func (h *ErrorHandler) Handle(c *fiber.Ctx, requestID string, err error, path string, operation string) error {
	fields := log.Fields{
		"request_id": requestID,
		"error":      err.Error(),
		"path":       path,
		"operation":  operation,
	}

	// Chatbot domain errors
	if errors.Is(err, chatbot.ErrSessionNotFound) || errors.Is(err, chatbot.ErrEmptyHistory) {
		h.logger.WithFields(fields).Warn("Session not found")
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error: "Sesión no encontrada",
			Code:  "SESSION_NOT_FOUND",
		})
	}

	if errors.Is(err, chatbot.ErrSessionStore) {
		h.logger.WithFields(fields).Error("Session store failure")
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: "Error procesando el mensaje",
			Code:  "SESSION_STORE_ERROR",
		})
	}

	status := response.StatusOf(err)
	if status >= fiber.StatusInternalServerError {
		fields["status"] = status
		traceID := log.ErrorWithTraceID(fields, "Unexpected error")
		return c.Status(status).JSON(ErrorResponse{
			Error:   "An unexpected error occurred",
			Details: "trace_id: " + traceID,
		})
	}

	fields["code"] = status
	h.logger.WithFields(fields).Warn("Operation failed with error response")
	return c.Status(status).JSON(ErrorResponse{Error: err.Error()})
}

func (h *ErrorHandler) HandleValidationError(c *fiber.Ctx, requestID string, err error, path string) error {
	h.logger.WithFields(log.Fields{
		"request_id": requestID,
		"error":      err.Error(),
		"path":       path,
	}).Warn("Validation failed")

	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Error: "Validation failed: " + err.Error(),
		Code:  "VALIDATION_ERROR",
	})
}

func (h *ErrorHandler) HandleRequestTimeout(c *fiber.Ctx) error {
	return c.Status(fiber.StatusRequestTimeout).JSON(utils.StatusMessage(fiber.StatusRequestTimeout))
}

func (h *ErrorHandler) HandleUnauthorized(c *fiber.Ctx, requestID string, message string) error {
	h.logger.WithFields(log.Fields{
		"request_id": requestID,
		"path":       c.Path(),
		"message":    message,
	}).Warn("Unauthorized access")

	return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
		Error: message,
		Code:  "UNAUTHORIZED",
	})
}

func (h *ErrorHandler) HandleSuccess(c *fiber.Ctx, statusCode int, data interface{}) error {
	if data == nil {
		return c.SendStatus(statusCode)
	}
	return c.Status(statusCode).JSON(data)
}

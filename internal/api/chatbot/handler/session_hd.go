package chatbotHandler

import (
	"ComputexChatbot/internal/api/chatbot"
	chatbotService "ComputexChatbot/internal/api/chatbot/service"
	contextPkg "ComputexChatbot/pkg/context"
	"ComputexChatbot/pkg/handlerUtil"
	"ComputexChatbot/pkg/log"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"
)

func (h *ChatbotHandler) GetHistory(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 5*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	res, err := h.chatbotService.GetHistory(c, ctx.Params("session_id"))
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_history")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, res)
}

func (h *ChatbotHandler) GetSession(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 5*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	res, err := h.chatbotService.GetSession(c, ctx.Params("session_id"))
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_session")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, res)
}

func (h *ChatbotHandler) ListSessions(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	res, err := h.chatbotService.ListSessions(c, ctx.QueryBool("active_only", false))
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "list_sessions")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, res)
	}
}

// GetStats reports session totals. categories_count holds one entry per bot
// reply category; user turns are not tallied there.
func (h *ChatbotHandler) GetStats(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	res, err := h.chatbotService.GetStats(c)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_stats")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, res)
}

func (h *ChatbotHandler) Cleanup(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 30*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	hours, err := h.utils.ParseHours(ctx.Query("hours"), chatbotService.DefaultCleanupHours)
	if err != nil {
		return errHandler.Handle(ctx, requestID, chatbot.ErrInvalidHours, ctx.Path(), "cleanup")
	}

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"hours":      hours,
	}).Info("Cleaning up idle sessions")

	res, err := h.chatbotService.Cleanup(c, hours)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "cleanup")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, res)
	}
}

func (h *ChatbotHandler) Health(ctx *fiber.Ctx) error {
	return ctx.JSON(h.chatbotService.Health(contextPkg.FromFiberCtx(ctx)))
}

func (h *ChatbotHandler) Keywords(ctx *fiber.Ctx) error {
	return ctx.JSON(h.chatbotService.Keywords(contextPkg.FromFiberCtx(ctx)))
}

func (h *ChatbotHandler) Info(ctx *fiber.Ctx) error {
	return ctx.JSON(h.chatbotService.Info(contextPkg.FromFiberCtx(ctx)))
}

func (h *ChatbotHandler) Root(ctx *fiber.Ctx) error {
	return ctx.JSON(fiber.Map{
		"message": "Bienvenido a la API del ChatBot Computex",
		"endpoints": fiber.Map{
			"chat":     "/api/chatbot/chat (POST)",
			"analyze":  "/api/chatbot/analyze (POST)",
			"history":  "/api/chatbot/history/:session_id (GET)",
			"sessions": "/api/chatbot/sessions (GET)",
			"health":   "/api/chatbot/health (GET)",
			"stats":    "/api/chatbot/stats (GET)",
			"keywords": "/api/chatbot/keywords (GET)",
			"ws":       "/api/chatbot/ws (WebSocket)",
			"info":     "/info (GET)",
		},
	})
}

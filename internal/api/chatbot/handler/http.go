package chatbotHandler

import (
	chatbotService "ComputexChatbot/internal/api/chatbot/service"
	"ComputexChatbot/internal/middleware"
	"ComputexChatbot/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
)

type ChatbotHandler struct {
	log            *logrus.Logger
	validator      *validator.Validate
	middleware     middleware.Middleware
	chatbotService chatbotService.IChatbotService
	utils          utils.IUtils
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	cs chatbotService.IChatbotService,
	utils utils.IUtils,
) *ChatbotHandler {
	return &ChatbotHandler{
		log:            log,
		validator:      validate,
		middleware:     middleware,
		chatbotService: cs,
		utils:          utils,
	}
}

func (h *ChatbotHandler) Start(srv fiber.Router) {
	wsMiddleware := func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}

	chatbot := srv.Group("/chatbot")

	chatbot.Post("/chat", h.Chat)
	chatbot.Post("/analyze", h.Analyze)

	chatbot.Get("/history/:session_id", h.GetHistory)
	chatbot.Get("/session/:session_id", h.GetSession)
	chatbot.Get("/sessions", h.ListSessions)
	chatbot.Get("/stats", h.GetStats)
	chatbot.Delete("/cleanup", h.middleware.NewAdminTokenMiddleware, h.Cleanup)

	chatbot.Get("/health", h.Health)
	chatbot.Get("/keywords", h.Keywords)

	chatbot.Use("/ws", wsMiddleware)
	chatbot.Get("/ws", websocket.New(h.handleChatWebSocket))
}

// StartPublic mounts the unprefixed landing routes.
func (h *ChatbotHandler) StartPublic(app fiber.Router) {
	app.Get("/", h.Root)
	app.Get("/info", h.Info)
}

package chatbotHandler

import (
	"ComputexChatbot/internal/api/chatbot"
	"ComputexChatbot/internal/middleware"
	contextPkg "ComputexChatbot/pkg/context"
	"ComputexChatbot/pkg/handlerUtil"
	"ComputexChatbot/pkg/log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"golang.org/x/net/context"
)

const (
	chatTimeout      = 30 * time.Second
	wsReadTimeout    = 5 * time.Minute
	wsWriteTimeout   = 10 * time.Second
	wsMaxMessageSize = 4096
)

func (h *ChatbotHandler) Chat(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), chatTimeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing chat request")

	var req chatbot.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	res, err := h.chatbotService.Chat(c, req)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "chat")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, res)
	}
}

func (h *ChatbotHandler) Analyze(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 5*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	var req chatbot.AnalyzeRequest
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&req); err != nil {
			return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
		}
	}
	if req.Message == "" {
		req.Message = ctx.Query("message")
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	res, err := h.chatbotService.Analyze(c, req.Message)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "analyze")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, res)
}

// handleChatWebSocket treats every text frame as one chat message. The
// session carries over between frames; ?session_id= resumes an existing one.
func (h *ChatbotHandler) handleChatWebSocket(conn *websocket.Conn) {
	requestID, _ := conn.Locals(middleware.RequestIDKey).(string)
	sessionID := conn.Query("session_id")

	logger := h.log.WithFields(log.Fields{
		"request_id": requestID,
	})
	logger.Info("Chat WebSocket client connected")
	defer logger.Info("Chat WebSocket client disconnected")

	conn.SetReadLimit(wsMaxMessageSize)

	for {
		if err := conn.SetReadDeadline(time.Now().Add(wsReadTimeout)); err != nil {
			logger.Errorf("Error setting read deadline: %v", err)
			return
		}

		messageType, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warnf("Chat WebSocket error: %v", err)
			}
			return
		}

		if messageType != websocket.TextMessage {
			continue
		}

		var payload interface{}
		text := strings.TrimSpace(string(message))
		if text == "" {
			payload = handlerUtil.ErrorResponse{Error: chatbot.ErrEmptyMessage.Error(), Code: "VALIDATION_ERROR"}
		} else {
			c, cancel := context.WithTimeout(contextPkg.WithRequestID(context.Background(), requestID), chatTimeout)
			res, err := h.chatbotService.Chat(c, chatbot.ChatRequest{Message: text, SessionID: sessionID})
			cancel()

			if err != nil {
				logger.WithField("error", err.Error()).Warn("Chat over WebSocket failed")
				payload = handlerUtil.ErrorResponse{Error: err.Error()}
			} else {
				sessionID = res.SessionID
				payload = res
			}
		}

		if err := conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout)); err != nil {
			logger.Errorf("Error setting write deadline: %v", err)
			return
		}
		if err := conn.WriteJSON(payload); err != nil {
			logger.Errorf("Error writing chat response: %v", err)
			return
		}
	}
}

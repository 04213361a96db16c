package chatbotService

import (
	"ComputexChatbot/internal/api/chatbot"
	"ComputexChatbot/internal/entity"
	contextPkg "ComputexChatbot/pkg/context"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

func (s *chatbotService) Chat(ctx context.Context, req chatbot.ChatRequest) (*chatbot.ChatResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, chatbot.ErrEmptyMessage
	}

	start := s.now()

	if req.SessionID != "" {
		unlock := s.locks.lock(req.SessionID)
		defer unlock()
	}

	session, err := s.loadOrCreate(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}
	ctx = contextPkg.WithSessionID(ctx, session.ID)

	result := s.engine.Respond(ctx, message, &session.History)

	elapsed := s.now().Sub(start).Seconds()
	timestamp := s.now()

	var keyword *string
	if result.MatchedKeyword != "" {
		kw := result.MatchedKeyword
		keyword = &kw
	}

	userMessage := entity.ChatMessage{
		Type:           entity.MessageTypeUser,
		Message:        req.Message,
		ProcessingTime: elapsed,
		Timestamp:      timestamp,
	}
	botMessage := entity.ChatMessage{
		Type:           entity.MessageTypeBot,
		Message:        result.Response,
		Category:       result.Category,
		MatchedKeyword: keyword,
		ProcessingTime: elapsed,
		Timestamp:      timestamp,
	}

	session.Messages = append(session.Messages, userMessage, botMessage)
	session.LastActivity = timestamp

	if err := s.repo.SaveSession(ctx, session, userMessage, botMessage); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"session_id": session.ID,
			"error":      err.Error(),
		}).Error("Failed to save chat turn")
		return nil, chatbot.ErrSessionStore
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"session_id": session.ID,
		"intent":     result.Intent.String(),
		"category":   result.Category,
	}).Info("Chat turn processed")

	return &chatbot.ChatResponse{
		Response:       result.Response,
		SessionID:      session.ID,
		Category:       result.Category,
		MatchedKeyword: keyword,
		Timestamp:      timestamp,
		ProcessingTime: elapsed,
	}, nil
}

// loadOrCreate returns the stored session, or starts a fresh one under a new
// ID when sessionID is empty or unknown. Callers hold the lock for sessionID.
func (s *chatbotService) loadOrCreate(ctx context.Context, sessionID string) (entity.ChatSession, error) {
	requestID := contextPkg.GetRequestID(ctx)

	if sessionID != "" {
		session, err := s.repo.GetSession(ctx, sessionID)
		if err == nil {
			return session, nil
		}
		if !errors.Is(err, chatbot.ErrSessionNotFound) {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"session_id": sessionID,
				"error":      err.Error(),
			}).Error("Failed to load session")
			return entity.ChatSession{}, chatbot.ErrSessionStore
		}
	}

	now := s.now()
	session := entity.ChatSession{
		ID:           s.utils.NewSessionID(),
		Messages:     []entity.ChatMessage{},
		CreatedAt:    now,
		LastActivity: now,
	}

	if err := s.repo.CreateSession(ctx, session); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"session_id": session.ID,
			"error":      err.Error(),
		}).Error("Failed to create session")
		return entity.ChatSession{}, chatbot.ErrSessionStore
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"session_id": session.ID,
		"requested":  sessionID,
	}).Debug("Started new session")

	return session, nil
}

func (s *chatbotService) Analyze(ctx context.Context, message string) (*chatbot.AnalyzeResponse, error) {
	if strings.TrimSpace(message) == "" {
		return nil, chatbot.ErrEmptyMessage
	}

	start := s.now()
	analysis := s.engine.Analyze(message)
	elapsed := s.now().Sub(start)

	s.log.WithFields(logrus.Fields{
		"request_id": contextPkg.GetRequestID(ctx),
		"tokens":     len(analysis.Tokens),
		"category":   analysis.Category,
	}).Debug("Message analyzed")

	return &chatbot.AnalyzeResponse{
		Analysis:       analysis,
		ProcessingTime: fmt.Sprintf("%.4fs", elapsed.Seconds()),
	}, nil
}

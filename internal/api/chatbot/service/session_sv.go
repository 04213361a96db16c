package chatbotService

import (
	"ComputexChatbot/internal/api/chatbot"
	"ComputexChatbot/internal/entity"
	contextPkg "ComputexChatbot/pkg/context"
	"ComputexChatbot/pkg/nlp"
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

func (s *chatbotService) GetHistory(ctx context.Context, sessionID string) (*chatbot.HistoryResponse, error) {
	session, err := s.repo.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if len(session.Messages) == 0 {
		return nil, chatbot.ErrEmptyHistory
	}

	return &chatbot.HistoryResponse{
		SessionID:     session.ID,
		Messages:      session.Messages,
		TotalMessages: len(session.Messages),
	}, nil
}

func (s *chatbotService) GetSession(ctx context.Context, sessionID string) (*chatbot.SessionInfoResponse, error) {
	session, err := s.repo.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	return &chatbot.SessionInfoResponse{
		SessionID:     session.ID,
		CreatedAt:     session.CreatedAt,
		LastActivity:  session.LastActivity,
		TotalMessages: len(session.Messages),
		UserMessages:  session.CountByType(entity.MessageTypeUser),
		BotMessages:   session.CountByType(entity.MessageTypeBot),
		Messages:      session.Messages,
	}, nil
}

func (s *chatbotService) ListSessions(ctx context.Context, activeOnly bool) ([]chatbot.SessionSummary, error) {
	sessions, err := s.repo.ListSessions(ctx)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"error":      err.Error(),
		}).Error("Failed to list sessions")
		return nil, chatbot.ErrSessionStore
	}

	cutoff := s.now().Add(-listingActiveWindow)

	summaries := make([]chatbot.SessionSummary, 0, len(sessions))
	for _, session := range sessions {
		if activeOnly && !session.ActiveSince(cutoff) {
			continue
		}

		summaries = append(summaries, chatbot.SessionSummary{
			SessionID:    session.ID,
			MessageCount: len(session.Messages),
			CreatedAt:    session.CreatedAt,
			LastActivity: session.LastActivity,
		})
	}

	return summaries, nil
}

func (s *chatbotService) GetStats(ctx context.Context) (*entity.ChatStats, error) {
	stats, err := s.repo.GetStats(ctx, s.now().Add(-statsActiveWindow))
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"error":      err.Error(),
		}).Error("Failed to read stats")
		return nil, chatbot.ErrSessionStore
	}

	return &stats, nil
}

// Cleanup removes sessions idle for longer than hours.
func (s *chatbotService) Cleanup(ctx context.Context, hours int) (*chatbot.CleanupResponse, error) {
	if hours < 0 {
		return nil, chatbot.ErrInvalidHours
	}

	cutoff := s.now().Add(-time.Duration(hours) * time.Hour)

	removed, err := s.repo.DeleteIdleSessions(ctx, cutoff)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"hours":      hours,
			"error":      err.Error(),
		}).Error("Failed to clean up sessions")
		return nil, chatbot.ErrSessionStore
	}

	return &chatbot.CleanupResponse{
		Message: fmt.Sprintf("Sesiones mayores a %d horas eliminadas", hours),
		Hours:   hours,
		Removed: removed,
	}, nil
}

// RunCleanupWorker applies the cleanup policy every interval until ctx is
// cancelled. A non-positive interval disables the worker.
func (s *chatbotService) RunCleanupWorker(ctx context.Context, interval time.Duration, maxAgeHours int) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.log.WithFields(logrus.Fields{
		"interval":      interval.String(),
		"max_age_hours": maxAgeHours,
	}).Info("Session cleanup worker started")

	for {
		select {
		case <-ctx.Done():
			s.log.Info("Session cleanup worker stopped")
			return
		case <-ticker.C:
			runCtx, cancel := context.WithTimeout(contextPkg.WithRequestID(ctx, "cleanup-worker"), cleanupWorkerTimeout)
			res, err := s.Cleanup(runCtx, maxAgeHours)
			cancel()

			if err != nil {
				s.log.WithFields(logrus.Fields{
					"error": err.Error(),
				}).Warn("Scheduled cleanup failed")
				continue
			}

			s.log.WithFields(logrus.Fields{
				"removed": res.Removed,
			}).Debug("Scheduled cleanup finished")
		}
	}
}

func (s *chatbotService) Health(ctx context.Context) *chatbot.HealthResponse {
	analysis := s.engine.Analyze("Hola")
	loaded := analysis != nil && len(analysis.Tokens) > 0

	status := "healthy"
	if !loaded {
		status = "unhealthy"
	}

	return &chatbot.HealthResponse{
		Status:          status,
		NLPModelsLoaded: loaded,
		OracleAvailable: s.engine.OracleAvailable(),
		Timestamp:       s.now(),
	}
}

func (s *chatbotService) Keywords(ctx context.Context) *chatbot.KeywordsResponse {
	return &chatbot.KeywordsResponse{
		Categories: s.engine.Keywords(),
		Models:     s.engine.Catalog().Models(),
	}
}

func (s *chatbotService) Info(ctx context.Context) *chatbot.InfoResponse {
	brands := s.engine.Catalog().Brands()
	names := make([]string, 0, len(brands))
	for _, b := range brands {
		names = append(names, b.Name)
	}

	categories := make([]string, 0)
	seen := make(map[string]bool)
	for _, group := range s.engine.Keywords() {
		if !seen[group.Category] {
			seen[group.Category] = true
			categories = append(categories, group.Category)
		}
	}
	categories = append(categories, nlp.CategorySpecificModel, nlp.CategoryGenerative, nlp.CategoryLastResort)

	return &chatbot.InfoResponse{
		Name:        "ChatBot Computex API",
		Version:     "1.0.0",
		Description: "API para chatbot de ventas de laptops con clasificación de intenciones",
		Brands:      names,
		Categories:  categories,
		Features: []string{
			"Clasificación de intenciones por palabras clave",
			"Seguimiento del modelo mencionado en la conversación",
			"Respaldo generativo opcional",
			"Gestión de sesiones de chat",
			"Análisis de tokens y lematización",
			"Estadísticas en tiempo real",
		},
	}
}

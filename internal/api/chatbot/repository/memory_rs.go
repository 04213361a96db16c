package chatbotRepository

import (
	"ComputexChatbot/internal/api/chatbot"
	"ComputexChatbot/internal/entity"
	contextPkg "ComputexChatbot/pkg/context"
	"context"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

type memoryRepository struct {
	mu       sync.RWMutex
	sessions map[string]entity.ChatSession
	stats    counters
	log      *logrus.Logger
}

func NewMemory(log *logrus.Logger) Repository {
	return &memoryRepository{
		sessions: make(map[string]entity.ChatSession),
		stats:    newCounters(),
		log:      log,
	}
}

func (r *memoryRepository) CreateSession(ctx context.Context, session entity.ChatSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[session.ID] = session.Clone()

	r.log.WithFields(logrus.Fields{
		"request_id": contextPkg.GetRequestID(ctx),
		"session_id": session.ID,
	}).Debug("Session created")

	return nil
}

func (r *memoryRepository) GetSession(ctx context.Context, sessionID string) (entity.ChatSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[sessionID]
	if !ok {
		return entity.ChatSession{}, chatbot.ErrSessionNotFound
	}

	return session.Clone(), nil
}

func (r *memoryRepository) SaveSession(ctx context.Context, session entity.ChatSession, appended ...entity.ChatMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[session.ID] = session.Clone()
	r.stats.record(appended)

	return nil
}

func (r *memoryRepository) ListSessions(ctx context.Context) ([]entity.ChatSession, error) {
	r.mu.RLock()
	sessions := make([]entity.ChatSession, 0, len(r.sessions))
	for _, s := range r.sessions {
		sessions = append(sessions, s.Clone())
	}
	r.mu.RUnlock()

	sortSessions(sessions)
	return sessions, nil
}

func (r *memoryRepository) DeleteIdleSessions(ctx context.Context, cutoff time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, s := range r.sessions {
		if s.LastActivity.Before(cutoff) {
			delete(r.sessions, id)
			removed++
		}
	}

	if removed > 0 {
		r.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"removed":    removed,
			"cutoff":     cutoff,
		}).Info("Idle sessions removed")
	}

	return removed, nil
}

func (r *memoryRepository) GetStats(ctx context.Context, activeCutoff time.Time) (entity.ChatStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	active := 0
	for _, s := range r.sessions {
		if s.ActiveSince(activeCutoff) {
			active++
		}
	}

	return entity.ChatStats{
		TotalSessions:   len(r.sessions),
		TotalMessages:   r.stats.totalMessages,
		CategoriesCount: r.stats.categoriesCopy(),
		ActiveSessions:  active,
	}, nil
}

func sortSessions(sessions []entity.ChatSession) {
	sort.Slice(sessions, func(i, j int) bool {
		if sessions[i].CreatedAt.Equal(sessions[j].CreatedAt) {
			return sessions[i].ID < sessions[j].ID
		}
		return sessions[i].CreatedAt.Before(sessions[j].CreatedAt)
	})
}

package chatbotRepository

import (
	"ComputexChatbot/internal/entity"
	"context"
	"time"
)

// Repository persists chat sessions and the counters behind /stats.
// Implementations return chatbot.ErrSessionNotFound for unknown IDs.
type Repository interface {
	CreateSession(ctx context.Context, session entity.ChatSession) error
	GetSession(ctx context.Context, sessionID string) (entity.ChatSession, error)
	SaveSession(ctx context.Context, session entity.ChatSession, appended ...entity.ChatMessage) error
	ListSessions(ctx context.Context) ([]entity.ChatSession, error)
	DeleteIdleSessions(ctx context.Context, cutoff time.Time) (int, error)
	GetStats(ctx context.Context, activeCutoff time.Time) (entity.ChatStats, error)
}

type counters struct {
	totalMessages int
	categories    map[string]int
}

func newCounters() counters {
	return counters{categories: make(map[string]int)}
}

// record counts every appended message and, for bot replies, its category.
func (c *counters) record(messages []entity.ChatMessage) {
	c.totalMessages += len(messages)
	for _, m := range messages {
		if m.Type == entity.MessageTypeBot && m.Category != "" {
			c.categories[m.Category]++
		}
	}
}

func (c *counters) categoriesCopy() map[string]int {
	out := make(map[string]int, len(c.categories))
	for k, v := range c.categories {
		out[k] = v
	}
	return out
}

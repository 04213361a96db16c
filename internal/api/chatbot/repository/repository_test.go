package chatbotRepository_test

import (
	"context"
	"io"
	"testing"
	"time"

	"ComputexChatbot/internal/api/chatbot"
	chatbotRepository "ComputexChatbot/internal/api/chatbot/repository"
	"ComputexChatbot/internal/entity"
	"ComputexChatbot/pkg/nlp"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newSession(id string, createdAt, lastActivity time.Time) entity.ChatSession {
	return entity.ChatSession{
		ID:           id,
		Messages:     []entity.ChatMessage{},
		CreatedAt:    createdAt,
		LastActivity: lastActivity,
	}
}

func strPtr(s string) *string { return &s }

type factory func(t *testing.T) chatbotRepository.Repository

func factories() map[string]factory {
	return map[string]factory{
		"memory": func(t *testing.T) chatbotRepository.Repository {
			return chatbotRepository.NewMemory(quietLogger())
		},
		"redis": func(t *testing.T) chatbotRepository.Repository {
			mr := miniredis.RunT(t)
			rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
			t.Cleanup(func() { _ = rdb.Close() })
			return chatbotRepository.NewRedis(rdb, 0, quietLogger())
		},
	}
}

func TestRepositorySessionLifecycle(t *testing.T) {
	for name, newRepo := range factories() {
		t.Run(name, func(t *testing.T) {
			repo := newRepo(t)
			ctx := context.Background()

			_, err := repo.GetSession(ctx, "missing")
			assert.ErrorIs(t, err, chatbot.ErrSessionNotFound)

			session := newSession("s-1", base, base)
			require.NoError(t, repo.CreateSession(ctx, session))

			user := entity.ChatMessage{Type: entity.MessageTypeUser, Message: "Hola", Timestamp: base}
			bot := entity.ChatMessage{
				Type:           entity.MessageTypeBot,
				Message:        "¡Hola!",
				Category:       nlp.CategoryGreeting,
				MatchedKeyword: strPtr("hola"),
				ProcessingTime: 0.002,
				Timestamp:      base,
			}
			session.Messages = append(session.Messages, user, bot)
			session.History = nlp.History{nlp.UserTurn("Hola"), nlp.AssistantTurn("¡Hola!")}
			session.LastActivity = base.Add(time.Minute)
			require.NoError(t, repo.SaveSession(ctx, session, user, bot))

			got, err := repo.GetSession(ctx, "s-1")
			require.NoError(t, err)
			assert.Equal(t, "s-1", got.ID)
			require.Len(t, got.Messages, 2)
			assert.Equal(t, "hola", *got.Messages[1].MatchedKeyword)
			assert.Equal(t, session.History, got.History)
			assert.True(t, got.LastActivity.Equal(base.Add(time.Minute)))
			assert.Equal(t, 1, got.CountByType(entity.MessageTypeUser))
		})
	}
}

func TestRepositoryStats(t *testing.T) {
	for name, newRepo := range factories() {
		t.Run(name, func(t *testing.T) {
			repo := newRepo(t)
			ctx := context.Background()

			fresh := newSession("fresh", base, base)
			stale := newSession("stale", base.Add(-5*time.Hour), base.Add(-3*time.Hour))
			require.NoError(t, repo.CreateSession(ctx, fresh))
			require.NoError(t, repo.CreateSession(ctx, stale))

			require.NoError(t, repo.SaveSession(ctx, fresh,
				entity.ChatMessage{Type: entity.MessageTypeUser, Message: "hola"},
				entity.ChatMessage{Type: entity.MessageTypeBot, Message: "¡Hola!", Category: nlp.CategoryGreeting},
			))
			require.NoError(t, repo.SaveSession(ctx, stale,
				entity.ChatMessage{Type: entity.MessageTypeUser, Message: "dell"},
				entity.ChatMessage{Type: entity.MessageTypeBot, Message: "modelos", Category: "dell"},
				entity.ChatMessage{Type: entity.MessageTypeUser, Message: "gracias"},
				entity.ChatMessage{Type: entity.MessageTypeBot, Message: "¡De nada!", Category: nlp.CategoryFarewell},
			))

			stats, err := repo.GetStats(ctx, base.Add(-time.Hour))
			require.NoError(t, err)

			assert.Equal(t, 2, stats.TotalSessions)
			assert.Equal(t, 6, stats.TotalMessages)
			assert.Equal(t, 1, stats.ActiveSessions)
			assert.Equal(t, map[string]int{"saludo": 1, "dell": 1, "despedida": 1}, stats.CategoriesCount)
		})
	}
}

func TestRepositoryListAndCleanup(t *testing.T) {
	for name, newRepo := range factories() {
		t.Run(name, func(t *testing.T) {
			repo := newRepo(t)
			ctx := context.Background()

			require.NoError(t, repo.CreateSession(ctx, newSession("b", base.Add(-time.Hour), base)))
			require.NoError(t, repo.CreateSession(ctx, newSession("a", base.Add(-48*time.Hour), base.Add(-30*time.Hour))))
			require.NoError(t, repo.CreateSession(ctx, newSession("c", base, base)))

			sessions, err := repo.ListSessions(ctx)
			require.NoError(t, err)
			require.Len(t, sessions, 3)
			assert.Equal(t, []string{"a", "b", "c"}, []string{sessions[0].ID, sessions[1].ID, sessions[2].ID})

			removed, err := repo.DeleteIdleSessions(ctx, base.Add(-24*time.Hour))
			require.NoError(t, err)
			assert.Equal(t, 1, removed)

			_, err = repo.GetSession(ctx, "a")
			assert.ErrorIs(t, err, chatbot.ErrSessionNotFound)

			removed, err = repo.DeleteIdleSessions(ctx, base.Add(-24*time.Hour))
			require.NoError(t, err)
			assert.Zero(t, removed)

			sessions, err = repo.ListSessions(ctx)
			require.NoError(t, err)
			assert.Len(t, sessions, 2)
		})
	}
}

func TestMemoryRepositoryReturnsCopies(t *testing.T) {
	repo := chatbotRepository.NewMemory(quietLogger())
	ctx := context.Background()

	session := newSession("s", base, base)
	session.History = nlp.History{nlp.UserTurn("hola")}
	require.NoError(t, repo.CreateSession(ctx, session))

	got, err := repo.GetSession(ctx, "s")
	require.NoError(t, err)
	got.History.Append(nlp.AssistantTurn("mutated"))

	again, err := repo.GetSession(ctx, "s")
	require.NoError(t, err)
	assert.Len(t, again.History, 1)
}

func TestRedisRepositoryExpiredSessionsArePruned(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	repo := chatbotRepository.NewRedis(rdb, time.Minute, quietLogger())
	ctx := context.Background()

	require.NoError(t, repo.CreateSession(ctx, newSession("short-lived", base, base)))
	assert.True(t, mr.Exists("chatbot:session:short-lived"))

	mr.FastForward(2 * time.Minute)

	sessions, err := repo.ListSessions(ctx)
	require.NoError(t, err)
	assert.Empty(t, sessions)

	members, err := mr.ZMembers("chatbot:sessions")
	if err == nil {
		assert.Empty(t, members)
	}

	_, err = repo.GetSession(ctx, "short-lived")
	assert.ErrorIs(t, err, chatbot.ErrSessionNotFound)
}

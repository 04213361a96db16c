package chatbotService_test

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"ComputexChatbot/internal/api/chatbot"
	chatbotRepository "ComputexChatbot/internal/api/chatbot/repository"
	chatbotService "ComputexChatbot/internal/api/chatbot/service"
	"ComputexChatbot/internal/entity"
	"ComputexChatbot/pkg/nlp"
	"ComputexChatbot/pkg/utils"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func newClock() *clock {
	return &clock{now: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newService(t *testing.T, repo chatbotRepository.Repository, clk *clock) chatbotService.IChatbotService {
	t.Helper()
	log := quietLogger()
	if repo == nil {
		repo = chatbotRepository.NewMemory(log)
	}
	return chatbotService.NewChatbotService(
		log,
		repo,
		nlp.NewEngine(nil, nil),
		utils.New(),
		chatbotService.WithClock(clk.Now),
	)
}

func TestChatKeepsConversationInOneSession(t *testing.T) {
	svc := newService(t, nil, newClock())
	ctx := context.Background()

	first, err := svc.Chat(ctx, chatbot.ChatRequest{Message: "Hola"})
	require.NoError(t, err)
	_, err = uuid.Parse(first.SessionID)
	require.NoError(t, err)
	assert.Equal(t, nlp.CategoryGreeting, first.Category)
	require.NotNil(t, first.MatchedKeyword)
	assert.Equal(t, "hola", *first.MatchedKeyword)

	model, err := svc.Chat(ctx, chatbot.ChatRequest{Message: "me interesa el HP Omen 16", SessionID: first.SessionID})
	require.NoError(t, err)
	assert.Equal(t, first.SessionID, model.SessionID)
	assert.Equal(t, nlp.CategorySpecificModel, model.Category)

	reserve, err := svc.Chat(ctx, chatbot.ChatRequest{Message: "quiero reservar", SessionID: first.SessionID})
	require.NoError(t, err)
	assert.Equal(t, nlp.CategoryReserve, reserve.Category)
	assert.Contains(t, reserve.Response, "HP Omen 16")

	history, err := svc.GetHistory(ctx, first.SessionID)
	require.NoError(t, err)
	assert.Equal(t, 6, history.TotalMessages)
	assert.Equal(t, entity.MessageTypeUser, history.Messages[0].Type)
	assert.Equal(t, "Hola", history.Messages[0].Message)
	assert.Equal(t, entity.MessageTypeBot, history.Messages[5].Type)
	assert.Equal(t, reserve.Response, history.Messages[5].Message)

	info, err := svc.GetSession(ctx, first.SessionID)
	require.NoError(t, err)
	assert.Equal(t, 6, info.TotalMessages)
	assert.Equal(t, 3, info.UserMessages)
	assert.Equal(t, 3, info.BotMessages)
}

func TestChatUnknownSessionStartsFresh(t *testing.T) {
	svc := newService(t, nil, newClock())

	res, err := svc.Chat(context.Background(), chatbot.ChatRequest{Message: "gracias", SessionID: "does-not-exist"})
	require.NoError(t, err)

	assert.NotEqual(t, "does-not-exist", res.SessionID)
	assert.Equal(t, nlp.CategoryFarewell, res.Category)

	_, err = svc.GetSession(context.Background(), "does-not-exist")
	assert.ErrorIs(t, err, chatbot.ErrSessionNotFound)
}

func TestChatRejectsBlankMessage(t *testing.T) {
	svc := newService(t, nil, newClock())

	_, err := svc.Chat(context.Background(), chatbot.ChatRequest{Message: "   "})
	assert.ErrorIs(t, err, chatbot.ErrEmptyMessage)

	_, err = svc.Analyze(context.Background(), "")
	assert.ErrorIs(t, err, chatbot.ErrEmptyMessage)
}

func TestChatUnknownMessageWithoutOracle(t *testing.T) {
	svc := newService(t, nil, newClock())

	res, err := svc.Chat(context.Background(), chatbot.ChatRequest{Message: "algo para la universidad"})
	require.NoError(t, err)

	assert.Equal(t, nlp.CategoryGenerative, res.Category)
	assert.Nil(t, res.MatchedKeyword)
	assert.NotEmpty(t, res.Response)
}

func TestChatConcurrentTurnsOnOneSession(t *testing.T) {
	svc := newService(t, nil, newClock())
	ctx := context.Background()

	first, err := svc.Chat(ctx, chatbot.ChatRequest{Message: "hola"})
	require.NoError(t, err)

	const turns = 20
	var wg sync.WaitGroup
	for i := 0; i < turns; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Chat(ctx, chatbot.ChatRequest{Message: "precio", SessionID: first.SessionID})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	history, err := svc.GetHistory(ctx, first.SessionID)
	require.NoError(t, err)
	assert.Equal(t, 2*(turns+1), history.TotalMessages)
}

func TestSessionsStatsAndCleanup(t *testing.T) {
	clk := newClock()
	svc := newService(t, nil, clk)
	ctx := context.Background()

	old, err := svc.Chat(ctx, chatbot.ChatRequest{Message: "hola"})
	require.NoError(t, err)

	clk.Advance(3 * time.Hour)

	recent, err := svc.Chat(ctx, chatbot.ChatRequest{Message: "dell"})
	require.NoError(t, err)

	all, err := svc.ListSessions(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	active, err := svc.ListSessions(ctx, true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, recent.SessionID, active[0].SessionID)
	assert.Equal(t, 2, active[0].MessageCount)

	stats, err := svc.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalSessions)
	assert.Equal(t, 4, stats.TotalMessages)
	assert.Equal(t, 1, stats.ActiveSessions)
	assert.Equal(t, map[string]int{"saludo": 1, "dell": 1}, stats.CategoriesCount)

	_, err = svc.Cleanup(ctx, -1)
	assert.ErrorIs(t, err, chatbot.ErrInvalidHours)

	res, err := svc.Cleanup(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Removed)
	assert.Equal(t, "Sesiones mayores a 2 horas eliminadas", res.Message)

	_, err = svc.GetHistory(ctx, old.SessionID)
	assert.ErrorIs(t, err, chatbot.ErrSessionNotFound)

	stats, err = svc.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalSessions)
	assert.Equal(t, 4, stats.TotalMessages, "message counters survive cleanup")
}

func TestAnalyzeHealthKeywordsInfo(t *testing.T) {
	svc := newService(t, nil, newClock())
	ctx := context.Background()

	analysis, err := svc.Analyze(ctx, "precio del HP Pavilion")
	require.NoError(t, err)
	assert.Equal(t, nlp.CategorySpecificModel, analysis.Category)
	assert.Contains(t, analysis.ProcessingTime, "s")

	health := svc.Health(ctx)
	assert.Equal(t, "healthy", health.Status)
	assert.True(t, health.NLPModelsLoaded)
	assert.False(t, health.OracleAvailable)

	keywords := svc.Keywords(ctx)
	assert.Len(t, keywords.Models, 9)
	assert.NotEmpty(t, keywords.Categories)

	info := svc.Info(ctx)
	assert.Equal(t, []string{"dell", "hp", "lenovo"}, info.Brands)
	assert.Contains(t, info.Categories, nlp.CategoryGreeting)
	assert.Contains(t, info.Categories, nlp.CategoryLastResort)
}

type brokenRepo struct {
	chatbotRepository.Repository
}

var errBackend = errors.New("connection refused")

func (brokenRepo) GetSession(context.Context, string) (entity.ChatSession, error) {
	return entity.ChatSession{}, errBackend
}

func (brokenRepo) ListSessions(context.Context) ([]entity.ChatSession, error) {
	return nil, errBackend
}

func TestStoreFailuresSurfaceAsStoreError(t *testing.T) {
	svc := newService(t, brokenRepo{}, newClock())
	ctx := context.Background()

	_, err := svc.Chat(ctx, chatbot.ChatRequest{Message: "hola", SessionID: "abc"})
	assert.ErrorIs(t, err, chatbot.ErrSessionStore)

	_, err = svc.ListSessions(ctx, false)
	assert.ErrorIs(t, err, chatbot.ErrSessionStore)
}

func TestCleanupWorkerStopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	clk := newClock()
	log := quietLogger()
	repo := chatbotRepository.NewMemory(log)
	svc := chatbotService.NewChatbotService(log, repo, nlp.NewEngine(nil, nil), utils.New(), chatbotService.WithClock(clk.Now))

	ctx := context.Background()
	res, err := svc.Chat(ctx, chatbot.ChatRequest{Message: "hola"})
	require.NoError(t, err)
	clk.Advance(48 * time.Hour)

	workerCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		svc.RunCleanupWorker(workerCtx, 5*time.Millisecond, 24)
	}()

	require.Eventually(t, func() bool {
		_, err := repo.GetSession(ctx, res.SessionID)
		return errors.Is(err, chatbot.ErrSessionNotFound)
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cleanup worker did not stop")
	}
}

func TestCleanupWorkerDisabled(t *testing.T) {
	svc := newService(t, nil, newClock())

	done := make(chan struct{})
	go func() {
		defer close(done)
		svc.RunCleanupWorker(context.Background(), 0, 24)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker with zero interval should return immediately")
	}
}

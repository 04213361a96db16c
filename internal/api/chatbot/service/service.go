package chatbotService

import (
	"ComputexChatbot/internal/api/chatbot"
	chatbotRepository "ComputexChatbot/internal/api/chatbot/repository"
	"ComputexChatbot/internal/entity"
	"ComputexChatbot/pkg/nlp"
	"ComputexChatbot/pkg/utils"
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	statsActiveWindow    = time.Hour
	listingActiveWindow  = 2 * time.Hour
	DefaultCleanupHours  = 24
	cleanupWorkerTimeout = 30 * time.Second
)

type IChatbotService interface {
	Chat(ctx context.Context, req chatbot.ChatRequest) (*chatbot.ChatResponse, error)
	Analyze(ctx context.Context, message string) (*chatbot.AnalyzeResponse, error)

	GetHistory(ctx context.Context, sessionID string) (*chatbot.HistoryResponse, error)
	GetSession(ctx context.Context, sessionID string) (*chatbot.SessionInfoResponse, error)
	ListSessions(ctx context.Context, activeOnly bool) ([]chatbot.SessionSummary, error)
	GetStats(ctx context.Context) (*entity.ChatStats, error)
	Cleanup(ctx context.Context, hours int) (*chatbot.CleanupResponse, error)
	RunCleanupWorker(ctx context.Context, interval time.Duration, maxAgeHours int)

	Health(ctx context.Context) *chatbot.HealthResponse
	Keywords(ctx context.Context) *chatbot.KeywordsResponse
	Info(ctx context.Context) *chatbot.InfoResponse
}

type chatbotService struct {
	log    *logrus.Logger
	repo   chatbotRepository.Repository
	engine nlp.IChatEngine
	utils  utils.IUtils
	locks  *sessionLocks
	now    func() time.Time
}

type Option func(*chatbotService)

// WithClock overrides the wall clock used for timestamps and activity windows.
func WithClock(now func() time.Time) Option {
	return func(s *chatbotService) {
		s.now = now
	}
}

func NewChatbotService(
	log *logrus.Logger,
	repo chatbotRepository.Repository,
	engine nlp.IChatEngine,
	utils utils.IUtils,
	options ...Option,
) IChatbotService {
	s := &chatbotService{
		log:    log,
		repo:   repo,
		engine: engine,
		utils:  utils,
		locks:  newSessionLocks(),
		now:    time.Now,
	}

	for _, option := range options {
		option(s)
	}

	return s
}

// sessionLocks serializes turns within one session. Entries are dropped once
// no goroutine holds or waits on them.
type sessionLocks struct {
	mu    sync.Mutex
	locks map[string]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{locks: make(map[string]*sessionLock)}
}

func (l *sessionLocks) lock(sessionID string) (unlock func()) {
	l.mu.Lock()
	entry, ok := l.locks[sessionID]
	if !ok {
		entry = &sessionLock{}
		l.locks[sessionID] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()

		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.locks, sessionID)
		}
		l.mu.Unlock()
	}
}

func (l *sessionLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}

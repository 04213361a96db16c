package config

import (
	chatbotHandler "ComputexChatbot/internal/api/chatbot/handler"
	chatbotRepository "ComputexChatbot/internal/api/chatbot/repository"
	chatbotService "ComputexChatbot/internal/api/chatbot/service"
	"ComputexChatbot/internal/middleware"
	"ComputexChatbot/pkg/nlp"
	"ComputexChatbot/pkg/redis"
	"ComputexChatbot/pkg/utils"
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/sirupsen/logrus"
)

type ServerOption func(*Server) error

type Server struct {
	engine         *fiber.App
	log            *logrus.Logger
	config         *AppConfig
	middleware     middleware.Middleware
	validator      *validator.Validate
	utils          utils.IUtils
	redisServer    redis.IRedis
	oracle         nlp.Oracle
	chatbotService chatbotService.IChatbotService
	public         []publicHandler
	handlers       []handler
	mounted        bool
}

type handler interface {
	Start(srv fiber.Router)
}

type publicHandler interface {
	StartPublic(app fiber.Router)
}

func NewServer(options ...ServerOption) (*Server, error) {
	server := &Server{}

	for _, option := range options {
		if err := option(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.engine == nil {
		return nil, fmt.Errorf("fiber app is required")
	}
	if server.log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if server.config == nil {
		return nil, fmt.Errorf("app config is required")
	}
	if server.middleware == nil {
		return nil, fmt.Errorf("middleware is required")
	}

	return server, nil
}

func WithFiber(fiberApp *fiber.App) ServerOption {
	return func(s *Server) error {
		s.engine = fiberApp
		return nil
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.log = logger
		return nil
	}
}

func WithValidator(validator *validator.Validate) ServerOption {
	return func(s *Server) error {
		s.validator = validator
		return nil
	}
}

func WithAppConfig(cfg *AppConfig) ServerOption {
	return func(s *Server) error {
		s.config = cfg
		return nil
	}
}

func WithRedisServer(redisServer redis.IRedis) ServerOption {
	return func(s *Server) error {
		s.redisServer = redisServer
		return nil
	}
}

func WithOracle(oracle nlp.Oracle) ServerOption {
	return func(s *Server) error {
		s.oracle = oracle
		return nil
	}
}

func WithMiddleware() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before middleware")
		}
		if s.config == nil {
			return fmt.Errorf("app config must be initialized before middleware")
		}
		s.middleware = middleware.New(s.log, middleware.Config{
			RateLimitRPS:   s.config.RateLimitRPS,
			RateLimitBurst: s.config.RateLimitBurst,
			AdminSecret:    s.config.AdminJWTSecret,
		})
		return nil
	}
}

func WithUtils() ServerOption {
	return func(s *Server) error {
		s.utils = utils.New()
		return nil
	}
}

func (s *Server) RegisterHandler() error {
	if s.validator == nil {
		s.validator = NewValidator()
	}
	if s.utils == nil {
		s.utils = utils.New()
	}

	var chatbotRepo chatbotRepository.Repository
	switch s.config.SessionStore {
	case SessionStoreRedis:
		if s.redisServer == nil {
			return fmt.Errorf("SESSION_STORE=redis requires a redis connection")
		}
		chatbotRepo = chatbotRepository.NewRedis(s.redisServer.Client(), s.config.SessionTTL, s.log)
	default:
		chatbotRepo = chatbotRepository.NewMemory(s.log)
	}

	// Chatbot Domain
	engine := nlp.NewEngine(nlp.DefaultCatalog(), s.oracle)
	s.chatbotService = chatbotService.NewChatbotService(s.log, chatbotRepo, engine, s.utils)
	chatbotHandlers := chatbotHandler.New(s.log, s.validator, s.middleware, s.chatbotService, s.utils)

	s.log.WithFields(logrus.Fields{
		"session_store":    s.config.SessionStore,
		"oracle_available": engine.OracleAvailable(),
	}).Info("Chatbot handlers registered")

	s.public = append(s.public, chatbotHandlers)
	s.handlers = append(s.handlers, chatbotHandlers)
	return nil
}

// mount installs middleware and routes exactly once.
func (s *Server) mount() {
	if s.mounted {
		return
	}
	s.mounted = true

	s.engine.Use(cors.New())
	s.engine.Use(s.middleware.NewRequestIDMiddleware())
	s.engine.Use(middleware.LoggerConfig())
	s.engine.Use(s.middleware.NewRateLimiter)

	for _, h := range s.public {
		h.StartPublic(s.engine)
	}

	router := s.engine.Group("/api")
	for _, h := range s.handlers {
		h.Start(router)
	}
}

func (s *Server) Run() error {
	s.mount()

	port := s.config.Port
	if port == "" {
		port = "8000"
	}

	return s.engine.Listen(fmt.Sprintf(":%s", port))
}

// RunCleanupWorker blocks until ctx is cancelled, purging idle sessions on
// the configured schedule.
func (s *Server) RunCleanupWorker(ctx context.Context) {
	if s.chatbotService == nil {
		return
	}
	s.chatbotService.RunCleanupWorker(ctx, s.config.CleanupInterval, s.config.CleanupMaxAgeHours)
}

func (s *Server) Shutdown(ctx context.Context) error {
	err := s.engine.ShutdownWithContext(ctx)

	if s.redisServer != nil {
		if closeErr := s.redisServer.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}

	return err
}

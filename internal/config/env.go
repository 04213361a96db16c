package config

import (
	"fmt"
	"time"

	"ComputexChatbot/pkg/gemini"
	chatGPT "ComputexChatbot/pkg/openai"
	"ComputexChatbot/pkg/redis"

	"github.com/kelseyhightower/envconfig"
)

const (
	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"

	OracleGemini = "gemini"
	OracleOpenAI = "openai"
	OracleNone   = "none"
)

type AppConfig struct {
	Env  string `envconfig:"APP_ENV" default:"development"`
	Port string `envconfig:"APP_PORT" default:"8000"`

	SessionStore       string        `envconfig:"SESSION_STORE" default:"memory"`
	SessionTTL         time.Duration `envconfig:"SESSION_TTL" default:"48h"`
	CleanupInterval    time.Duration `envconfig:"CLEANUP_INTERVAL" default:"1h"`
	CleanupMaxAgeHours int           `envconfig:"CLEANUP_MAX_AGE_HOURS" default:"24"`

	RateLimitRPS   float64 `envconfig:"RATE_LIMIT_RPS" default:"50"`
	RateLimitBurst int     `envconfig:"RATE_LIMIT_BURST" default:"100"`

	OracleProvider string `envconfig:"ORACLE_PROVIDER" default:"gemini"`
	AdminJWTSecret string `envconfig:"ADMIN_JWT_SECRET"`

	Gemini gemini.Config
	OpenAI chatGPT.Config
	Redis  redis.Config
}

// LoadAppConfig reads the process environment. Nested client configs are
// matched by their own variable names (GEMINI_API_KEY, REDIS_ADDRESS, ...).
func LoadAppConfig() (*AppConfig, error) {
	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	switch cfg.SessionStore {
	case SessionStoreMemory, SessionStoreRedis:
	default:
		return nil, fmt.Errorf("unsupported SESSION_STORE %q", cfg.SessionStore)
	}

	switch cfg.OracleProvider {
	case OracleGemini, OracleOpenAI, OracleNone:
	default:
		return nil, fmt.Errorf("unsupported ORACLE_PROVIDER %q", cfg.OracleProvider)
	}

	if cfg.CleanupMaxAgeHours < 0 {
		return nil, fmt.Errorf("CLEANUP_MAX_AGE_HOURS must not be negative")
	}

	return &cfg, nil
}

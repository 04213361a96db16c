package config

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	contextPkg "ComputexChatbot/pkg/context"
	"ComputexChatbot/pkg/redis"

	"github.com/alicebob/miniredis/v2"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestLoadAppConfigDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "key-from-env")
	t.Setenv("REDIS_ADDRESS", "cache:6380")

	cfg, err := LoadAppConfig()
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, SessionStoreMemory, cfg.SessionStore)
	assert.Equal(t, 24, cfg.CleanupMaxAgeHours)
	assert.Equal(t, time.Hour, cfg.CleanupInterval)
	assert.Equal(t, OracleGemini, cfg.OracleProvider)
	assert.Equal(t, "key-from-env", cfg.Gemini.APIKey)
	assert.Equal(t, "gemini-1.5-flash", cfg.Gemini.ModelName)
	assert.Equal(t, int32(50), cfg.Gemini.MaxTokens)
	assert.Equal(t, "cache:6380", cfg.Redis.Address)
}

func TestLoadAppConfigRejectsUnknownValues(t *testing.T) {
	t.Setenv("SESSION_STORE", "postgres")
	_, err := LoadAppConfig()
	assert.Error(t, err)

	t.Setenv("SESSION_STORE", "redis")
	t.Setenv("ORACLE_PROVIDER", "llama")
	_, err = LoadAppConfig()
	assert.Error(t, err)
}

func TestNewOracle(t *testing.T) {
	log := quietLogger()

	oracle, closer := NewOracle(&AppConfig{OracleProvider: OracleNone}, log)
	assert.Nil(t, oracle)
	assert.NoError(t, closer())

	oracle, closer = NewOracle(&AppConfig{OracleProvider: OracleGemini}, log)
	assert.Nil(t, oracle, "gemini without a key is disabled")
	assert.NoError(t, closer())

	cfg := &AppConfig{OracleProvider: OracleOpenAI}
	cfg.OpenAI.BaseURL = "http://localhost:11434/v1"
	oracle, closer = NewOracle(cfg, log)
	assert.NotNil(t, oracle)
	assert.NoError(t, closer())
}

type stubOracle struct {
	output string
	err    error
}

func (s stubOracle) Generate(context.Context, string) (string, error) {
	return s.output, s.err
}

func TestLoggedOracleCarriesSession(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	ctx := contextPkg.WithSessionID(contextPkg.WithRequestID(context.Background(), "req-1"), "sess-1")

	oracle := newLoggedOracle(stubOracle{output: "tenemos la HP Envy 13"}, OracleOpenAI, logger)
	out, err := oracle.Generate(ctx, "prompt")
	require.NoError(t, err)
	assert.Equal(t, "tenemos la HP Envy 13", out)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.DebugLevel, entry.Level)
	assert.Equal(t, "req-1", entry.Data["request_id"])
	assert.Equal(t, "sess-1", entry.Data["session_id"])

	failing := newLoggedOracle(stubOracle{err: errors.New("quota exceeded")}, OracleGemini, logger)
	_, err = failing.Generate(ctx, "prompt")
	assert.EqualError(t, err, "quota exceeded")

	entry = hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, "sess-1", entry.Data["session_id"])
	assert.Equal(t, "quota exceeded", entry.Data["error"])
}

func TestNewServerRequiresCoreOptions(t *testing.T) {
	_, err := NewServer(WithLogger(quietLogger()))
	assert.Error(t, err)

	_, err = NewServer(
		WithFiber(NewFiber(quietLogger())),
		WithLogger(quietLogger()),
	)
	assert.Error(t, err)

	_, err = NewServer(
		WithFiber(NewFiber(quietLogger())),
		WithMiddleware(),
	)
	assert.Error(t, err, "middleware needs the logger first")
}

func newTestServer(t *testing.T, cfg *AppConfig, extra ...ServerOption) *Server {
	t.Helper()
	log := quietLogger()

	options := append([]ServerOption{
		WithFiber(NewFiber(log)),
		WithLogger(log),
		WithAppConfig(cfg),
		WithValidator(NewValidator()),
		WithMiddleware(),
		WithUtils(),
	}, extra...)

	server, err := NewServer(options...)
	require.NoError(t, err)
	require.NoError(t, server.RegisterHandler())
	server.mount()
	return server
}

func TestServerRoutes(t *testing.T) {
	server := newTestServer(t, &AppConfig{SessionStore: SessionStoreMemory})

	for _, target := range []string{"/", "/info", "/api/chatbot/health", "/api/chatbot/keywords"} {
		resp, err := server.engine.Test(httptest.NewRequest(http.MethodGet, target, nil), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode, target)
		assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
	}

	resp, err := server.engine.Test(httptest.NewRequest(http.MethodGet, "/missing", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServerWithRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)

	redisServer, err := redis.New(redis.Config{Address: mr.Addr()})
	require.NoError(t, err)

	server := newTestServer(t,
		&AppConfig{SessionStore: SessionStoreRedis, SessionTTL: time.Hour},
		WithRedisServer(redisServer),
	)

	req := httptest.NewRequest(http.MethodPost, "/api/chatbot/chat", strings.NewReader(`{"message":"hola"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := server.engine.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	keys := mr.Keys()
	assert.Contains(t, keys, "chatbot:sessions")
	assert.Contains(t, keys, "chatbot:stats")
}

func TestRegisterHandlerRedisWithoutConnection(t *testing.T) {
	log := quietLogger()
	server, err := NewServer(
		WithFiber(NewFiber(log)),
		WithLogger(log),
		WithAppConfig(&AppConfig{SessionStore: SessionStoreRedis}),
		WithMiddleware(),
	)
	require.NoError(t, err)

	assert.Error(t, server.RegisterHandler())
}

func TestNewValidatorUsesJSONNames(t *testing.T) {
	type payload struct {
		Message string `json:"message" validate:"required"`
	}

	err := NewValidator().Struct(payload{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "'message'")
}

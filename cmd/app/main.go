package main

import (
	"ComputexChatbot/internal/config"
	"ComputexChatbot/pkg/log"
	"ComputexChatbot/pkg/redis"
	"context"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// .env is read before the logger so LOG_LEVEL and APP_ENV apply to it
	envErr := godotenv.Load()

	logger := log.NewLogger()
	if envErr != nil {
		logger.Warnf("No .env file loaded, using process environment: %v", envErr)
	}

	appConfig, err := config.LoadAppConfig()
	if err != nil {
		log.Fatal(log.Fields{"error": err.Error()}, "Invalid configuration")
	}
	log.Debug(log.Fields{
		"env":           appConfig.Env,
		"session_store": appConfig.SessionStore,
		"oracle":        appConfig.OracleProvider,
	}, "Configuration loaded")

	fiberApp := config.NewFiber(logger)
	validator := config.NewValidator()
	oracle, closeOracle := config.NewOracle(appConfig, logger)
	defer func() {
		if err := closeOracle(); err != nil {
			logger.Warnf("Error closing generative client: %v", err)
		}
	}()

	options := []config.ServerOption{
		config.WithFiber(fiberApp),
		config.WithLogger(logger),
		config.WithAppConfig(appConfig),
		config.WithValidator(validator),
		config.WithMiddleware(),
		config.WithOracle(oracle),
		config.WithUtils(),
	}

	if appConfig.SessionStore == config.SessionStoreRedis {
		redisServer, err := redis.New(appConfig.Redis)
		if err != nil {
			log.Fatal(log.Fields{"error": err.Error(), "address": appConfig.Redis.Address}, "Error connecting to Redis")
		}
		options = append(options, config.WithRedisServer(redisServer))
	}

	server, err := config.NewServer(options...)
	if err != nil {
		log.Fatal(log.Fields{"error": err.Error()}, "Error assembling server")
	}

	if err := server.RegisterHandler(); err != nil {
		log.Fatal(log.Fields{"error": err.Error()}, "Error registering handlers")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		server.RunCleanupWorker(ctx)
	}()

	go func() {
		if err := server.Run(); err != nil {
			logger.Errorf("Error starting server: %v", err)
			stop()
		}
	}()

	logger.WithField("port", appConfig.Port).Info("Server started successfully")

	<-ctx.Done()
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Error during shutdown: %v", err)
	}

	wg.Wait()
	logger.Info("Server stopped")
}

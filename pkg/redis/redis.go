package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

type Config struct {
	Address  string `envconfig:"REDIS_ADDRESS" default:"localhost:6379"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

type IRedis interface {
	Client() redis.Cmdable
	Ping(ctx context.Context) error
	Close() error
}

type redisClient struct {
	client *redis.Client
}

func New(cfg Config) (IRedis, error) {
	logrus.Info(fmt.Sprintf("Connecting to Redis at %s...", cfg.Address))

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	r := &redisClient{client: client}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := r.Ping(ctx); err != nil {
		logrus.Error(fmt.Sprintf("Failed to connect to Redis: %v", err))
		_ = client.Close()
		return nil, err
	}

	logrus.Info("Successfully connected to Redis")
	return r, nil
}

func (r *redisClient) Client() redis.Cmdable {
	return r.client
}

func (r *redisClient) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

func (r *redisClient) Close() error {
	return r.client.Close()
}

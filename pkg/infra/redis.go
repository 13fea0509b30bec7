package infra

import (
	"context"
	"fmt"
	"time"

	"github.com/fystack/appstate/pkg/common/logger"
	"github.com/redis/go-redis/v9"
)

// RedisClient is a custom interface that abstracts the Redis client methods.
type RedisClient interface {
	GetClient() *redis.Client
	Set(ctx context.Context, key string, value []byte, expiration time.Duration) error
	Get(ctx context.Context, key string) ([]byte, error)
	Close() error
}

// RedisWrapper implements RedisClient over a *redis.Client.
type RedisWrapper struct {
	client *redis.Client
}

func NewRedisClient(addr string, password string) (RedisClient, error) {
	opts := &redis.Options{
		Addr:            addr,
		Password:        password,
		DB:              0,
		PoolSize:        4,
		ConnMaxIdleTime: 5 * time.Minute,
		DialTimeout:     5 * time.Second,
		ReadTimeout:     3 * time.Second,
		WriteTimeout:    3 * time.Second,
		MaxRetries:      3,
		MinRetryBackoff: 100 * time.Millisecond,
		MaxRetryBackoff: 500 * time.Millisecond,
	}

	client := redis.NewClient(opts)

	// verify connectivity right away
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pong, err := client.Ping(ctx).Result()
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	logger.Info("Connected to Redis", "pong", pong)

	return &RedisWrapper{client: client}, nil
}

func (rw *RedisWrapper) GetClient() *redis.Client {
	return rw.client
}

func (rw *RedisWrapper) Set(ctx context.Context, key string, value []byte, expiration time.Duration) error {
	return rw.client.Set(ctx, key, value, expiration).Err()
}

// Get returns redis.Nil when key does not exist.
func (rw *RedisWrapper) Get(ctx context.Context, key string) ([]byte, error) {
	return rw.client.Get(ctx, key).Bytes()
}

func (rw *RedisWrapper) Close() error {
	return rw.client.Close()
}

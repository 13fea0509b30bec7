package kvstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fystack/appstate/pkg/common/enum"
	"github.com/fystack/appstate/pkg/infra"
	"github.com/redis/go-redis/v9"
)

const redisOpTimeout = 5 * time.Second

// RedisStore implements Backend with one Redis string per key, namespaced
// by "<prefix>:".
type RedisStore struct {
	client infra.RedisClient
	prefix string
}

func NewRedisStore(client infra.RedisClient, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (r *RedisStore) GetName() string {
	return string(enum.BackendTypeRedis)
}

func (r *RedisStore) fullKey(k string) (string, error) {
	if err := checkKey(k); err != nil {
		return "", err
	}
	if r.prefix != "" {
		return r.prefix + ":" + k, nil
	}
	return k, nil
}

func (r *RedisStore) Read(key string) ([]byte, error) {
	k, err := r.fullKey(key)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	data, err := r.client.Get(ctx, k)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, key)
		}
		return nil, err
	}
	return data, nil
}

func (r *RedisStore) Write(key string, data []byte) error {
	k, err := r.fullKey(key)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	return r.client.Set(ctx, k, data, 0)
}

func (r *RedisStore) Keys() ([]string, error) {
	match := "*"
	if r.prefix != "" {
		match = r.prefix + ":*"
	}
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	keys := make([]string, 0)
	iter := r.client.GetClient().Scan(ctx, 0, match, 100).Iterator()
	for iter.Next(ctx) {
		k := iter.Val()
		if r.prefix != "" {
			k = strings.TrimPrefix(k, r.prefix+":")
		}
		keys = append(keys, k)
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return keys, nil
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "routine"

// RedisKV stores profile key-value pairs as plain Redis strings.
type RedisKV struct {
	client *redis.Client
}

// NewRedisKV connects to redisURL and checks the connection.
func NewRedisKV(redisURL string) (*RedisKV, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return &RedisKV{client: client}, nil
}

// NewRedisKVFromClient wraps an existing client.
func NewRedisKVFromClient(client *redis.Client) *RedisKV {
	return &RedisKV{client: client}
}

func redisKey(owner, key string) string {
	return fmt.Sprintf("%s:%s:%s", redisKeyPrefix, owner, key)
}

func (r *RedisKV) Get(ctx context.Context, owner, key string) ([]byte, bool, error) {
	value, err := r.client.Get(ctx, redisKey(owner, key)).Bytes()
	switch {
	case err == nil:
		return value, true, nil
	case errors.Is(err, redis.Nil):
		return nil, false, nil
	default:
		return nil, false, fmt.Errorf("redis get: %w", err)
	}
}

func (r *RedisKV) Put(ctx context.Context, owner, key string, value []byte) error {
	if err := r.client.Set(ctx, redisKey(owner, key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (r *RedisKV) Delete(ctx context.Context, owner, key string) error {
	if err := r.client.Del(ctx, redisKey(owner, key)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (r *RedisKV) Close() error {
	return r.client.Close()
}

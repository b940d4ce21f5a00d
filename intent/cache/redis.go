package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisConfig struct {
	Addr     string `split_words:"true" default:"localhost:6379"`
	Password string `split_words:"true"`
	DB       int    `split_words:"true" default:"0"`
}

// Redis stores labels in a Redis server over the native protocol.
type Redis struct {
	client    redis.UniversalClient
	keyPrefix string
	ttl       time.Duration
}

func NewRedis(cfg RedisConfig, opts ...Option) (*Redis, error) {
	addr := strings.TrimSpace(cfg.Addr)
	if addr == "" {
		return nil, errors.New("redis addr is required")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return NewRedisWithClient(client, opts...)
}

func NewRedisWithClient(client redis.UniversalClient, opts ...Option) (*Redis, error) {
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	o, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}
	return &Redis{client: client, keyPrefix: o.keyPrefix, ttl: o.ttl}, nil
}

func (r *Redis) Get(ctx context.Context, text string) (string, bool, error) {
	label, err := r.client.Get(ctx, labelKey(r.keyPrefix, text)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get label: %w", err)
	}
	return label, true, nil
}

func (r *Redis) Set(ctx context.Context, text string, label string) error {
	if err := r.client.Set(ctx, labelKey(r.keyPrefix, text), label, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set label: %w", err)
	}
	return nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}

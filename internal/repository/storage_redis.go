package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/nikolayk812/rocketcart/internal/domain"
	"github.com/nikolayk812/rocketcart/internal/port"
)

type redisStorage struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) port.Storage {
	return &redisStorage{client: client}
}

func (s *redisStorage) Get(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, fmt.Errorf("key is empty")
	}

	value, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("key[%s]: %w", key, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("client.Get: %w", err)
	}

	return value, nil
}

func (s *redisStorage) Set(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return fmt.Errorf("key is empty")
	}

	// no expiration: the cart outlives sessions
	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("client.Set: %w", err)
	}

	return nil
}

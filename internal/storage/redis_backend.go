package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "domeda:collection:"

// RedisBackend хранит каждую коллекцию в отдельном ключе Redis.
type RedisBackend struct {
	client *redis.Client
}

// NewRedisBackend создаёт новый экземпляр RedisBackend.
func NewRedisBackend(client *redis.Client) *RedisBackend {
	return &RedisBackend{client: client}
}

func (b *RedisBackend) Read(ctx context.Context, name string) ([]byte, error) {
	data, err := b.client.Get(ctx, redisKeyPrefix+name).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCollectionNotFound
		}
		return nil, fmt.Errorf("failed to get collection %s: %w", name, err)
	}
	return data, nil
}

func (b *RedisBackend) Write(ctx context.Context, name string, data []byte) error {
	if err := b.client.Set(ctx, redisKeyPrefix+name, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to set collection %s: %w", name, err)
	}
	return nil
}

// WriteBatch записывает коллекции в одном MULTI/EXEC.
func (b *RedisBackend) WriteBatch(ctx context.Context, docs map[string][]byte) error {
	_, err := b.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for name, data := range docs {
			pipe.Set(ctx, redisKeyPrefix+name, data, 0)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to write collections: %w", err)
	}
	return nil
}

package switches

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisHash is the hash holding every switch as a field.
const DefaultRedisHash = "pihooks:switches"

// RedisStore keeps switches as fields of one redis hash so a snapshot is a
// single HGETALL.
type RedisStore struct {
	client redis.UniversalClient
	hash   string
}

// NewRedis constructs a redis-backed store. An empty hash uses DefaultRedisHash.
func NewRedis(client redis.UniversalClient, hash string) *RedisStore {
	if hash == "" {
		hash = DefaultRedisHash
	}
	return &RedisStore{client: client, hash: hash}
}

func (s *RedisStore) Snapshot(ctx context.Context) (Snapshot, error) {
	values, err := s.client.HGetAll(ctx, s.hash).Result()
	if err != nil {
		return Snapshot{}, fmt.Errorf("load switches from redis: %w", err)
	}
	return Snapshot{values: values}, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.HSet(ctx, s.hash, key, value).Err(); err != nil {
		return fmt.Errorf("set switch %s in redis: %w", key, err)
	}
	return nil
}

package checkout

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps the id under "<namespace>:checkout_session_id".
type RedisStore struct {
	client *redis.Client
	key    string
}

func NewRedisStore(client *redis.Client, namespace string) *RedisStore {
	key := Key
	if namespace != "" {
		key = namespace + ":" + Key
	}
	return &RedisStore{client: client, key: key}
}

func (s *RedisStore) Save(ctx context.Context, sessionID string) error {
	return s.client.Set(ctx, s.key, sessionID, 0).Err()
}

func (s *RedisStore) Get(ctx context.Context) (string, bool, error) {
	v, err := s.client.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	return s.client.Del(ctx, s.key).Err()
}

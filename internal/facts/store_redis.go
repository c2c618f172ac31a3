package facts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"codee/pkg/platform/sentinel"
)

const factsKeyPrefix = "facts:conv:"

// RedisStore shares conversation facts across instances. Keys expire after
// the configured TTL; every read or write slides the expiry so an active
// conversation never loses its facts mid-flow.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func factsKey(conversationID string) string {
	return factsKeyPrefix + conversationID
}

func (s *RedisStore) Get(ctx context.Context, conversationID string) (*Facts, error) {
	key := factsKey(conversationID)
	raw, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get facts %s: %w", conversationID, err)
	}

	var f Facts
	if err := json.Unmarshal([]byte(raw), &f); err != nil {
		return nil, fmt.Errorf("decode facts %s: %w", conversationID, err)
	}

	if err := s.client.Expire(ctx, key, s.ttl).Err(); err != nil {
		return nil, fmt.Errorf("refresh facts ttl %s: %w", conversationID, err)
	}
	return &f, nil
}

func (s *RedisStore) Save(ctx context.Context, conversationID string, f *Facts) error {
	data, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("encode facts %s: %w", conversationID, err)
	}
	if err := s.client.Set(ctx, factsKey(conversationID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save facts %s: %w", conversationID, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, conversationID string) error {
	if err := s.client.Del(ctx, factsKey(conversationID)).Err(); err != nil {
		return fmt.Errorf("delete facts %s: %w", conversationID, err)
	}
	return nil
}

package progress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/EdinsonB/Portal-Certificacion-Comercios/pkg/domain"
)

// RedisStore persists progress blobs in Redis under the legacy key schema.
// This is the production-recommended store when multiple portal instances
// share state.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Save(ctx context.Context, nit domain.NIT, state *State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, storageKey(nit), data, 0).Err(); err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	return nil
}

func (s *RedisStore) Load(ctx context.Context, nit domain.NIT) (*State, error) {
	data, err := s.client.Get(ctx, storageKey(nit)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}
	state := NewState()
	if err := json.Unmarshal(data, state); err != nil {
		return nil, fmt.Errorf("decode progress: %w", err)
	}
	return state, nil
}

func (s *RedisStore) Delete(ctx context.Context, nit domain.NIT) error {
	// One DEL for the whole key family; Redis ignores absent keys, which
	// keeps deletion idempotent.
	if err := s.client.Del(ctx, legacyKeys(nit)...).Err(); err != nil {
		return fmt.Errorf("delete progress: %w", err)
	}
	return nil
}

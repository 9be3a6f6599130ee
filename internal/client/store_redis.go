package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/EdinsonB/Portal-Certificacion-Comercios/pkg/domain"
)

const indexKey = "clientes_index"

// RedisStore persists merchant records as JSON blobs under the legacy
// "cliente_<nit>" keys, with a set index so List stays a two-command
// operation instead of a SCAN.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Save(ctx context.Context, record Record) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	pipe := s.client.Pipeline()
	pipe.Set(ctx, storageKey(record.NIT), data, 0)
	pipe.SAdd(ctx, indexKey, record.NIT.String())
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save client: %w", err)
	}
	return nil
}

func (s *RedisStore) Find(ctx context.Context, nit domain.NIT) (Record, error) {
	data, err := s.client.Get(ctx, storageKey(nit)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("find client: %w", err)
	}
	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		return Record{}, fmt.Errorf("decode client: %w", err)
	}
	return record, nil
}

func (s *RedisStore) Delete(ctx context.Context, nit domain.NIT) error {
	pipe := s.client.Pipeline()
	pipe.Del(ctx, storageKey(nit))
	pipe.SRem(ctx, indexKey, nit.String())
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	return nil
}

func (s *RedisStore) List(ctx context.Context) ([]Record, error) {
	nits, err := s.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	out := make([]Record, 0, len(nits))
	for _, n := range nits {
		record, err := s.Find(ctx, domain.NIT(n))
		if errors.Is(err, ErrNotFound) {
			continue // index entry outlived its record; skip
		}
		if err != nil {
			return nil, err
		}
		out = append(out, record)
	}
	return out, nil
}

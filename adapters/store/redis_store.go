package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/squadlabs/zkconnect/core"
	"github.com/squadlabs/zkconnect/ports"
)

// RedisStore is a Redis implementation of the ParamStore interface. Entries
// carry no TTL: proof params stay valid until their max epoch, which the
// store cannot observe.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a new Redis param store.
func NewRedisStore(client *redis.Client) ports.ParamStore {
	return &RedisStore{
		client: client,
		prefix: "zkconnect:params:",
	}
}

// SaveParams stores the proof parameter triple under id.
func (s *RedisStore) SaveParams(ctx context.Context, id string, params core.ProofParams) error {
	raw, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("failed to encode proof params: %w", err)
	}

	if err := s.client.Set(ctx, s.prefix+id, raw, 0).Err(); err != nil {
		return core.WrapError(core.KindService, err, "failed to save proof params for %s", id)
	}
	return nil
}

// LoadParams retrieves the proof parameter triple stored under id.
func (s *RedisStore) LoadParams(ctx context.Context, id string) (core.ProofParams, error) {
	raw, err := s.client.Get(ctx, s.prefix+id).Bytes()
	if err == redis.Nil {
		return core.ProofParams{}, core.NewError(core.KindService, "no proof params stored for %s", id)
	}
	if err != nil {
		return core.ProofParams{}, core.WrapError(core.KindService, err, "failed to load proof params for %s", id)
	}

	var params core.ProofParams
	if err := json.Unmarshal(raw, &params); err != nil {
		return core.ProofParams{}, core.WrapError(core.KindService, err, "stored proof params for %s are corrupt", id)
	}
	return params, nil
}

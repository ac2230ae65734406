package store

import (
	"context"
	"sync"

	"github.com/squadlabs/zkconnect/core"
	"github.com/squadlabs/zkconnect/ports"
)

// MemoryStore is an in-memory implementation of the ParamStore interface,
// primarily intended for tests and single-process use.
type MemoryStore struct {
	params map[string]core.ProofParams
	mu     sync.RWMutex
}

// NewMemoryStore creates a new in-memory param store.
func NewMemoryStore() ports.ParamStore {
	return &MemoryStore{
		params: make(map[string]core.ProofParams),
	}
}

// SaveParams stores the proof parameter triple under id, replacing any
// previous value.
func (s *MemoryStore) SaveParams(ctx context.Context, id string, params core.ProofParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.params[id] = params
	return nil
}

// LoadParams retrieves the proof parameter triple stored under id.
func (s *MemoryStore) LoadParams(ctx context.Context, id string) (core.ProofParams, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	params, ok := s.params[id]
	if !ok {
		return core.ProofParams{}, core.NewError(core.KindService, "no proof params stored for %s", id)
	}
	return params, nil
}

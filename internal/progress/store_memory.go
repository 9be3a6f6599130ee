package progress

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/EdinsonB/Portal-Certificacion-Comercios/pkg/domain"
)

// InMemoryStore keeps serialized progress blobs in a map. It intentionally
// stores the wire form, not *State, so it exercises the same round-trip as
// the external stores.
type InMemoryStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{blobs: make(map[string][]byte)}
}

func (s *InMemoryStore) Save(_ context.Context, nit domain.NIT, state *State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[storageKey(nit)] = data
	return nil
}

func (s *InMemoryStore) Load(_ context.Context, nit domain.NIT) (*State, error) {
	s.mu.RLock()
	data, ok := s.blobs[storageKey(nit)]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	state := NewState()
	if err := json.Unmarshal(data, state); err != nil {
		return nil, err
	}
	return state, nil
}

func (s *InMemoryStore) Delete(_ context.Context, nit domain.NIT) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range legacyKeys(nit) {
		delete(s.blobs, key)
	}
	return nil
}

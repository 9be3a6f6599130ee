package client

import (
	"context"
	"sort"
	"sync"

	"github.com/EdinsonB/Portal-Certificacion-Comercios/pkg/domain"
)

// InMemoryStore keeps records in a map. It intentionally favors clarity
// over performance and is the default for local development and tests.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{records: make(map[string]Record)}
}

func (s *InMemoryStore) Save(_ context.Context, record Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[storageKey(record.NIT)] = record
	return nil
}

func (s *InMemoryStore) Find(_ context.Context, nit domain.NIT) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if record, ok := s.records[storageKey(nit)]; ok {
		return record, nil
	}
	return Record{}, ErrNotFound
}

func (s *InMemoryStore) Delete(_ context.Context, nit domain.NIT) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, storageKey(nit))
	return nil
}

func (s *InMemoryStore) List(_ context.Context) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Record, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].NIT < out[j].NIT })
	return out, nil
}

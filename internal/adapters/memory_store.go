package adapters

import (
	"context"
	"fmt"
	"sync"

	"github.com/viewsnap/viewsnap/pkg/domain"
)

// MemoryStore implements ports.SnapshotStore in memory.
// Safe for concurrent use. Intended for tests and ephemeral builds.
type MemoryStore struct {
	data map[domain.ArtifactKey][]byte
	mu   sync.RWMutex
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[domain.ArtifactKey][]byte),
	}
}

// Write stores a copy of the artifact bytes.
func (s *MemoryStore) Write(_ context.Context, key domain.ArtifactKey, data []byte) error {
	// Copy on write so the caller can't mutate stored bytes afterwards.
	copied := make([]byte, len(data))
	copy(copied, data)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = copied
	return nil
}

// Read retrieves the artifact bytes.
func (s *MemoryStore) Read(_ context.Context, key domain.ArtifactKey) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.data[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrArtifactNotFound, key)
	}

	ret := make([]byte, len(data))
	copy(ret, data)
	return ret, nil
}

// Delete removes the artifact. Absent keys are fine.
func (s *MemoryStore) Delete(_ context.Context, key domain.ArtifactKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// List returns all stored keys.
func (s *MemoryStore) List(_ context.Context) ([]domain.ArtifactKey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]domain.ArtifactKey, 0, len(s.data))
	for key := range s.data {
		keys = append(keys, key)
	}
	return keys, nil
}

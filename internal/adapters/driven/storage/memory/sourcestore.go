// Package memory provides in-memory store implementations, used in
// tests and for ephemeral runs without a config directory.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/meridian-labs/omnisearch-cli/internal/core/domain"
	"github.com/meridian-labs/omnisearch-cli/internal/core/ports/driven"
)

// Ensure SourceStore implements the interface.
var _ driven.SourceStore = (*SourceStore)(nil)

// SourceStore is an in-memory implementation of driven.SourceStore.
type SourceStore struct {
	mu      sync.RWMutex
	sources map[string]domain.Source
	order   []string
}

// NewSourceStore creates a new in-memory source store.
func NewSourceStore() *SourceStore {
	return &SourceStore{
		sources: make(map[string]domain.Source),
	}
}

// Save stores or updates a source.
func (s *SourceStore) Save(_ context.Context, source domain.Source) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.sources[source.ID]; !exists {
		s.order = append(s.order, source.ID)
	}
	s.sources[source.ID] = source
	return nil
}

// Get retrieves a source by ID.
func (s *SourceStore) Get(_ context.Context, id string) (*domain.Source, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	source, ok := s.sources[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &source, nil
}

// Delete removes a source.
func (s *SourceStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sources[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.sources, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// List returns all configured sources in insertion order. A stable
// order keeps adapter selection, and therefore tie-breaking in the
// merged result list, deterministic.
func (s *SourceStore) List(_ context.Context) ([]domain.Source, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, len(s.order))
	copy(ids, s.order)
	sort.SliceStable(ids, func(i, j int) bool {
		return s.sources[ids[i]].CreatedAt.Before(s.sources[ids[j]].CreatedAt)
	})

	result := make([]domain.Source, 0, len(ids))
	for _, id := range ids {
		result = append(result, s.sources[id])
	}
	return result, nil
}

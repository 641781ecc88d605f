// Package store provides the article fetch capability: memory for tests and
// seeds, postgres for the real corpus, and a redis read-through cache
// decorator.
package store

import (
	"context"
	"sync"

	artmodels "chronicle/internal/article/models"
)

// InMemoryStore serves articles from a map. Fetches are tolerant of unknown
// ids: the found subset comes back and missing ids are simply absent.
type InMemoryStore struct {
	mu       sync.RWMutex
	articles map[string]artmodels.Article
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{articles: make(map[string]artmodels.Article)}
}

// Seed inserts or replaces articles.
func (s *InMemoryStore) Seed(articles ...artmodels.Article) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range articles {
		s.articles[a.ID] = a
	}
}

func (s *InMemoryStore) FetchByIDs(_ context.Context, ids []string) ([]artmodels.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []artmodels.Article
	for _, id := range ids {
		if a, ok := s.articles[id]; ok {
			out = append(out, a)
		}
	}
	return out, nil
}

// Package store provides the subject-content capability: the raw
// category/subcategory/event payload per subject, already schema-normalized
// upstream.
package store

import (
	"context"
	"sync"

	"chronicle/internal/timeline/models"
	dErrors "chronicle/pkg/domain-errors"
)

// ErrSubjectNotFound is returned for unknown subject ids.
var ErrSubjectNotFound = dErrors.New(dErrors.CodeNotFound, "subject not found")

// InMemoryStore holds subject payloads in a map.
type InMemoryStore struct {
	mu       sync.RWMutex
	subjects map[string]models.SubjectContent
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{subjects: make(map[string]models.SubjectContent)}
}

// Seed inserts or replaces a subject payload.
func (s *InMemoryStore) Seed(content models.SubjectContent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subjects[content.SubjectID] = content
}

func (s *InMemoryStore) GetSubjectContent(_ context.Context, subjectID string) (models.SubjectContent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	content, ok := s.subjects[subjectID]
	if !ok {
		return models.SubjectContent{}, ErrSubjectNotFound
	}
	return content, nil
}

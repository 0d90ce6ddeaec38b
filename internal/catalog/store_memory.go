package catalog

import (
	"context"
	"sync"

	"resona/pkg/platform/sentinel"
)

type memoryKey struct {
	kind Kind
	id   string
}

// InMemory is a Summarizer over a map. Test fixture and no-database default.
type InMemory struct {
	mu   sync.RWMutex
	rows map[memoryKey]Summary
}

func NewInMemory() *InMemory {
	return &InMemory{rows: make(map[memoryKey]Summary)}
}

// Put installs a summary.
func (s *InMemory) Put(summary Summary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[memoryKey{kind: summary.Kind, id: summary.ID}] = summary
}

func (s *InMemory) Summarize(_ context.Context, kind Kind, id string) (Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if summary, ok := s.rows[memoryKey{kind: kind, id: id}]; ok {
		return summary, nil
	}
	return Summary{}, sentinel.ErrNotFound
}

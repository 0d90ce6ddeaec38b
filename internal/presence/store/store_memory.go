package store

import (
	"context"
	"sync"

	"resona/internal/presence"
	"resona/pkg/domain"
	"resona/pkg/platform/sentinel"
)

// InMemory keeps presence rows in a map. Primary fixture for tests and the
// default when no database is configured.
type InMemory struct {
	mu   sync.RWMutex
	rows map[domain.UserID]presence.Presence
}

func NewInMemory() *InMemory {
	return &InMemory{rows: make(map[domain.UserID]presence.Presence)}
}

func (s *InMemory) Upsert(_ context.Context, p presence.Presence) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[p.UserID] = p
	return nil
}

func (s *InMemory) Find(_ context.Context, userID domain.UserID) (presence.Presence, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.rows[userID]; ok {
		return p, nil
	}
	return presence.Presence{}, sentinel.ErrNotFound
}

package store

import (
	"context"
	"sort"
	"sync"

	"resona/internal/activity"
	"resona/pkg/domain"
	"resona/pkg/pagination"
)

// InMemory keeps the event log in a slice, append order.
type InMemory struct {
	mu     sync.RWMutex
	events []activity.Event
}

func NewInMemory() *InMemory {
	return &InMemory{}
}

func (s *InMemory) Append(_ context.Context, e activity.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return nil
}

func (s *InMemory) ListByActors(_ context.Context, actors []domain.UserID, p pagination.Params) ([]activity.Event, int, error) {
	wanted := make(map[domain.UserID]struct{}, len(actors))
	for _, a := range actors {
		wanted[a] = struct{}{}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []activity.Event
	for _, e := range s.events {
		if _, ok := wanted[e.Actor]; ok {
			matched = append(matched, e)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	start := p.Offset()
	if start >= total {
		return nil, total, nil
	}
	end := start + p.Limit
	if end > total {
		end = total
	}
	page := make([]activity.Event, end-start)
	copy(page, matched[start:end])
	return page, total, nil
}

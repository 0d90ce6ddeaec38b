package store

import (
	"context"
	"sort"
	"sync"

	"resona/internal/notification"
	"resona/pkg/domain"
	"resona/pkg/pagination"
)

// InMemory keeps notifications per recipient, newest first on read.
type InMemory struct {
	mu   sync.RWMutex
	rows map[domain.UserID][]notification.Notification
}

func NewInMemory() *InMemory {
	return &InMemory{rows: make(map[domain.UserID][]notification.Notification)}
}

func (s *InMemory) Create(_ context.Context, n notification.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[n.Recipient] = append(s.rows[n.Recipient], n)
	return nil
}

func (s *InMemory) List(_ context.Context, recipient domain.UserID, unreadOnly bool, p pagination.Params) ([]notification.Notification, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []notification.Notification
	for _, n := range s.rows[recipient] {
		if unreadOnly && n.Read {
			continue
		}
		matched = append(matched, n)
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
	page := make([]notification.Notification, end-start)
	copy(page, matched[start:end])
	return page, total, nil
}

func (s *InMemory) MarkRead(_ context.Context, recipient domain.UserID, ids []domain.NotificationID) (int, error) {
	wanted := idSet(ids)

	s.mu.Lock()
	defer s.mu.Unlock()

	updated := 0
	rows := s.rows[recipient]
	for i := range rows {
		if _, ok := wanted[rows[i].ID]; ok && !rows[i].Read {
			rows[i].Read = true
			updated++
		}
	}
	return updated, nil
}

func (s *InMemory) Delete(_ context.Context, recipient domain.UserID, ids []domain.NotificationID) (int, error) {
	wanted := idSet(ids)

	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.rows[recipient][:0]
	deleted := 0
	for _, n := range s.rows[recipient] {
		if _, ok := wanted[n.ID]; ok {
			deleted++
			continue
		}
		kept = append(kept, n)
	}
	s.rows[recipient] = kept
	return deleted, nil
}

func (s *InMemory) DeleteAll(_ context.Context, recipient domain.UserID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	deleted := len(s.rows[recipient])
	delete(s.rows, recipient)
	return deleted, nil
}

func idSet(ids []domain.NotificationID) map[domain.NotificationID]struct{} {
	set := make(map[domain.NotificationID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

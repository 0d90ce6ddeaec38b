package social

import (
	"context"
	"sync"

	"resona/pkg/domain"
	"resona/pkg/platform/sentinel"
)

// InMemory is a Resolver over in-process maps. Primary test fixture, and the
// default graph when no database is configured. Mutators exist so fixtures
// and the dev server can shape the graph.
type InMemory struct {
	mu            sync.RWMutex
	followers     map[domain.UserID]map[domain.UserID]struct{}
	following     map[domain.UserID]map[domain.UserID]struct{}
	collaborators map[domain.PlaylistID][]domain.UserID
	profiles      map[domain.UserID]Profile
}

func NewInMemory() *InMemory {
	return &InMemory{
		followers:     make(map[domain.UserID]map[domain.UserID]struct{}),
		following:     make(map[domain.UserID]map[domain.UserID]struct{}),
		collaborators: make(map[domain.PlaylistID][]domain.UserID),
		profiles:      make(map[domain.UserID]Profile),
	}
}

// Follow records follower -> followee.
func (s *InMemory) Follow(follower, followee domain.UserID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.followers[followee] == nil {
		s.followers[followee] = make(map[domain.UserID]struct{})
	}
	s.followers[followee][follower] = struct{}{}
	if s.following[follower] == nil {
		s.following[follower] = make(map[domain.UserID]struct{})
	}
	s.following[follower][followee] = struct{}{}
}

// SetCollaborators replaces a playlist's member list.
func (s *InMemory) SetCollaborators(playlistID domain.PlaylistID, members []domain.UserID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collaborators[playlistID] = append([]domain.UserID(nil), members...)
}

// PutProfile installs display fields for a user.
func (s *InMemory) PutProfile(p Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[p.ID] = p
}

func (s *InMemory) Followers(_ context.Context, userID domain.UserID) ([]domain.UserID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.UserID, 0, len(s.followers[userID]))
	for id := range s.followers[userID] {
		out = append(out, id)
	}
	return out, nil
}

func (s *InMemory) Following(_ context.Context, userID domain.UserID) ([]domain.UserID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.UserID, 0, len(s.following[userID]))
	for id := range s.following[userID] {
		out = append(out, id)
	}
	return out, nil
}

func (s *InMemory) Collaborators(_ context.Context, playlistID domain.PlaylistID) ([]domain.UserID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.UserID(nil), s.collaborators[playlistID]...), nil
}

func (s *InMemory) Profile(_ context.Context, userID domain.UserID) (Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.profiles[userID]; ok {
		return p, nil
	}
	return Profile{}, sentinel.ErrNotFound
}

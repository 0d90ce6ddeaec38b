package social

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"resona/pkg/domain"
	"resona/pkg/platform/sentinel"
)

type InMemorySuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func (s *InMemorySuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func TestInMemorySuite(t *testing.T) {
	suite.Run(t, new(InMemorySuite))
}

func (s *InMemorySuite) TestFollowersAndFollowing() {
	alice := domain.NewUserID()
	bob := domain.NewUserID()
	carol := domain.NewUserID()

	s.store.Follow(bob, alice)
	s.store.Follow(carol, alice)

	followers, err := s.store.Followers(s.ctx, alice)
	s.Require().NoError(err)
	s.ElementsMatch([]domain.UserID{bob, carol}, followers)

	following, err := s.store.Following(s.ctx, bob)
	s.Require().NoError(err)
	s.ElementsMatch([]domain.UserID{alice}, following)

	// Following is directional.
	followers, err = s.store.Followers(s.ctx, bob)
	s.Require().NoError(err)
	s.Empty(followers)
}

func (s *InMemorySuite) TestCollaborators() {
	playlist := domain.NewPlaylistID()
	members := []domain.UserID{domain.NewUserID(), domain.NewUserID()}

	got, err := s.store.Collaborators(s.ctx, playlist)
	s.Require().NoError(err)
	s.Empty(got)

	s.store.SetCollaborators(playlist, members)
	got, err = s.store.Collaborators(s.ctx, playlist)
	s.Require().NoError(err)
	s.ElementsMatch(members, got)
}

func (s *InMemorySuite) TestProfile() {
	userID := domain.NewUserID()

	_, err := s.store.Profile(s.ctx, userID)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)

	s.store.PutProfile(Profile{ID: userID, DisplayName: "miles"})
	p, err := s.store.Profile(s.ctx, userID)
	s.Require().NoError(err)
	s.Equal("miles", p.DisplayName)
}

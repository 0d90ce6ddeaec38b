package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"resona/internal/activity"
	"resona/internal/activity/store"
	"resona/internal/catalog"
	"resona/internal/social"
	"resona/pkg/domain"
	dErrors "resona/pkg/domain-errors"
	"resona/pkg/pagination"
)

type ActivityServiceSuite struct {
	suite.Suite
	svc     *Service
	graph   *social.InMemory
	catalog *catalog.InMemory
	ctx     context.Context
	now     time.Time
}

func (s *ActivityServiceSuite) SetupTest() {
	s.graph = social.NewInMemory()
	s.catalog = catalog.NewInMemory()
	s.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.svc = New(store.NewInMemory(), s.graph, s.catalog, WithClock(func() time.Time {
		t := s.now
		s.now = s.now.Add(time.Second)
		return t
	}))
	s.ctx = context.Background()
}

func TestActivityServiceSuite(t *testing.T) {
	suite.Run(t, new(ActivityServiceSuite))
}

func (s *ActivityServiceSuite) TestRecord() {
	actor := domain.NewUserID()

	e, err := s.svc.Record(s.ctx, actor, activity.KindPlay, domain.NewTrackID().String(), nil)
	s.Require().NoError(err)
	s.False(e.ID.IsNil())
	s.Equal(actor, e.Actor)

	s.Run("unknown kind rejected", func() {
		_, err := s.svc.Record(s.ctx, actor, activity.Kind("yodel"), "", nil)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	s.Run("garbage metadata rejected", func() {
		_, err := s.svc.Record(s.ctx, actor, activity.KindPlay, "", []byte("{nope"))
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})
}

func (s *ActivityServiceSuite) TestFeedVisibility() {
	alice := domain.NewUserID()
	bob := domain.NewUserID()
	carol := domain.NewUserID()

	// Bob follows Alice. Carol follows no one.
	s.graph.Follow(bob, alice)

	_, err := s.svc.Record(s.ctx, alice, activity.KindPlay, domain.NewTrackID().String(), nil)
	s.Require().NoError(err)
	_, err = s.svc.Record(s.ctx, carol, activity.KindLike, domain.NewTrackID().String(), nil)
	s.Require().NoError(err)

	s.Run("follower sees followed actor's events", func() {
		page, err := s.svc.Feed(s.ctx, bob, pagination.Params{Page: 1, Limit: 10})
		s.Require().NoError(err)
		s.Require().Len(page.Items, 1)
		s.Equal(alice, page.Items[0].Actor)
	})

	s.Run("actor sees own events", func() {
		page, err := s.svc.Feed(s.ctx, carol, pagination.Params{Page: 1, Limit: 10})
		s.Require().NoError(err)
		s.Require().Len(page.Items, 1)
		s.Equal(carol, page.Items[0].Actor)
	})

	s.Run("non-follower sees nothing of others", func() {
		page, err := s.svc.Feed(s.ctx, alice, pagination.Params{Page: 1, Limit: 10})
		s.Require().NoError(err)
		s.Require().Len(page.Items, 1)
		s.Equal(alice, page.Items[0].Actor)
	})
}

func (s *ActivityServiceSuite) TestFeedEnrichment() {
	alice := domain.NewUserID()
	track := domain.NewTrackID()

	s.graph.PutProfile(social.Profile{ID: alice, DisplayName: "alice"})
	s.catalog.Put(catalog.Summary{
		ID: track.String(), Kind: catalog.KindTrack, Title: "So What", Subtitle: "Miles Davis",
	})

	_, err := s.svc.Record(s.ctx, alice, activity.KindPlay, track.String(), nil)
	s.Require().NoError(err)

	page, err := s.svc.Feed(s.ctx, alice, pagination.Params{Page: 1, Limit: 10})
	s.Require().NoError(err)
	s.Require().Len(page.Items, 1)

	item := page.Items[0]
	s.Equal("alice", item.ActorProfile.DisplayName)
	s.Require().NotNil(item.Target)
	s.Equal("So What", item.Target.Title)
	s.Equal(catalog.KindTrack, item.Target.Kind)
}

func (s *ActivityServiceSuite) TestFeedToleratesDeletedTarget() {
	alice := domain.NewUserID()

	_, err := s.svc.Record(s.ctx, alice, activity.KindPlay, domain.NewTrackID().String(), nil)
	s.Require().NoError(err)

	page, err := s.svc.Feed(s.ctx, alice, pagination.Params{Page: 1, Limit: 10})
	s.Require().NoError(err)
	s.Require().Len(page.Items, 1)
	s.Nil(page.Items[0].Target)
}

func (s *ActivityServiceSuite) TestFeedNewestFirst() {
	alice := domain.NewUserID()

	first, err := s.svc.Record(s.ctx, alice, activity.KindPlay, domain.NewTrackID().String(), nil)
	s.Require().NoError(err)
	second, err := s.svc.Record(s.ctx, alice, activity.KindLike, domain.NewTrackID().String(), nil)
	s.Require().NoError(err)

	page, err := s.svc.Feed(s.ctx, alice, pagination.Params{Page: 1, Limit: 10})
	s.Require().NoError(err)
	s.Require().Len(page.Items, 2)
	s.Equal(second.ID, page.Items[0].ID)
	s.Equal(first.ID, page.Items[1].ID)
}

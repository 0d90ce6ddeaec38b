package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"resona/internal/presence"
	"resona/internal/presence/store"
	"resona/pkg/domain"
)

type PresenceServiceSuite struct {
	suite.Suite
	svc *Service
	ctx context.Context
	now time.Time
}

func (s *PresenceServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.svc = New(store.NewInMemory(), WithClock(func() time.Time { return s.now }))
}

func TestPresenceServiceSuite(t *testing.T) {
	suite.Run(t, new(PresenceServiceSuite))
}

func (s *PresenceServiceSuite) TestMarkOnline() {
	userID := domain.NewUserID()

	p, err := s.svc.MarkOnline(s.ctx, userID)
	s.Require().NoError(err)
	s.Equal(presence.StatusOnline, p.Status)
	s.Equal(s.now, p.LastSeen)

	s.Run("repeat only refreshes lastSeen", func() {
		s.now = s.now.Add(time.Minute)
		again, err := s.svc.MarkOnline(s.ctx, userID)
		s.Require().NoError(err)
		s.Equal(presence.StatusOnline, again.Status)
		s.Equal(s.now, again.LastSeen)
	})

	s.Run("repeat keeps existing activity", func() {
		_, err := s.svc.UpdateActivity(s.ctx, userID, &presence.Activity{Type: "listening", Name: "So What"})
		s.Require().NoError(err)

		p, err := s.svc.MarkOnline(s.ctx, userID)
		s.Require().NoError(err)
		s.Require().NotNil(p.Activity)
		s.Equal("So What", p.Activity.Name)
	})
}

func (s *PresenceServiceSuite) TestLifecycle() {
	userID := domain.NewUserID()

	_, err := s.svc.MarkOnline(s.ctx, userID)
	s.Require().NoError(err)

	_, err = s.svc.UpdateActivity(s.ctx, userID, &presence.Activity{Type: "listening", Name: "Blue in Green"})
	s.Require().NoError(err)

	snap, err := s.svc.Snapshot(s.ctx, userID)
	s.Require().NoError(err)
	s.Equal(presence.StatusOnline, snap.Status)
	s.Require().NotNil(snap.Activity)
	s.Equal("Blue in Green", snap.Activity.Name)

	off, err := s.svc.MarkOffline(s.ctx, userID)
	s.Require().NoError(err)
	s.Equal(presence.StatusOffline, off.Status)
	s.Nil(off.Activity)

	snap, err = s.svc.Snapshot(s.ctx, userID)
	s.Require().NoError(err)
	s.Equal(presence.StatusOffline, snap.Status)
}

func (s *PresenceServiceSuite) TestSnapshotUnknownUserReadsOffline() {
	snap, err := s.svc.Snapshot(s.ctx, domain.NewUserID())
	s.Require().NoError(err)
	s.Equal(presence.StatusOffline, snap.Status)
	s.True(snap.LastSeen.IsZero())
}

func (s *PresenceServiceSuite) TestNoTransitionProducesAway() {
	userID := domain.NewUserID()

	_, err := s.svc.MarkOnline(s.ctx, userID)
	s.Require().NoError(err)
	_, err = s.svc.UpdateActivity(s.ctx, userID, nil)
	s.Require().NoError(err)
	_, err = s.svc.MarkOffline(s.ctx, userID)
	s.Require().NoError(err)

	snap, err := s.svc.Snapshot(s.ctx, userID)
	s.Require().NoError(err)
	s.NotEqual(presence.StatusAway, snap.Status)
}

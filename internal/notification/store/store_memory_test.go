package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"resona/internal/notification"
	"resona/pkg/domain"
	"resona/pkg/pagination"
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

func (s *InMemorySuite) create(recipient domain.UserID, createdAt time.Time) notification.Notification {
	n := notification.Notification{
		ID:        domain.NewNotificationID(),
		Recipient: recipient,
		Kind:      notification.KindSystem,
		Message:   "hello",
		CreatedAt: createdAt,
	}
	s.Require().NoError(s.store.Create(s.ctx, n))
	return n
}

func (s *InMemorySuite) TestListNewestFirstPaginated() {
	recipient := domain.NewUserID()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	var created []notification.Notification
	for i := 0; i < 5; i++ {
		created = append(created, s.create(recipient, base.Add(time.Duration(i)*time.Minute)))
	}

	page, total, err := s.store.List(s.ctx, recipient, false, pagination.Params{Page: 1, Limit: 2})
	s.Require().NoError(err)
	s.Equal(5, total)
	s.Require().Len(page, 2)
	s.Equal(created[4].ID, page[0].ID)
	s.Equal(created[3].ID, page[1].ID)

	page, _, err = s.store.List(s.ctx, recipient, false, pagination.Params{Page: 3, Limit: 2})
	s.Require().NoError(err)
	s.Require().Len(page, 1)
	s.Equal(created[0].ID, page[0].ID)

	page, total, err = s.store.List(s.ctx, recipient, false, pagination.Params{Page: 9, Limit: 2})
	s.Require().NoError(err)
	s.Equal(5, total)
	s.Empty(page)
}

func (s *InMemorySuite) TestUnreadFilterAndMarkRead() {
	recipient := domain.NewUserID()
	now := time.Now()
	a := s.create(recipient, now)
	b := s.create(recipient, now.Add(time.Second))

	unread, total, err := s.store.List(s.ctx, recipient, true, pagination.Params{Page: 1, Limit: 10})
	s.Require().NoError(err)
	s.Equal(2, total)
	s.Len(unread, 2)

	updated, err := s.store.MarkRead(s.ctx, recipient, []domain.NotificationID{a.ID})
	s.Require().NoError(err)
	s.Equal(1, updated)

	unread, total, err = s.store.List(s.ctx, recipient, true, pagination.Params{Page: 1, Limit: 10})
	s.Require().NoError(err)
	s.Equal(1, total)
	s.Require().Len(unread, 1)
	s.Equal(b.ID, unread[0].ID)

	s.Run("marking again is a no-op", func() {
		updated, err := s.store.MarkRead(s.ctx, recipient, []domain.NotificationID{a.ID})
		s.Require().NoError(err)
		s.Equal(0, updated)
	})
}

func (s *InMemorySuite) TestRecipientScoping() {
	alice := domain.NewUserID()
	bob := domain.NewUserID()
	n := s.create(alice, time.Now())
	s.create(bob, time.Now())

	// Bob cannot read, mark, or delete Alice's records.
	_, total, err := s.store.List(s.ctx, bob, false, pagination.Params{Page: 1, Limit: 10})
	s.Require().NoError(err)
	s.Equal(1, total)

	updated, err := s.store.MarkRead(s.ctx, bob, []domain.NotificationID{n.ID})
	s.Require().NoError(err)
	s.Equal(0, updated)

	deleted, err := s.store.Delete(s.ctx, bob, []domain.NotificationID{n.ID})
	s.Require().NoError(err)
	s.Equal(0, deleted)
}

func (s *InMemorySuite) TestDelete() {
	recipient := domain.NewUserID()
	a := s.create(recipient, time.Now())
	s.create(recipient, time.Now())

	deleted, err := s.store.Delete(s.ctx, recipient, []domain.NotificationID{a.ID})
	s.Require().NoError(err)
	s.Equal(1, deleted)

	_, total, err := s.store.List(s.ctx, recipient, false, pagination.Params{Page: 1, Limit: 10})
	s.Require().NoError(err)
	s.Equal(1, total)

	deleted, err = s.store.DeleteAll(s.ctx, recipient)
	s.Require().NoError(err)
	s.Equal(1, deleted)

	_, total, err = s.store.List(s.ctx, recipient, false, pagination.Params{Page: 1, Limit: 10})
	s.Require().NoError(err)
	s.Equal(0, total)
}

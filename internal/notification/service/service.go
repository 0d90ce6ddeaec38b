// Package service owns the notification lifecycle: created unread, marked
// read in bulk, hard-deleted in bulk or wholesale.
package service

import (
	"context"
	"encoding/json"
	"time"

	"resona/internal/notification"
	"resona/internal/notification/store"
	"resona/pkg/domain"
	dErrors "resona/pkg/domain-errors"
	"resona/pkg/pagination"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Store

// Store is the persistence dependency, re-declared here so mocks generate
// against the service's own view of it.
type Store interface {
	Create(ctx context.Context, n notification.Notification) error
	List(ctx context.Context, recipient domain.UserID, unreadOnly bool, p pagination.Params) ([]notification.Notification, int, error)
	MarkRead(ctx context.Context, recipient domain.UserID, ids []domain.NotificationID) (int, error)
	Delete(ctx context.Context, recipient domain.UserID, ids []domain.NotificationID) (int, error)
	DeleteAll(ctx context.Context, recipient domain.UserID) (int, error)
}

var _ Store = (store.Store)(nil)

// Service validates and persists notifications. Live delivery is the
// caller's concern and always happens after Create returns: the record must
// be durable before any push is attempted.
type Service struct {
	store Store
	now   func() time.Time
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func New(st Store, opts ...Option) *Service {
	s := &Service{store: st, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create persists a new unread notification and returns the stored record.
func (s *Service) Create(ctx context.Context, recipient domain.UserID, kind notification.Kind, message string, metadata json.RawMessage) (notification.Notification, error) {
	if recipient.IsNil() {
		return notification.Notification{}, dErrors.New(dErrors.CodeBadRequest, "recipient is required")
	}
	if message == "" {
		return notification.Notification{}, dErrors.New(dErrors.CodeBadRequest, "message is required")
	}
	if err := notification.ValidateMetadata(kind, metadata); err != nil {
		return notification.Notification{}, err
	}

	n := notification.Notification{
		ID:        domain.NewNotificationID(),
		Recipient: recipient,
		Kind:      kind,
		Message:   message,
		Read:      false,
		Metadata:  metadata,
		CreatedAt: s.now(),
	}
	if err := s.store.Create(ctx, n); err != nil {
		return notification.Notification{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist notification")
	}
	return n, nil
}

// List returns one page of the recipient's notifications, newest first.
func (s *Service) List(ctx context.Context, recipient domain.UserID, unreadOnly bool, p pagination.Params) (pagination.Page[notification.Notification], error) {
	if recipient.IsNil() {
		return pagination.Page[notification.Notification]{}, dErrors.New(dErrors.CodeBadRequest, "recipient is required")
	}

	items, total, err := s.store.List(ctx, recipient, unreadOnly, p)
	if err != nil {
		return pagination.Page[notification.Notification]{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list notifications")
	}
	return pagination.NewPage(items, total, p), nil
}

// MarkRead flips the read flag for the recipient's listed ids. Returns the
// number actually updated.
func (s *Service) MarkRead(ctx context.Context, recipient domain.UserID, ids []domain.NotificationID) (int, error) {
	if recipient.IsNil() {
		return 0, dErrors.New(dErrors.CodeBadRequest, "recipient is required")
	}
	if len(ids) == 0 {
		return 0, dErrors.New(dErrors.CodeBadRequest, "at least one notification id is required")
	}

	updated, err := s.store.MarkRead(ctx, recipient, ids)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to mark notifications read")
	}
	return updated, nil
}

// Delete hard-deletes the recipient's listed ids.
func (s *Service) Delete(ctx context.Context, recipient domain.UserID, ids []domain.NotificationID) (int, error) {
	if recipient.IsNil() {
		return 0, dErrors.New(dErrors.CodeBadRequest, "recipient is required")
	}
	if len(ids) == 0 {
		return 0, dErrors.New(dErrors.CodeBadRequest, "at least one notification id is required")
	}

	deleted, err := s.store.Delete(ctx, recipient, ids)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete notifications")
	}
	return deleted, nil
}

// DeleteAll hard-deletes every record for the recipient.
func (s *Service) DeleteAll(ctx context.Context, recipient domain.UserID) (int, error) {
	if recipient.IsNil() {
		return 0, dErrors.New(dErrors.CodeBadRequest, "recipient is required")
	}

	deleted, err := s.store.DeleteAll(ctx, recipient)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete notifications")
	}
	return deleted, nil
}

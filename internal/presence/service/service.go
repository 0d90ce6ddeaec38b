// Package service applies the presence state machine and persists every
// transition before anyone is told about it.
package service

import (
	"context"
	"errors"
	"time"

	"resona/internal/presence"
	"resona/internal/presence/store"
	"resona/pkg/domain"
	dErrors "resona/pkg/domain-errors"
	"resona/pkg/platform/sentinel"
)

// Service owns presence transitions. Transitions: offline -> online (auth),
// online -> online with activity (presence update), online -> offline
// (disconnect or transport close). Nothing transitions into StatusAway.
type Service struct {
	store store.Store
	now   func() time.Time
}

// Option configures the Service.
type Option func(*Service)

// WithClock injects a deterministic clock for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func New(st store.Store, opts ...Option) *Service {
	s := &Service{store: st, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// MarkOnline records the user as online and refreshes lastSeen. Idempotent:
// a repeated auth only moves lastSeen forward, it neither duplicates state
// nor clears an existing activity.
func (s *Service) MarkOnline(ctx context.Context, userID domain.UserID) (presence.Presence, error) {
	if userID.IsNil() {
		return presence.Presence{}, dErrors.New(dErrors.CodeBadRequest, "user id is required")
	}

	p, err := s.store.Find(ctx, userID)
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return presence.Presence{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load presence")
	}

	p.UserID = userID
	p.Status = presence.StatusOnline
	p.LastSeen = s.now()

	if err := s.store.Upsert(ctx, p); err != nil {
		return presence.Presence{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist presence")
	}
	return p, nil
}

// MarkOffline records the user as offline with lastSeen=now and clears the
// current activity.
func (s *Service) MarkOffline(ctx context.Context, userID domain.UserID) (presence.Presence, error) {
	if userID.IsNil() {
		return presence.Presence{}, dErrors.New(dErrors.CodeBadRequest, "user id is required")
	}

	p := presence.Presence{
		UserID:   userID,
		Status:   presence.StatusOffline,
		LastSeen: s.now(),
	}
	if err := s.store.Upsert(ctx, p); err != nil {
		return presence.Presence{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist presence")
	}
	return p, nil
}

// UpdateActivity refreshes lastSeen and replaces the current activity.
// A nil activity clears it. The user is marked online: an activity update
// from a connected client is proof of life.
func (s *Service) UpdateActivity(ctx context.Context, userID domain.UserID, activity *presence.Activity) (presence.Presence, error) {
	if userID.IsNil() {
		return presence.Presence{}, dErrors.New(dErrors.CodeBadRequest, "user id is required")
	}

	p := presence.Presence{
		UserID:   userID,
		Status:   presence.StatusOnline,
		LastSeen: s.now(),
		Activity: activity,
	}
	if err := s.store.Upsert(ctx, p); err != nil {
		return presence.Presence{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist presence")
	}
	return p, nil
}

// Snapshot returns the current durable presence for userID. Users with no
// row yet read as offline rather than not found; every account has a
// presence, it just might never have connected.
func (s *Service) Snapshot(ctx context.Context, userID domain.UserID) (presence.Presence, error) {
	if userID.IsNil() {
		return presence.Presence{}, dErrors.New(dErrors.CodeBadRequest, "user id is required")
	}

	p, err := s.store.Find(ctx, userID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return presence.Presence{UserID: userID, Status: presence.StatusOffline}, nil
	}
	if err != nil {
		return presence.Presence{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load presence")
	}
	return p, nil
}

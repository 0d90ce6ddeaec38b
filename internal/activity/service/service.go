// Package service records activity events and assembles the enriched feed.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"resona/internal/activity"
	"resona/internal/activity/store"
	"resona/internal/catalog"
	"resona/internal/social"
	"resona/pkg/domain"
	dErrors "resona/pkg/domain-errors"
	"resona/pkg/pagination"
	"resona/pkg/platform/sentinel"
)

// Service validates and appends activity events, and serves the read-time
// enriched feed. Live delivery happens after Record returns; the event is
// durable first.
type Service struct {
	store      store.Store
	graph      social.Resolver
	summarizer catalog.Summarizer
	now        func() time.Time
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func New(st store.Store, graph social.Resolver, summarizer catalog.Summarizer, opts ...Option) *Service {
	s := &Service{store: st, graph: graph, summarizer: summarizer, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Record appends a new event for the actor and returns the stored record.
func (s *Service) Record(ctx context.Context, actor domain.UserID, kind activity.Kind, targetID string, metadata json.RawMessage) (activity.Event, error) {
	if actor.IsNil() {
		return activity.Event{}, dErrors.New(dErrors.CodeBadRequest, "actor is required")
	}
	if !kind.Valid() {
		return activity.Event{}, dErrors.New(dErrors.CodeBadRequest, "unknown activity type")
	}
	if err := activity.ValidateMetadata(metadata); err != nil {
		return activity.Event{}, err
	}

	e := activity.Event{
		ID:        domain.NewActivityID(),
		Actor:     actor,
		Kind:      kind,
		TargetID:  targetID,
		Metadata:  metadata,
		CreatedAt: s.now(),
	}
	if err := s.store.Append(ctx, e); err != nil {
		return activity.Event{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist activity event")
	}
	return e, nil
}

// Feed returns one page of events visible to the viewer: their own plus
// those of every actor they follow, newest first, enriched for display.
func (s *Service) Feed(ctx context.Context, viewer domain.UserID, p pagination.Params) (pagination.Page[activity.Enriched], error) {
	if viewer.IsNil() {
		return pagination.Page[activity.Enriched]{}, dErrors.New(dErrors.CodeBadRequest, "viewer is required")
	}

	following, err := s.graph.Following(ctx, viewer)
	if err != nil {
		return pagination.Page[activity.Enriched]{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve following")
	}
	actors := append([]domain.UserID{viewer}, following...)

	events, total, err := s.store.ListByActors(ctx, actors, p)
	if err != nil {
		return pagination.Page[activity.Enriched]{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list activity")
	}

	enriched, err := s.enrich(ctx, events)
	if err != nil {
		return pagination.Page[activity.Enriched]{}, err
	}
	return pagination.NewPage(enriched, total, p), nil
}

// Enrich inlines actor profiles and target summaries. A target that no
// longer exists yields a nil summary, not an error; catalog deletions must
// not poison old feed pages.
func (s *Service) enrich(ctx context.Context, events []activity.Event) ([]activity.Enriched, error) {
	profiles := make(map[domain.UserID]social.Profile)
	out := make([]activity.Enriched, 0, len(events))

	for _, e := range events {
		profile, ok := profiles[e.Actor]
		if !ok {
			var err error
			profile, err = s.graph.Profile(ctx, e.Actor)
			if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
				return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve actor profile")
			}
			profile.ID = e.Actor
			profiles[e.Actor] = profile
		}

		item := activity.Enriched{Event: e, ActorProfile: profile}

		if targetKind, ok := e.Kind.TargetKind(); ok && e.TargetID != "" {
			summary, err := s.summarizer.Summarize(ctx, targetKind, e.TargetID)
			switch {
			case errors.Is(err, sentinel.ErrNotFound):
				// target gone, leave summary empty
			case err != nil:
				return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve target summary")
			default:
				item.Target = &summary
			}
		}
		out = append(out, item)
	}
	return out, nil
}

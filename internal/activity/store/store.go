package store

import (
	"context"

	"resona/internal/activity"
	"resona/pkg/domain"
	"resona/pkg/pagination"
)

// Store persists activity events. Append-only: there is no update or delete.
type Store interface {
	Append(ctx context.Context, e activity.Event) error
	// ListByActors returns one page of events by any of the given actors,
	// newest first, plus the total matching count.
	ListByActors(ctx context.Context, actors []domain.UserID, p pagination.Params) ([]activity.Event, int, error)
}

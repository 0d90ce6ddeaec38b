package store

import (
	"context"

	"resona/internal/presence"
	"resona/pkg/domain"
)

// Store persists presence rows. Implementations must upsert: the first write
// for a user creates the row.
type Store interface {
	Upsert(ctx context.Context, p presence.Presence) error
	// Find returns the current durable presence for userID.
	// Returns sentinel.ErrNotFound (wrapped or not) for unknown users.
	Find(ctx context.Context, userID domain.UserID) (presence.Presence, error)
}

// Package social exposes the read side of the follower/collaborator graph.
//
// Graph mutation (follow, unfollow, playlist membership writes) belongs to
// the content service; this layer only resolves audiences and display
// profiles for fan-out and feed reads.
package social

import (
	"context"

	"resona/pkg/domain"
)

// Profile carries the actor display fields inlined into delivered activity.
type Profile struct {
	ID          domain.UserID `json:"id"`
	DisplayName string        `json:"displayName"`
	AvatarURL   string        `json:"avatarUrl,omitempty"`
}

// Resolver answers audience and profile questions. Follower sets are
// recomputed per event; at current scale that beats cache invalidation
// complexity, and this interface is the seam where a cache would slot in.
type Resolver interface {
	// Followers returns the users following userID.
	Followers(ctx context.Context, userID domain.UserID) ([]domain.UserID, error)
	// Following returns the users userID follows. Used by feed reads.
	Following(ctx context.Context, userID domain.UserID) ([]domain.UserID, error)
	// Collaborators returns the current members of a collaborative playlist,
	// owner included.
	Collaborators(ctx context.Context, playlistID domain.PlaylistID) ([]domain.UserID, error)
	// Profile returns display fields for a user.
	// Returns sentinel.ErrNotFound for unknown users.
	Profile(ctx context.Context, userID domain.UserID) (Profile, error)
}

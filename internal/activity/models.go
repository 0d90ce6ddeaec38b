// Package activity owns the append-only activity event log. Events are
// written once at ingest and never mutated; visibility is computed at read
// time as "actor plus actor's followers", regardless of who a live push
// reached.
package activity

import (
	"encoding/json"
	"time"

	"resona/internal/catalog"
	"resona/internal/social"
	"resona/pkg/domain"
	dErrors "resona/pkg/domain-errors"
)

// Kind tags what the actor did; it determines what TargetID points at.
type Kind string

const (
	KindPlay           Kind = "play"
	KindLike           Kind = "like"
	KindFollow         Kind = "follow"
	KindPlaylistCreate Kind = "playlist_create"
	KindPlaylistAdd    Kind = "playlist_add"
)

// TargetKind maps an activity kind to the catalog kind its target resolves
// through. Returns false for kinds with no target.
func (k Kind) TargetKind() (catalog.Kind, bool) {
	switch k {
	case KindPlay, KindLike:
		return catalog.KindTrack, true
	case KindPlaylistCreate, KindPlaylistAdd:
		return catalog.KindPlaylist, true
	case KindFollow:
		return catalog.KindUser, true
	}
	return "", false
}

// Valid reports whether k is a recognized activity kind.
func (k Kind) Valid() bool {
	_, ok := k.TargetKind()
	return ok
}

// Event is one append-only record in the activity log.
type Event struct {
	ID        domain.ActivityID `json:"id"`
	Actor     domain.UserID     `json:"actorUserId"`
	Kind      Kind              `json:"type"`
	TargetID  string            `json:"targetId,omitempty"`
	Metadata  json.RawMessage   `json:"metadata,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
}

// Enriched is an event prepared for reading: actor display fields inlined,
// target resolved to its catalog summary when it still exists.
type Enriched struct {
	Event
	ActorProfile social.Profile   `json:"actor"`
	Target       *catalog.Summary `json:"target,omitempty"`
}

// ValidateMetadata rejects metadata that is not a JSON object for the kinds
// that carry it. Unlike notifications there is no per-kind schema yet: the
// clients attach playback context (device, position) that the server relays
// opaquely.
func ValidateMetadata(raw json.RawMessage) error {
	if len(raw) == 0 {
		return nil
	}
	if !json.Valid(raw) {
		return dErrors.New(dErrors.CodeBadRequest, "metadata must be valid JSON")
	}
	return nil
}

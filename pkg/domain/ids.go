// Package domain holds typed identifiers shared across the service.
//
// IDs are distinct named types over uuid.UUID so a UserID can never be
// assigned where a PlaylistID is expected. Parse helpers validate at the
// boundary; everything past the boundary works with typed values.
package domain

import (
	"fmt"

	"github.com/google/uuid"
)

type (
	// UserID identifies an account.
	UserID uuid.UUID
	// NotificationID identifies a durable notification record.
	NotificationID uuid.UUID
	// ActivityID identifies an append-only activity event.
	ActivityID uuid.UUID
	// PlaylistID identifies a playlist.
	PlaylistID uuid.UUID
	// TrackID identifies a track in the catalog.
	TrackID uuid.UUID
)

func ParseUserID(s string) (UserID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return UserID{}, fmt.Errorf("invalid user id %q: %w", s, err)
	}
	return UserID(u), nil
}

func ParseNotificationID(s string) (NotificationID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return NotificationID{}, fmt.Errorf("invalid notification id %q: %w", s, err)
	}
	return NotificationID(u), nil
}

func ParseActivityID(s string) (ActivityID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return ActivityID{}, fmt.Errorf("invalid activity id %q: %w", s, err)
	}
	return ActivityID(u), nil
}

func ParsePlaylistID(s string) (PlaylistID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return PlaylistID{}, fmt.Errorf("invalid playlist id %q: %w", s, err)
	}
	return PlaylistID(u), nil
}

func ParseTrackID(s string) (TrackID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return TrackID{}, fmt.Errorf("invalid track id %q: %w", s, err)
	}
	return TrackID(u), nil
}

func NewUserID() UserID                 { return UserID(uuid.New()) }
func NewNotificationID() NotificationID { return NotificationID(uuid.New()) }
func NewActivityID() ActivityID         { return ActivityID(uuid.New()) }
func NewPlaylistID() PlaylistID         { return PlaylistID(uuid.New()) }
func NewTrackID() TrackID               { return TrackID(uuid.New()) }

func (id UserID) String() string         { return uuid.UUID(id).String() }
func (id NotificationID) String() string { return uuid.UUID(id).String() }
func (id ActivityID) String() string     { return uuid.UUID(id).String() }
func (id PlaylistID) String() string     { return uuid.UUID(id).String() }
func (id TrackID) String() string        { return uuid.UUID(id).String() }

func (id UserID) IsNil() bool         { return uuid.UUID(id) == uuid.Nil }
func (id NotificationID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id ActivityID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id PlaylistID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id TrackID) IsNil() bool        { return uuid.UUID(id) == uuid.Nil }

// MarshalText/UnmarshalText let typed IDs travel through JSON as plain
// UUID strings.

func (id UserID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id *UserID) UnmarshalText(b []byte) error {
	parsed, err := ParseUserID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id NotificationID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id *NotificationID) UnmarshalText(b []byte) error {
	parsed, err := ParseNotificationID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id ActivityID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id *ActivityID) UnmarshalText(b []byte) error {
	parsed, err := ParseActivityID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id PlaylistID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id *PlaylistID) UnmarshalText(b []byte) error {
	parsed, err := ParsePlaylistID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id TrackID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id *TrackID) UnmarshalText(b []byte) error {
	parsed, err := ParseTrackID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// Package notification owns durable notification records: created unread,
// flipped read, hard-deleted. Everything but the read flag is immutable.
package notification

import (
	"encoding/json"
	"time"

	"resona/pkg/domain"
	dErrors "resona/pkg/domain-errors"
)

// Kind is the notification type tag; it keys the metadata schema.
type Kind string

const (
	KindFollow          Kind = "follow"
	KindPlaylistInvite  Kind = "playlist_invite"
	KindPlaylistRemoval Kind = "playlist_removal"
	KindMessengerInvite Kind = "messenger_invite"
	KindSystem          Kind = "system"
)

// Notification is one durable record addressed to a single recipient.
type Notification struct {
	ID        domain.NotificationID `json:"id"`
	Recipient domain.UserID         `json:"recipientUserId"`
	Kind      Kind                  `json:"type"`
	Message   string                `json:"message"`
	Read      bool                  `json:"read"`
	Metadata  json.RawMessage       `json:"metadata,omitempty"`
	CreatedAt time.Time             `json:"createdAt"`
}

// Metadata payloads, one schema per kind. Stored as JSON but validated
// against the kind at the boundary so free-form data never reaches a record.

type FollowMetadata struct {
	Follower domain.UserID `json:"followerUserId"`
}

type PlaylistMetadata struct {
	PlaylistID domain.PlaylistID `json:"playlistId"`
	Actor      domain.UserID     `json:"actorUserId"`
}

type MessengerInviteMetadata struct {
	From domain.UserID `json:"fromUserId"`
}

// ValidateMetadata checks raw against the schema for kind. Empty metadata is
// allowed only for system notifications.
func ValidateMetadata(kind Kind, raw json.RawMessage) error {
	switch kind {
	case KindFollow:
		var m FollowMetadata
		if err := strictUnmarshal(raw, &m); err != nil {
			return err
		}
		if m.Follower.IsNil() {
			return dErrors.New(dErrors.CodeBadRequest, "follow metadata requires followerUserId")
		}
	case KindPlaylistInvite, KindPlaylistRemoval:
		var m PlaylistMetadata
		if err := strictUnmarshal(raw, &m); err != nil {
			return err
		}
		if m.PlaylistID.IsNil() {
			return dErrors.New(dErrors.CodeBadRequest, "playlist metadata requires playlistId")
		}
	case KindMessengerInvite:
		var m MessengerInviteMetadata
		if err := strictUnmarshal(raw, &m); err != nil {
			return err
		}
		if m.From.IsNil() {
			return dErrors.New(dErrors.CodeBadRequest, "messenger metadata requires fromUserId")
		}
	case KindSystem:
		if len(raw) == 0 {
			return nil
		}
		if !json.Valid(raw) {
			return dErrors.New(dErrors.CodeBadRequest, "metadata must be valid JSON")
		}
	default:
		return dErrors.New(dErrors.CodeBadRequest, "unknown notification type")
	}
	return nil
}

func strictUnmarshal(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return dErrors.New(dErrors.CodeBadRequest, "metadata is required for this notification type")
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return dErrors.Wrap(err, dErrors.CodeBadRequest, "malformed metadata")
	}
	return nil
}

// MustMetadata marshals a typed metadata value. Panics only on marshal of a
// type this package defines, which cannot fail.
func MustMetadata(v any) json.RawMessage {
	raw, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return raw
}

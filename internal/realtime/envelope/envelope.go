// Package envelope defines the websocket wire format and validates payloads
// at the boundary, so handlers work with typed values instead of free-form
// maps.
package envelope

import (
	"encoding/json"
	"errors"
	"fmt"

	"resona/pkg/domain"
	dErrors "resona/pkg/domain-errors"
)

// Type discriminates inbound and outbound envelopes.
type Type string

const (
	TypeAuth            Type = "auth"
	TypePresence        Type = "presence"
	TypeNotification    Type = "notification"
	TypeActivity        Type = "activity"
	TypeDisconnect      Type = "disconnect"
	TypePlaylistUpdate  Type = "playlist_update"
	TypeMessengerInvite Type = "messenger_invite"

	// TypeError is outbound-only, sent to the originating connection when a
	// handler fails non-terminally.
	TypeError Type = "error"
)

var knownTypes = map[Type]struct{}{
	TypeAuth:            {},
	TypePresence:        {},
	TypeNotification:    {},
	TypeActivity:        {},
	TypeDisconnect:      {},
	TypePlaylistUpdate:  {},
	TypeMessengerInvite: {},
}

// Known reports whether t is a routable inbound type.
func Known(t Type) bool {
	_, ok := knownTypes[t]
	return ok
}

// Inbound is the raw client envelope. Data stays deferred until the router
// knows the type.
type Inbound struct {
	Type Type            `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Outbound is a server-to-client envelope. The audience a handler computed is
// routing state, not wire state; it never appears here.
type Outbound struct {
	Type Type `json:"type"`
	Data any  `json:"data"`
}

// ErrorData is the payload of a TypeError envelope.
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewError builds the error envelope sent only to the origin connection.
func NewError(err error) Outbound {
	code := dErrors.CodeOf(err)
	msg := "something went wrong"
	if code != dErrors.CodeInternal {
		var de *dErrors.Error
		if errors.As(err, &de) {
			msg = de.Message()
		}
	}
	return Outbound{
		Type: TypeError,
		Data: ErrorData{Code: string(code), Message: msg},
	}
}

// --- Inbound payloads, one struct per type ---------------------------------

// AuthData marks the user online. The token itself was already verified at
// the handshake; a repeated auth only refreshes presence.
type AuthData struct {
	UserID domain.UserID `json:"userId"`
}

// PresenceData updates the sender's current activity.
type PresenceData struct {
	Activity *ActivityDescriptor `json:"currentActivity"`
}

// ActivityDescriptor is the "what the user is doing" fragment of presence.
type ActivityDescriptor struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

// NotificationData asks for a durable notification addressed to one user.
type NotificationData struct {
	Recipient domain.UserID   `json:"recipientUserId"`
	Kind      string          `json:"notificationType"`
	Message   string          `json:"message"`
	Metadata  json.RawMessage `json:"metadata"`
}

// ActivityData records an append-only activity event by the sender.
type ActivityData struct {
	Kind     string          `json:"type"`
	TargetID string          `json:"targetId"`
	Metadata json.RawMessage `json:"metadata"`
}

// DisconnectData is an explicit goodbye. No fields today; the struct exists
// so the payload can grow without a wire break.
type DisconnectData struct{}

// PlaylistUpdateData announces a collaborative playlist change.
type PlaylistUpdateData struct {
	PlaylistID domain.PlaylistID `json:"playlistId"`
	Change     string            `json:"change"`
	// Member is required for invite/removal changes: the user whose
	// membership changed and who gets the durable notification.
	Member domain.UserID `json:"memberUserId"`
}

// Playlist change kinds. Invite and removal additionally persist a
// notification for the affected member.
const (
	PlaylistChangeTracks  = "tracks"
	PlaylistChangeDetails = "details"
	PlaylistChangeInvite  = "invite"
	PlaylistChangeRemoval = "removal"
)

// MessengerInviteData invites another user to a listening session.
type MessengerInviteData struct {
	Target  domain.UserID `json:"targetUserId"`
	Message string        `json:"message"`
}

// --- Decode & validate -----------------------------------------------------

// DecodeAuth and friends unmarshal and validate one payload each. A missing
// required field is a validation failure (error reply), never a protocol
// rejection.

func DecodeAuth(raw json.RawMessage) (AuthData, error) {
	var d AuthData
	if err := unmarshal(raw, &d); err != nil {
		return AuthData{}, err
	}
	return d, nil
}

func DecodePresence(raw json.RawMessage) (PresenceData, error) {
	var d PresenceData
	if err := unmarshal(raw, &d); err != nil {
		return PresenceData{}, err
	}
	if d.Activity != nil && d.Activity.Type == "" {
		return PresenceData{}, dErrors.New(dErrors.CodeBadRequest, "currentActivity.type is required")
	}
	return d, nil
}

func DecodeNotification(raw json.RawMessage) (NotificationData, error) {
	var d NotificationData
	if err := unmarshal(raw, &d); err != nil {
		return NotificationData{}, err
	}
	if d.Recipient.IsNil() {
		return NotificationData{}, dErrors.New(dErrors.CodeBadRequest, "recipientUserId is required")
	}
	if d.Kind == "" {
		return NotificationData{}, dErrors.New(dErrors.CodeBadRequest, "notificationType is required")
	}
	if d.Message == "" {
		return NotificationData{}, dErrors.New(dErrors.CodeBadRequest, "message is required")
	}
	return d, nil
}

func DecodeActivity(raw json.RawMessage) (ActivityData, error) {
	var d ActivityData
	if err := unmarshal(raw, &d); err != nil {
		return ActivityData{}, err
	}
	if d.Kind == "" {
		return ActivityData{}, dErrors.New(dErrors.CodeBadRequest, "type is required")
	}
	return d, nil
}

func DecodeDisconnect(raw json.RawMessage) (DisconnectData, error) {
	var d DisconnectData
	if len(raw) == 0 {
		return d, nil
	}
	if err := unmarshal(raw, &d); err != nil {
		return DisconnectData{}, err
	}
	return d, nil
}

func DecodePlaylistUpdate(raw json.RawMessage) (PlaylistUpdateData, error) {
	var d PlaylistUpdateData
	if err := unmarshal(raw, &d); err != nil {
		return PlaylistUpdateData{}, err
	}
	if d.PlaylistID.IsNil() {
		return PlaylistUpdateData{}, dErrors.New(dErrors.CodeBadRequest, "playlistId is required")
	}
	switch d.Change {
	case PlaylistChangeTracks, PlaylistChangeDetails:
	case PlaylistChangeInvite, PlaylistChangeRemoval:
		if d.Member.IsNil() {
			return PlaylistUpdateData{}, dErrors.New(dErrors.CodeBadRequest, "memberUserId is required for membership changes")
		}
	default:
		return PlaylistUpdateData{}, dErrors.New(dErrors.CodeBadRequest, fmt.Sprintf("unknown playlist change %q", d.Change))
	}
	return d, nil
}

func DecodeMessengerInvite(raw json.RawMessage) (MessengerInviteData, error) {
	var d MessengerInviteData
	if err := unmarshal(raw, &d); err != nil {
		return MessengerInviteData{}, err
	}
	if d.Target.IsNil() {
		return MessengerInviteData{}, dErrors.New(dErrors.CodeBadRequest, "targetUserId is required")
	}
	return d, nil
}

func unmarshal(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return dErrors.New(dErrors.CodeBadRequest, "data is required")
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return dErrors.Wrap(err, dErrors.CodeBadRequest, "malformed payload")
	}
	return nil
}

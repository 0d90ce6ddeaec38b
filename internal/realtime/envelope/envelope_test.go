package envelope

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"resona/pkg/domain"
	dErrors "resona/pkg/domain-errors"
)

func TestDecodeNotification(t *testing.T) {
	recipient := domain.NewUserID()

	t.Run("valid payload", func(t *testing.T) {
		raw := []byte(`{"recipientUserId":"` + recipient.String() + `","notificationType":"follow","message":"someone followed you"}`)
		d, err := DecodeNotification(json.RawMessage(raw))
		require.NoError(t, err)
		require.Equal(t, recipient, d.Recipient)
		require.Equal(t, "follow", d.Kind)
	})

	t.Run("missing recipient is a validation failure", func(t *testing.T) {
		_, err := DecodeNotification(json.RawMessage(`{"notificationType":"follow","message":"hi"}`))
		require.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	t.Run("missing message is a validation failure", func(t *testing.T) {
		raw := []byte(`{"recipientUserId":"` + recipient.String() + `","notificationType":"follow"}`)
		_, err := DecodeNotification(json.RawMessage(raw))
		require.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
	})
}

func TestDecodePresence(t *testing.T) {
	t.Run("activity with type", func(t *testing.T) {
		d, err := DecodePresence(json.RawMessage(`{"currentActivity":{"type":"listening","name":"Kind of Blue"}}`))
		require.NoError(t, err)
		require.NotNil(t, d.Activity)
		require.Equal(t, "listening", d.Activity.Type)
	})

	t.Run("activity without type rejected", func(t *testing.T) {
		_, err := DecodePresence(json.RawMessage(`{"currentActivity":{"name":"x"}}`))
		require.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	t.Run("clearing activity is allowed", func(t *testing.T) {
		d, err := DecodePresence(json.RawMessage(`{}`))
		require.NoError(t, err)
		require.Nil(t, d.Activity)
	})
}

func TestDecodePlaylistUpdate(t *testing.T) {
	playlistID := domain.NewPlaylistID()
	member := domain.NewUserID()

	t.Run("track change without member", func(t *testing.T) {
		raw := []byte(`{"playlistId":"` + playlistID.String() + `","change":"tracks"}`)
		d, err := DecodePlaylistUpdate(json.RawMessage(raw))
		require.NoError(t, err)
		require.Equal(t, PlaylistChangeTracks, d.Change)
	})

	t.Run("invite requires member", func(t *testing.T) {
		raw := []byte(`{"playlistId":"` + playlistID.String() + `","change":"invite"}`)
		_, err := DecodePlaylistUpdate(json.RawMessage(raw))
		require.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))

		raw = []byte(`{"playlistId":"` + playlistID.String() + `","change":"invite","memberUserId":"` + member.String() + `"}`)
		d, err := DecodePlaylistUpdate(json.RawMessage(raw))
		require.NoError(t, err)
		require.Equal(t, member, d.Member)
	})

	t.Run("unknown change rejected", func(t *testing.T) {
		raw := []byte(`{"playlistId":"` + playlistID.String() + `","change":"shuffle"}`)
		_, err := DecodePlaylistUpdate(json.RawMessage(raw))
		require.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
	})
}

func TestDecodeDisconnectToleratesEmptyData(t *testing.T) {
	_, err := DecodeDisconnect(nil)
	require.NoError(t, err)
}

func TestKnown(t *testing.T) {
	require.True(t, Known(TypeAuth))
	require.True(t, Known(TypeMessengerInvite))
	require.False(t, Known(Type("ping")))
	require.False(t, Known(TypeError))
}

func TestNewError(t *testing.T) {
	t.Run("coded error keeps message", func(t *testing.T) {
		env := NewError(dErrors.New(dErrors.CodeBadRequest, "message is required"))
		require.Equal(t, TypeError, env.Type)
		data := env.Data.(ErrorData)
		require.Equal(t, "bad_request", data.Code)
		require.Equal(t, "message is required", data.Message)
	})

	t.Run("internal error redacts message", func(t *testing.T) {
		env := NewError(errors.New("pq: connection refused"))
		data := env.Data.(ErrorData)
		require.Equal(t, "internal_error", data.Code)
		require.NotContains(t, data.Message, "pq")
	})
}

package domain

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestParseRejectsGarbage(t *testing.T) {
	_, err := ParseUserID("not-a-uuid")
	require.Error(t, err)

	_, err = ParsePlaylistID("")
	require.Error(t, err)
}

func TestRoundTripThroughJSON(t *testing.T) {
	id := NewUserID()

	payload, err := json.Marshal(struct {
		User UserID `json:"user"`
	}{User: id})
	require.NoError(t, err)

	var decoded struct {
		User UserID `json:"user"`
	}
	require.NoError(t, json.Unmarshal(payload, &decoded))
	require.Equal(t, id, decoded.User)
}

func TestIsNil(t *testing.T) {
	var zero UserID
	require.True(t, zero.IsNil())
	require.False(t, NewUserID().IsNil())
	require.Equal(t, uuid.Nil.String(), zero.String())
}

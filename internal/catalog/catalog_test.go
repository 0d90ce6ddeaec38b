package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"resona/pkg/platform/sentinel"
	"resona/pkg/testutil"
)

func TestInMemorySummarize(t *testing.T) {
	store := NewInMemory()
	ctx := context.Background()

	testutil.Given(t, "a stored track summary", func(t *testing.T) {
		store.Put(Summary{ID: "track-1", Kind: KindTrack, Title: "So What", Subtitle: "Miles Davis"})

		testutil.When(t, "it is resolved by kind and id", func(t *testing.T) {
			got, err := store.Summarize(ctx, KindTrack, "track-1")
			require.NoError(t, err)
			require.Equal(t, "So What", got.Title)
			require.Equal(t, "Miles Davis", got.Subtitle)
		})

		testutil.When(t, "the same id is resolved under another kind", func(t *testing.T) {
			_, err := store.Summarize(ctx, KindPlaylist, "track-1")
			require.ErrorIs(t, err, sentinel.ErrNotFound)
		})
	})

	testutil.Then(t, "an unknown target reads as not found", func(t *testing.T) {
		_, err := store.Summarize(ctx, KindTrack, "missing")
		require.ErrorIs(t, err, sentinel.ErrNotFound)
	})
}

package pagination

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseParams(t *testing.T) {
	t.Run("defaults when absent", func(t *testing.T) {
		p := ParseParams(url.Values{})
		require.Equal(t, 1, p.Page)
		require.Equal(t, DefaultLimit, p.Limit)
	})

	t.Run("malformed values fall back", func(t *testing.T) {
		p := ParseParams(url.Values{"page": {"zero"}, "limit": {"-5"}})
		require.Equal(t, 1, p.Page)
		require.Equal(t, DefaultLimit, p.Limit)
	})

	t.Run("limit is capped", func(t *testing.T) {
		p := ParseParams(url.Values{"limit": {"5000"}})
		require.Equal(t, MaxLimit, p.Limit)
	})

	t.Run("offset follows page", func(t *testing.T) {
		p := ParseParams(url.Values{"page": {"3"}, "limit": {"10"}})
		require.Equal(t, 20, p.Offset())
	})
}

func TestNewPage(t *testing.T) {
	t.Run("derives page count", func(t *testing.T) {
		page := NewPage([]int{1, 2, 3}, 41, Params{Page: 1, Limit: 20})
		require.Equal(t, 3, len(page.Items))
		require.Equal(t, 41, page.Total)
		require.Equal(t, 3, page.Pages)
	})

	t.Run("empty result is an empty slice not null", func(t *testing.T) {
		page := NewPage[string](nil, 0, Params{Page: 1, Limit: 20})
		require.NotNil(t, page.Items)
		require.Equal(t, 0, page.Pages)
	})
}

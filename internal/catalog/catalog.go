// Package catalog resolves display summaries for the tracks, albums, and
// playlists that activity events point at. Catalog content itself is owned
// by the content service; this is a read-only lens used when enriching
// activity feed reads.
package catalog

import "context"

// Kind discriminates what a summary describes.
type Kind string

const (
	KindTrack    Kind = "track"
	KindAlbum    Kind = "album"
	KindPlaylist Kind = "playlist"
	KindUser     Kind = "user"
)

// Summary is the compact display row inlined into enriched activity items.
type Summary struct {
	ID       string `json:"id"`
	Kind     Kind   `json:"kind"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle,omitempty"`
}

// Summarizer resolves a target id to its display summary.
// Returns sentinel.ErrNotFound when the target no longer exists; feed
// enrichment treats that as "summary unavailable", not a failed read.
type Summarizer interface {
	Summarize(ctx context.Context, kind Kind, id string) (Summary, error)
}

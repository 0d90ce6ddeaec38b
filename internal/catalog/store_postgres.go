package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"resona/pkg/platform/sentinel"
)

// Postgres resolves summaries from the content tables.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) Summarize(ctx context.Context, kind Kind, id string) (Summary, error) {
	var query string
	switch kind {
	case KindTrack:
		query = `SELECT t.title, a.name FROM tracks t JOIN artists a ON a.id = t.artist_id WHERE t.id = $1`
	case KindAlbum:
		query = `SELECT al.title, a.name FROM albums al JOIN artists a ON a.id = al.artist_id WHERE al.id = $1`
	case KindPlaylist:
		query = `SELECT p.name, u.display_name FROM playlists p JOIN users u ON u.id = p.owner_id WHERE p.id = $1`
	case KindUser:
		query = `SELECT display_name, '' FROM users WHERE id = $1`
	default:
		return Summary{}, fmt.Errorf("unknown summary kind %q", kind)
	}

	summary := Summary{ID: id, Kind: kind}
	err := s.db.QueryRowContext(ctx, query, id).Scan(&summary.Title, &summary.Subtitle)
	if errors.Is(err, sql.ErrNoRows) {
		return Summary{}, sentinel.ErrNotFound
	}
	if err != nil {
		return Summary{}, fmt.Errorf("summarize %s %s: %w", kind, id, err)
	}
	return summary, nil
}

package social

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"resona/pkg/domain"
	"resona/pkg/platform/sentinel"
)

// PostgresResolver reads the graph tables owned by the content service.
// Built on pgx directly: this is the hottest read path in the system (one
// follower query per event), and pgx skips the database/sql indirection the
// other stores can afford.
type PostgresResolver struct {
	pool *pgxpool.Pool
}

func NewPostgresResolver(pool *pgxpool.Pool) *PostgresResolver {
	return &PostgresResolver{pool: pool}
}

func (r *PostgresResolver) Followers(ctx context.Context, userID domain.UserID) ([]domain.UserID, error) {
	query := `SELECT follower_id FROM follows WHERE followee_id = $1`
	return r.queryUserIDs(ctx, query, userID.String())
}

func (r *PostgresResolver) Following(ctx context.Context, userID domain.UserID) ([]domain.UserID, error) {
	query := `SELECT followee_id FROM follows WHERE follower_id = $1`
	return r.queryUserIDs(ctx, query, userID.String())
}

func (r *PostgresResolver) Collaborators(ctx context.Context, playlistID domain.PlaylistID) ([]domain.UserID, error) {
	query := `SELECT user_id FROM playlist_collaborators WHERE playlist_id = $1`
	return r.queryUserIDs(ctx, query, playlistID.String())
}

func (r *PostgresResolver) Profile(ctx context.Context, userID domain.UserID) (Profile, error) {
	query := `SELECT display_name, COALESCE(avatar_url, '') FROM users WHERE id = $1`

	p := Profile{ID: userID}
	err := r.pool.QueryRow(ctx, query, userID.String()).Scan(&p.DisplayName, &p.AvatarURL)
	if errors.Is(err, pgx.ErrNoRows) {
		return Profile{}, sentinel.ErrNotFound
	}
	if err != nil {
		return Profile{}, fmt.Errorf("load profile: %w", err)
	}
	return p, nil
}

func (r *PostgresResolver) queryUserIDs(ctx context.Context, query string, arg string) ([]domain.UserID, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("query graph: %w", err)
	}
	defer rows.Close()

	var out []domain.UserID
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan graph row: %w", err)
		}
		id, err := domain.ParseUserID(raw)
		if err != nil {
			return nil, fmt.Errorf("corrupt user id in graph: %w", err)
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate graph rows: %w", err)
	}
	return out, nil
}

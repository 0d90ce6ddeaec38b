package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"resona/internal/activity"
	"resona/pkg/domain"
	"resona/pkg/pagination"
)

// Postgres persists activity events in the activity_events table.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) Append(ctx context.Context, e activity.Event) error {
	query := `
		INSERT INTO activity_events (id, actor_id, kind, target_id, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	var metadata any
	if len(e.Metadata) > 0 {
		metadata = []byte(e.Metadata)
	}
	var target any
	if e.TargetID != "" {
		target = e.TargetID
	}
	_, err := s.db.ExecContext(ctx, query,
		e.ID.String(), e.Actor.String(), string(e.Kind), target, metadata, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert activity event: %w", err)
	}
	return nil
}

func (s *Postgres) ListByActors(ctx context.Context, actors []domain.UserID, p pagination.Params) ([]activity.Event, int, error) {
	if len(actors) == 0 {
		return nil, 0, nil
	}

	actorIDs := make([]string, len(actors))
	for i, a := range actors {
		actorIDs[i] = a.String()
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM activity_events WHERE actor_id = ANY($1)`
	if err := s.db.QueryRowContext(ctx, countQuery, pq.Array(actorIDs)).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count activity events: %w", err)
	}

	query := `
		SELECT id, actor_id, kind, COALESCE(target_id, ''), metadata, created_at
		FROM activity_events
		WHERE actor_id = ANY($1)
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := s.db.QueryContext(ctx, query, pq.Array(actorIDs), p.Limit, p.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list activity events: %w", err)
	}
	defer rows.Close()

	var out []activity.Event
	for rows.Next() {
		var (
			e        activity.Event
			rawID    string
			rawActor string
			kind     string
			metadata []byte
		)
		if err := rows.Scan(&rawID, &rawActor, &kind, &e.TargetID, &metadata, &e.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan activity event: %w", err)
		}
		id, err := domain.ParseActivityID(rawID)
		if err != nil {
			return nil, 0, fmt.Errorf("corrupt activity id: %w", err)
		}
		actor, err := domain.ParseUserID(rawActor)
		if err != nil {
			return nil, 0, fmt.Errorf("corrupt actor id: %w", err)
		}
		e.ID = id
		e.Actor = actor
		e.Kind = activity.Kind(kind)
		e.Metadata = metadata
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate activity events: %w", err)
	}
	return out, total, nil
}

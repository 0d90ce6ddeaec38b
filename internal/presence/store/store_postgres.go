package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"resona/internal/presence"
	"resona/pkg/domain"
	"resona/pkg/platform/sentinel"
)

// Postgres persists presence rows in the user_presence table.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) Upsert(ctx context.Context, p presence.Presence) error {
	var activity []byte
	if p.Activity != nil {
		var err error
		activity, err = json.Marshal(p.Activity)
		if err != nil {
			return fmt.Errorf("marshal presence activity: %w", err)
		}
	}

	query := `
		INSERT INTO user_presence (user_id, status, last_seen, current_activity)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE
		SET status = EXCLUDED.status,
		    last_seen = EXCLUDED.last_seen,
		    current_activity = EXCLUDED.current_activity
	`
	if _, err := s.db.ExecContext(ctx, query, p.UserID.String(), string(p.Status), p.LastSeen, activity); err != nil {
		return fmt.Errorf("upsert presence: %w", err)
	}
	return nil
}

func (s *Postgres) Find(ctx context.Context, userID domain.UserID) (presence.Presence, error) {
	query := `
		SELECT status, last_seen, current_activity
		FROM user_presence
		WHERE user_id = $1
	`
	var (
		status   string
		p        presence.Presence
		activity []byte
	)
	err := s.db.QueryRowContext(ctx, query, userID.String()).Scan(&status, &p.LastSeen, &activity)
	if errors.Is(err, sql.ErrNoRows) {
		return presence.Presence{}, sentinel.ErrNotFound
	}
	if err != nil {
		return presence.Presence{}, fmt.Errorf("find presence: %w", err)
	}

	p.UserID = userID
	p.Status = presence.Status(status)
	if len(activity) > 0 {
		var a presence.Activity
		if err := json.Unmarshal(activity, &a); err != nil {
			return presence.Presence{}, fmt.Errorf("unmarshal presence activity: %w", err)
		}
		p.Activity = &a
	}
	return p, nil
}

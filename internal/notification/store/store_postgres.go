package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"resona/internal/notification"
	"resona/pkg/domain"
	"resona/pkg/pagination"
)

// Postgres persists notifications in the notifications table.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) Create(ctx context.Context, n notification.Notification) error {
	query := `
		INSERT INTO notifications (id, recipient_id, kind, message, read, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	var metadata any
	if len(n.Metadata) > 0 {
		metadata = []byte(n.Metadata)
	}
	_, err := s.db.ExecContext(ctx, query,
		n.ID.String(), n.Recipient.String(), string(n.Kind), n.Message, n.Read, metadata, n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

func (s *Postgres) List(ctx context.Context, recipient domain.UserID, unreadOnly bool, p pagination.Params) ([]notification.Notification, int, error) {
	where := `WHERE recipient_id = $1`
	if unreadOnly {
		where += ` AND read = FALSE`
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM notifications ` + where
	if err := s.db.QueryRowContext(ctx, countQuery, recipient.String()).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count notifications: %w", err)
	}

	query := `
		SELECT id, kind, message, read, metadata, created_at
		FROM notifications ` + where + `
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := s.db.QueryContext(ctx, query, recipient.String(), p.Limit, p.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var out []notification.Notification
	for rows.Next() {
		var (
			n        notification.Notification
			rawID    string
			kind     string
			metadata []byte
		)
		if err := rows.Scan(&rawID, &kind, &n.Message, &n.Read, &metadata, &n.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan notification: %w", err)
		}
		id, err := domain.ParseNotificationID(rawID)
		if err != nil {
			return nil, 0, fmt.Errorf("corrupt notification id: %w", err)
		}
		n.ID = id
		n.Recipient = recipient
		n.Kind = notification.Kind(kind)
		n.Metadata = metadata
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate notifications: %w", err)
	}
	return out, total, nil
}

func (s *Postgres) MarkRead(ctx context.Context, recipient domain.UserID, ids []domain.NotificationID) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query := `
		UPDATE notifications
		SET read = TRUE
		WHERE recipient_id = $1 AND read = FALSE AND id = ANY($2)
	`
	res, err := s.db.ExecContext(ctx, query, recipient.String(), pq.Array(idStrings(ids)))
	if err != nil {
		return 0, fmt.Errorf("mark notifications read: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("mark notifications read: %w", err)
	}
	return int(affected), nil
}

func (s *Postgres) Delete(ctx context.Context, recipient domain.UserID, ids []domain.NotificationID) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query := `DELETE FROM notifications WHERE recipient_id = $1 AND id = ANY($2)`
	res, err := s.db.ExecContext(ctx, query, recipient.String(), pq.Array(idStrings(ids)))
	if err != nil {
		return 0, fmt.Errorf("delete notifications: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete notifications: %w", err)
	}
	return int(affected), nil
}

func (s *Postgres) DeleteAll(ctx context.Context, recipient domain.UserID) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM notifications WHERE recipient_id = $1`, recipient.String())
	if err != nil {
		return 0, fmt.Errorf("delete all notifications: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete all notifications: %w", err)
	}
	return int(affected), nil
}

func idStrings(ids []domain.NotificationID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

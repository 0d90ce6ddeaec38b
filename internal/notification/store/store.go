package store

import (
	"context"

	"resona/internal/notification"
	"resona/pkg/domain"
	"resona/pkg/pagination"
)

// Store persists notifications. All reads and mutations are scoped to a
// recipient; one user can never touch another's records.
type Store interface {
	Create(ctx context.Context, n notification.Notification) error
	// List returns the recipient's page of notifications, newest first,
	// plus the total matching count.
	List(ctx context.Context, recipient domain.UserID, unreadOnly bool, p pagination.Params) ([]notification.Notification, int, error)
	// MarkRead flips the read flag for the given ids. Unknown ids and ids
	// belonging to other users are skipped; returns the number updated.
	MarkRead(ctx context.Context, recipient domain.UserID, ids []domain.NotificationID) (int, error)
	// Delete hard-deletes the given ids, same scoping rules as MarkRead.
	Delete(ctx context.Context, recipient domain.UserID, ids []domain.NotificationID) (int, error)
	// DeleteAll hard-deletes every record for the recipient.
	DeleteAll(ctx context.Context, recipient domain.UserID) (int, error)
}

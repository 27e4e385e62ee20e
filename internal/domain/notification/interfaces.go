package notification

import (
	"context"
	"time"
)

// Store is the persistence surface the service needs. *Repository is the
// production implementation.
type Store interface {
	Create(ctx context.Context, n *Notification) error
	FindByUser(ctx context.Context, userID int64, unreadOnly bool, limit, offset int) ([]Notification, int64, error)
	CountByUser(ctx context.Context, userID int64) (total, unread int64, err error)
	MarkReadByIDs(ctx context.Context, userID int64, ids []int64, now time.Time) (int64, error)
	MarkAllRead(ctx context.Context, userID int64, now time.Time) (int64, error)
	DeleteByIDAndUser(ctx context.Context, id, userID int64) (int64, error)
	DeleteReadOlderThan(ctx context.Context, before time.Time) (int64, error)
	ExistsByReferenceSince(ctx context.Context, userID int64, t Type, referenceType string, referenceID int64, since time.Time) (bool, error)
}

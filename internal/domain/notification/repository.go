package notification

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) DB() *gorm.DB {
	return r.db
}

func (r *Repository) Create(ctx context.Context, n *Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

// FindByUser returns a page of the user's notifications, newest first,
// plus the total count matching the filter.
func (r *Repository) FindByUser(ctx context.Context, userID int64, unreadOnly bool, limit, offset int) ([]Notification, int64, error) {
	q := r.db.WithContext(ctx).Model(&Notification{}).Where("user_id = ?", userID)
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []Notification
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *Repository) CountByUser(ctx context.Context, userID int64) (total, unread int64, err error) {
	err = r.db.WithContext(ctx).Model(&Notification{}).
		Where("user_id = ?", userID).
		Count(&total).Error
	if err != nil {
		return 0, 0, err
	}

	err = r.db.WithContext(ctx).Model(&Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&unread).Error
	if err != nil {
		return 0, 0, err
	}
	return total, unread, nil
}

// MarkReadByIDs flips is_read for the given ids owned by userID. IDs that
// do not exist or belong to someone else simply do not match the WHERE
// clause; the affected-row count is returned.
func (r *Repository) MarkReadByIDs(ctx context.Context, userID int64, ids []int64, now time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Model(&Notification{}).
		Where("id IN ? AND user_id = ? AND is_read = ?", ids, userID, false).
		Updates(map[string]any{"is_read": true, "read_at": now})
	return res.RowsAffected, res.Error
}

func (r *Repository) MarkAllRead(ctx context.Context, userID int64, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]any{"is_read": true, "read_at": now})
	return res.RowsAffected, res.Error
}

// DeleteByIDAndUser removes a notification owned by userID and reports
// how many rows went away. Zero means not found or not the caller's row.
func (r *Repository) DeleteByIDAndUser(ctx context.Context, id, userID int64) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&Notification{})
	return res.RowsAffected, res.Error
}

// DeleteReadOlderThan purges read notifications created before the cutoff.
func (r *Repository) DeleteReadOlderThan(ctx context.Context, before time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("is_read = ? AND created_at < ?", true, before).
		Delete(&Notification{})
	return res.RowsAffected, res.Error
}

// ExistsByReferenceSince reports whether a notification for the same
// (user, type, reference) tuple was already created at or after `since`.
func (r *Repository) ExistsByReferenceSince(ctx context.Context, userID int64, t Type, referenceType string, referenceID int64, since time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Notification{}).
		Where("user_id = ? AND type = ? AND reference_type = ? AND reference_id = ? AND created_at >= ?",
			userID, t, referenceType, referenceID, since).
		Count(&count).Error
	return count > 0, err
}

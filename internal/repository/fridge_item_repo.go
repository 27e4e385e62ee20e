package repository

import (
	"context"
	"time"

	"smartgrocery/internal/domain"

	"gorm.io/gorm"
)

type FridgeItemRepository struct {
	db *gorm.DB
}

func NewFridgeItemRepository(db *gorm.DB) *FridgeItemRepository {
	return &FridgeItemRepository{db: db}
}

func (r *FridgeItemRepository) DB() *gorm.DB {
	return r.db
}

// FindExpiringBetween returns items whose expiration date falls inside
// [from, to] inclusive, with the owning family preloaded so the scheduler
// never needs a live ORM session for grouping.
func (r *FridgeItemRepository) FindExpiringBetween(ctx context.Context, from, to time.Time) ([]domain.FridgeItem, error) {
	var items []domain.FridgeItem
	err := r.db.WithContext(ctx).
		Preload("Family").
		Where("expiration_date IS NOT NULL AND expiration_date >= ? AND expiration_date <= ?", dateOnly(from), dateOnly(to)).
		Find(&items).Error
	return items, err
}

// FindExpired returns items past their expiration date that are not yet
// marked EXPIRED, with the owning family preloaded.
func (r *FridgeItemRepository) FindExpired(ctx context.Context, today time.Time) ([]domain.FridgeItem, error) {
	var items []domain.FridgeItem
	err := r.db.WithContext(ctx).
		Preload("Family").
		Where("expiration_date IS NOT NULL AND expiration_date <= ? AND status <> ?", dateOnly(today), domain.FridgeItemExpired).
		Find(&items).Error
	return items, err
}

// MarkExpired bulk-transitions the given items to EXPIRED and returns the
// number of rows changed.
func (r *FridgeItemRepository) MarkExpired(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Model(&domain.FridgeItem{}).
		Where("id IN ? AND status <> ?", ids, domain.FridgeItemExpired).
		Update("status", domain.FridgeItemExpired)
	return res.RowsAffected, res.Error
}

func (r *FridgeItemRepository) Create(ctx context.Context, item *domain.FridgeItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

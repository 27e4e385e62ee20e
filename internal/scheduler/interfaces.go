package scheduler

import (
	"context"
	"time"

	"smartgrocery/internal/domain"
	"smartgrocery/internal/domain/notification"
)

// FridgeItemStore supplies expiring/expired items with their owning family
// already materialized.
type FridgeItemStore interface {
	FindExpiringBetween(ctx context.Context, from, to time.Time) ([]domain.FridgeItem, error)
	FindExpired(ctx context.Context, today time.Time) ([]domain.FridgeItem, error)
	MarkExpired(ctx context.Context, ids []int64) (int64, error)
}

// FamilyMemberStore resolves the members to fan a family's items out to.
type FamilyMemberStore interface {
	FindByFamilyIDWithUsers(ctx context.Context, familyID int64) ([]domain.FamilyMember, error)
}

// ExpiryNotifier is the slice of the notification service the scheduler
// uses: deduplicated per-member record creation and the retention purge.
type ExpiryNotifier interface {
	CreateExpiryNotification(ctx context.Context, userID, itemID int64, productName string, daysUntilExpiry int, familyName string) (*notification.Notification, error)
	CleanupOldRead(ctx context.Context) (int64, error)
}

package scheduler

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"smartgrocery/internal/domain"
	"smartgrocery/internal/metrics"
	"smartgrocery/internal/push"
)

// Thresholds and run timeout defaults. Thresholds are in whole days.
const (
	SoonThresholdDays     = 3
	CriticalThresholdDays = 1
	DefaultRunTimeout     = 60 * time.Second
)

// Scheduler runs the periodic expiry scans: it surfaces soon-to-expire and
// already-expired fridge items, fans per-member notification records out
// through the notifier, pushes one aggregate batch per family, and keeps
// item status in sync with the calendar.
//
// Store and dispatch failures are run-scoped: the failing unit is logged
// and skipped, the rest of the run continues, and the next scheduled
// invocation retries the overlapping work (the dedup window makes that
// idempotent).
type Scheduler struct {
	items      FridgeItemStore
	members    FamilyMemberStore
	notifier   ExpiryNotifier
	dispatcher push.Dispatcher
	log        *zap.Logger
	runTimeout time.Duration
}

func New(items FridgeItemStore, members FamilyMemberStore, notifier ExpiryNotifier, dispatcher push.Dispatcher, log *zap.Logger) *Scheduler {
	return &Scheduler{
		items:      items,
		members:    members,
		notifier:   notifier,
		dispatcher: dispatcher,
		log:        log,
		runTimeout: DefaultRunTimeout,
	}
}

// CheckExpiringItems is the daily "soon" scan (3-day threshold).
func (s *Scheduler) CheckExpiringItems() {
	s.runJob("check_expiring", func(ctx context.Context, log *zap.Logger) {
		s.processExpiringItems(ctx, log, SoonThresholdDays)
	})
}

// CheckCriticalExpiringItems is the daily "critical" scan (24-hour
// threshold). The shorter window makes the urgency-aware 12h dedup kick in.
func (s *Scheduler) CheckCriticalExpiringItems() {
	s.runJob("check_critical", func(ctx context.Context, log *zap.Logger) {
		s.processExpiringItems(ctx, log, CriticalThresholdDays)
	})
}

// CheckExpiredItems notifies about items already past expiration and
// flips their status to EXPIRED.
func (s *Scheduler) CheckExpiredItems() {
	s.runJob("check_expired", func(ctx context.Context, log *zap.Logger) {
		today := today()

		expired, err := s.items.FindExpired(ctx, today)
		if err != nil {
			log.Error("fetching expired items failed", zap.Error(err))
			return
		}
		if len(expired) == 0 {
			log.Info("no expired items found")
			return
		}
		log.Info("found expired items", zap.Int("count", len(expired)))

		totalCreated := 0
		for familyID, items := range groupByFamily(expired) {
			familyName := familyNameOf(items)

			created := s.notifyFamily(ctx, log, familyID, familyName, items, today)
			totalCreated += created

			batch := buildBatch(items, familyID, familyName, today)
			if err := s.dispatcher.Dispatch(ctx, familyID, push.EventExpiredItems, batch); err != nil {
				log.Warn("dispatch failed", zap.Int64("family_id", familyID), zap.Error(err))
			}

			ids := make([]int64, len(items))
			for i, item := range items {
				ids[i] = item.ID
			}
			changed, err := s.items.MarkExpired(ctx, ids)
			if err != nil {
				log.Error("marking items expired failed", zap.Int64("family_id", familyID), zap.Error(err))
				continue
			}
			metrics.ItemsMarkedExpired.Add(float64(changed))
		}

		log.Info("expired items check completed", zap.Int("notifications_created", totalCreated))
	})
}

// UpdateExpiredItemsStatus is the hourly housekeeping run: status
// transition only, no notification side effects.
func (s *Scheduler) UpdateExpiredItemsStatus() {
	s.runJob("update_expired_status", func(ctx context.Context, log *zap.Logger) {
		expired, err := s.items.FindExpired(ctx, today())
		if err != nil {
			log.Error("fetching expired items failed", zap.Error(err))
			return
		}
		if len(expired) == 0 {
			return
		}

		ids := make([]int64, len(expired))
		for i, item := range expired {
			ids[i] = item.ID
		}
		changed, err := s.items.MarkExpired(ctx, ids)
		if err != nil {
			log.Error("marking items expired failed", zap.Error(err))
			return
		}
		metrics.ItemsMarkedExpired.Add(float64(changed))
		log.Info("updated expired items status", zap.Int64("changed", changed))
	})
}

// CleanupOldNotifications is the weekly retention purge.
func (s *Scheduler) CleanupOldNotifications() {
	s.runJob("cleanup_notifications", func(ctx context.Context, log *zap.Logger) {
		deleted, err := s.notifier.CleanupOldRead(ctx)
		if err != nil {
			log.Error("notification cleanup failed", zap.Error(err))
			return
		}
		log.Info("notification cleanup completed", zap.Int64("deleted", deleted))
	})
}

// processExpiringItems is the shared scan routine behind the soon and
// critical jobs.
func (s *Scheduler) processExpiringItems(ctx context.Context, log *zap.Logger, thresholdDays int) {
	t := today()
	thresholdDate := t.AddDate(0, 0, thresholdDays)

	expiring, err := s.items.FindExpiringBetween(ctx, t, thresholdDate)
	if err != nil {
		log.Error("fetching expiring items failed", zap.Error(err))
		return
	}
	if len(expiring) == 0 {
		log.Info("no items expiring within threshold", zap.Int("threshold_days", thresholdDays))
		return
	}
	log.Info("found expiring items",
		zap.Int("count", len(expiring)),
		zap.Int("threshold_days", thresholdDays))

	totalCreated := 0
	for familyID, items := range groupByFamily(expiring) {
		familyName := familyNameOf(items)

		created := s.notifyFamily(ctx, log, familyID, familyName, items, t)
		totalCreated += created

		batch := buildBatch(items, familyID, familyName, t)
		if err := s.dispatcher.Dispatch(ctx, familyID, push.EventExpiringItems, batch); err != nil {
			log.Warn("dispatch failed", zap.Int64("family_id", familyID), zap.Error(err))
		}
	}

	log.Info("expiration check completed", zap.Int("notifications_created", totalCreated))
}

// notifyFamily creates one deduplicated record per (item, member) pair and
// returns how many creations actually produced a record.
func (s *Scheduler) notifyFamily(ctx context.Context, log *zap.Logger, familyID int64, familyName string, items []domain.FridgeItem, today time.Time) int {
	members, err := s.members.FindByFamilyIDWithUsers(ctx, familyID)
	if err != nil {
		log.Error("fetching family members failed", zap.Int64("family_id", familyID), zap.Error(err))
		return 0
	}

	created := 0
	for _, item := range items {
		days := item.DaysUntilExpiration(today)
		for _, member := range members {
			n, err := s.notifier.CreateExpiryNotification(ctx, member.UserID, item.ID, item.ProductName, days, familyName)
			if err != nil {
				log.Error("creating expiry notification failed",
					zap.Int64("family_id", familyID),
					zap.Int64("item_id", item.ID),
					zap.Int64("user_id", member.UserID),
					zap.Error(err))
				continue
			}
			if n != nil {
				created++
			}
		}
	}
	return created
}

// runJob wraps a scheduled entry point with a bounded context, run id,
// metrics and a panic guard so no run can take down the cron runner.
func (s *Scheduler) runJob(name string, fn func(ctx context.Context, log *zap.Logger)) {
	log := s.log.With(
		zap.String("job", name),
		zap.String("run_id", uuid.NewString()),
	)

	ctx, cancel := context.WithTimeout(context.Background(), s.runTimeout)
	defer cancel()

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			log.Error("scheduled job panicked", zap.Any("panic", r))
		}
		metrics.ScanRuns.WithLabelValues(name).Inc()
		metrics.ScanDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	}()

	log.Info("starting scheduled job")
	fn(ctx, log)
}

func groupByFamily(items []domain.FridgeItem) map[int64][]domain.FridgeItem {
	grouped := make(map[int64][]domain.FridgeItem)
	for _, item := range items {
		grouped[item.FamilyID] = append(grouped[item.FamilyID], item)
	}
	return grouped
}

// familyNameOf takes the name from the first item's preloaded family; the
// grouping key already pins the group to a single family.
func familyNameOf(items []domain.FridgeItem) string {
	for _, item := range items {
		if item.Family != nil {
			return item.Family.Name
		}
	}
	return ""
}

func buildBatch(items []domain.FridgeItem, familyID int64, familyName string, today time.Time) []push.ExpiringItemNotification {
	batch := make([]push.ExpiringItemNotification, 0, len(items))
	for _, item := range items {
		var expDate string
		if item.ExpirationDate != nil {
			expDate = item.ExpirationDate.Format("2006-01-02")
		}
		batch = append(batch, push.ExpiringItemNotification{
			ItemID:              item.ID,
			ProductName:         item.ProductName,
			ExpirationDate:      expDate,
			DaysUntilExpiration: item.DaysUntilExpiration(today),
			FamilyID:            familyID,
			FamilyName:          familyName,
		})
	}
	return batch
}

func today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

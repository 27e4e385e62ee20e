package notification

import (
	"context"
	"time"

	"go.uber.org/zap"

	"smartgrocery/internal/metrics"
)

// DefaultDedupWindow is used when a caller does not care about urgency.
const DefaultDedupWindow = 24 * time.Hour

// DefaultRetention is how long read notifications are kept before the
// cleanup job may purge them.
const DefaultRetention = 30 * 24 * time.Hour

// Reference points a notification at the entity it is about.
type Reference struct {
	Type string
	ID   int64
}

// Service implements deduplicated notification creation and the
// user-facing query/mutation operations. Every user-scoped call takes the
// caller's user id explicitly.
type Service struct {
	store     Store
	log       *zap.Logger
	retention time.Duration
}

func NewService(store Store, log *zap.Logger) *Service {
	return &Service{
		store:     store,
		log:       log,
		retention: DefaultRetention,
	}
}

// Create persists a notification unless an equal (user, type, reference)
// record already exists inside the dedup window. Suppression is not an
// error; it returns (nil, nil) because repeated scans are expected to hit
// it constantly.
func (s *Service) Create(ctx context.Context, userID int64, title, message string, t Type, ref *Reference, dedupWindow time.Duration) (*Notification, error) {
	if dedupWindow <= 0 {
		dedupWindow = DefaultDedupWindow
	}

	if ref != nil {
		since := time.Now().Add(-dedupWindow)
		exists, err := s.store.ExistsByReferenceSince(ctx, userID, t, ref.Type, ref.ID, since)
		if err != nil {
			return nil, err
		}
		if exists {
			s.log.Debug("skipping duplicate notification",
				zap.Int64("user_id", userID),
				zap.String("type", string(t)),
				zap.Int64("reference_id", ref.ID))
			metrics.NotificationsSuppressed.WithLabelValues(string(t)).Inc()
			return nil, nil
		}
	}

	n := &Notification{
		UserID:  userID,
		Title:   title,
		Message: message,
		Type:    t,
	}
	if ref != nil {
		rt := ref.Type
		rid := ref.ID
		n.ReferenceType = &rt
		n.ReferenceID = &rid
	}

	if err := s.store.Create(ctx, n); err != nil {
		return nil, err
	}

	s.log.Info("created notification",
		zap.Int64("id", n.ID),
		zap.Int64("user_id", userID),
		zap.String("title", title))
	metrics.NotificationsCreated.WithLabelValues(string(t)).Inc()
	return n, nil
}

// CreateExpiryNotification builds the fridge-expiry wording for the
// urgency tier of daysUntilExpiry and delegates to Create. Returns
// (nil, nil) when suppressed by the dedup window.
func (s *Service) CreateExpiryNotification(ctx context.Context, userID, itemID int64, productName string, daysUntilExpiry int, familyName string) (*Notification, error) {
	urgency := UrgencyFor(daysUntilExpiry)
	title, message := urgency.ExpiryText(productName, familyName, daysUntilExpiry)

	return s.Create(ctx, userID, title, message, TypeFridgeExpiry,
		&Reference{Type: ReferenceTypeFridgeItem, ID: itemID},
		urgency.DedupWindow())
}

// List returns one page of the caller's notifications, newest first.
func (s *Service) List(ctx context.Context, userID int64, unreadOnly bool, limit, offset int) ([]Notification, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.store.FindByUser(ctx, userID, unreadOnly, limit, offset)
}

func (s *Service) Count(ctx context.Context, userID int64) (total, unread int64, err error) {
	return s.store.CountByUser(ctx, userID)
}

// MarkAsRead flips the given notifications to read. IDs the caller does
// not own are silently ignored; the returned count covers actual changes.
func (s *Service) MarkAsRead(ctx context.Context, userID int64, ids []int64) (int64, error) {
	return s.store.MarkReadByIDs(ctx, userID, ids, time.Now())
}

// MarkAllAsRead is idempotent: a second call changes nothing and returns 0.
func (s *Service) MarkAllAsRead(ctx context.Context, userID int64) (int64, error) {
	return s.store.MarkAllRead(ctx, userID, time.Now())
}

// Delete removes one notification owned by the caller.
func (s *Service) Delete(ctx context.Context, userID, id int64) error {
	deleted, err := s.store.DeleteByIDAndUser(ctx, id, userID)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

// CleanupOldRead purges read notifications past the retention cutoff and
// returns how many were deleted. Deleting zero is the steady state.
func (s *Service) CleanupOldRead(ctx context.Context) (int64, error) {
	before := time.Now().Add(-s.retention)
	deleted, err := s.store.DeleteReadOlderThan(ctx, before)
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		s.log.Info("cleaned up old read notifications", zap.Int64("deleted", deleted))
	}
	return deleted, nil
}

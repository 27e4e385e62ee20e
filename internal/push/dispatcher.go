package push

import (
	"context"
	"time"

	"go.uber.org/zap"

	"smartgrocery/internal/metrics"
)

// ExpiringItemNotification is the transient payload entry for one fridge
// item in a family's expiry batch. It is never persisted.
type ExpiringItemNotification struct {
	ItemID              int64  `json:"item_id"`
	ProductName         string `json:"product_name"`
	ExpirationDate      string `json:"expiration_date"` // date-only, YYYY-MM-DD
	DaysUntilExpiration int    `json:"days_until_expiration"`
	FamilyID            int64  `json:"family_id"`
	FamilyName          string `json:"family_name"`
}

// Event is the wire shape pushed to family channels.
type Event struct {
	Type     string                     `json:"type"`
	FamilyID int64                      `json:"family_id"`
	Items    []ExpiringItemNotification `json:"items"`
	SentAt   time.Time                  `json:"sent_at"`
}

const (
	EventExpiringItems = "expiring_items"
	EventExpiredItems  = "expired_items"
)

// Dispatcher delivers one family's expiry batch to its channel.
type Dispatcher interface {
	Dispatch(ctx context.Context, familyID int64, eventType string, items []ExpiringItemNotification) error
}

// Multi fans a dispatch out to several transports. A failing transport is
// logged and counted but does not stop the others; Dispatch itself never
// returns an error so a scheduler run cannot be derailed by push delivery.
type Multi struct {
	transports map[string]Dispatcher
	log        *zap.Logger
}

func NewMulti(log *zap.Logger) *Multi {
	return &Multi{
		transports: make(map[string]Dispatcher),
		log:        log,
	}
}

func (m *Multi) Add(name string, d Dispatcher) {
	m.transports[name] = d
}

func (m *Multi) Dispatch(ctx context.Context, familyID int64, eventType string, items []ExpiringItemNotification) error {
	for name, d := range m.transports {
		if err := d.Dispatch(ctx, familyID, eventType, items); err != nil {
			m.log.Warn("push dispatch failed",
				zap.String("transport", name),
				zap.Int64("family_id", familyID),
				zap.Error(err))
			metrics.PushDispatchFailures.WithLabelValues(name).Inc()
		}
	}
	return nil
}

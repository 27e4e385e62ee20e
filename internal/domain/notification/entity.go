package notification

import "time"

// Type represents notification type
type Type string

const (
	TypeGeneral          Type = "GENERAL"
	TypeFamilyInvite     Type = "FAMILY_INVITE"
	TypeFriendRequest    Type = "FRIEND_REQUEST"
	TypeFridgeExpiry     Type = "FRIDGE_EXPIRY"
	TypeShoppingReminder Type = "SHOPPING_REMINDER"
	TypeMealPlan         Type = "MEAL_PLAN"
)

// ReferenceTypeFridgeItem tags notifications that point at a fridge item.
const ReferenceTypeFridgeItem = "FRIDGE_ITEM"

// Notification is a per-user notification row. The optional
// (ReferenceType, ReferenceID) pair identifies the entity the notification
// is about and is the deduplication key together with UserID and Type.
type Notification struct {
	ID            int64      `json:"id" gorm:"primaryKey"`
	UserID        int64      `json:"user_id" gorm:"index:idx_notifications_user_unread"`
	Title         string     `json:"title" gorm:"size:200"`
	Message       string     `json:"message" gorm:"type:text"`
	Type          Type       `json:"type" gorm:"size:50;default:GENERAL"`
	ReferenceType *string    `json:"reference_type,omitempty" gorm:"size:50"`
	ReferenceID   *int64     `json:"reference_id,omitempty"`
	IsRead        bool       `json:"is_read" gorm:"index:idx_notifications_user_unread"`
	ReadAt        *time.Time `json:"read_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at" gorm:"index"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// TableName specifies table name for GORM
func (Notification) TableName() string {
	return "notifications"
}

// MarkRead flips the read flag and stamps ReadAt.
func (n *Notification) MarkRead(now time.Time) {
	n.IsRead = true
	n.ReadAt = &now
}

package domain

import "time"

type FridgeItemStatus string

const (
	FridgeItemActive   FridgeItemStatus = "ACTIVE"
	FridgeItemExpiring FridgeItemStatus = "EXPIRING"
	FridgeItemExpired  FridgeItemStatus = "EXPIRED"
)

// FridgeItem is a perishable item owned by a family. ExpirationDate is
// date-only; the time portion is always midnight UTC.
type FridgeItem struct {
	ID             int64            `json:"id" gorm:"primaryKey"`
	FamilyID       int64            `json:"family_id" gorm:"index"`
	ProductName    string           `json:"product_name" gorm:"size:200" validate:"required"`
	Quantity       float64          `json:"quantity" gorm:"default:1"`
	Unit           string           `json:"unit,omitempty" gorm:"size:50"`
	ExpirationDate *time.Time       `json:"expiration_date,omitempty" gorm:"type:date;index"`
	Status         FridgeItemStatus `json:"status" gorm:"size:20;default:ACTIVE;index"`
	AddedBy        int64            `json:"added_by" gorm:"column:added_by"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`

	Family *Family `json:"family,omitempty" gorm:"foreignKey:FamilyID"`
}

func (FridgeItem) TableName() string {
	return "fridge_items"
}

// DaysUntilExpiration returns whole days from today until the expiration
// date, clamped to zero for items already past it. Items without an
// expiration date report -1.
func (f *FridgeItem) DaysUntilExpiration(today time.Time) int {
	if f.ExpirationDate == nil {
		return -1
	}
	t := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	e := f.ExpirationDate
	exp := time.Date(e.Year(), e.Month(), e.Day(), 0, 0, 0, 0, time.UTC)
	days := int(exp.Sub(t).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

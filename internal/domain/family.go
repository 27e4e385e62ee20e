package domain

import "time"

type FamilyRole string

const (
	FamilyRoleLeader FamilyRole = "LEADER"
	FamilyRoleMember FamilyRole = "MEMBER"
)

type Family struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"size:200" validate:"required"`
	Description string    `json:"description,omitempty" gorm:"type:text"`
	InviteCode  string    `json:"invite_code" gorm:"size:20;uniqueIndex"`
	CreatedBy   int64     `json:"created_by" gorm:"column:created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Family) TableName() string {
	return "families"
}

// FamilyMember links a user to a family. A user can belong to several
// families; the (family, user) pair is unique.
type FamilyMember struct {
	ID       int64      `json:"id" gorm:"primaryKey"`
	FamilyID int64      `json:"family_id" gorm:"uniqueIndex:idx_family_user"`
	UserID   int64      `json:"user_id" gorm:"uniqueIndex:idx_family_user"`
	Role     FamilyRole `json:"role" gorm:"size:20;default:MEMBER"`
	JoinedAt time.Time  `json:"joined_at"`

	Family *Family `json:"family,omitempty" gorm:"foreignKey:FamilyID"`
	User   *User   `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

func (FamilyMember) TableName() string {
	return "family_members"
}

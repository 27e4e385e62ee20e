package domain

import "time"

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

type User struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"size:100;uniqueIndex" validate:"required"`
	Email        string    `json:"email" gorm:"size:255;uniqueIndex" validate:"required,email"`
	PasswordHash string    `json:"-" gorm:"column:password_hash"`
	FullName     string    `json:"full_name,omitempty" gorm:"size:200"`
	AvatarURL    string    `json:"avatar_url,omitempty"`
	Role         UserRole  `json:"role" gorm:"size:20;default:user"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

package repository

import (
	"context"

	"smartgrocery/internal/domain"

	"gorm.io/gorm"
)

type FamilyMemberRepository struct {
	db *gorm.DB
}

func NewFamilyMemberRepository(db *gorm.DB) *FamilyMemberRepository {
	return &FamilyMemberRepository{db: db}
}

// FindByFamilyIDWithUsers returns the family's members with their user
// rows preloaded.
func (r *FamilyMemberRepository) FindByFamilyIDWithUsers(ctx context.Context, familyID int64) ([]domain.FamilyMember, error) {
	var members []domain.FamilyMember
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("family_id = ?", familyID).
		Find(&members).Error
	return members, err
}

// FindFamilyIDsByUser returns the ids of every family the user belongs to.
// Used to pre-subscribe a websocket connection to its family channels.
func (r *FamilyMemberRepository) FindFamilyIDsByUser(ctx context.Context, userID int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).Model(&domain.FamilyMember{}).
		Where("user_id = ?", userID).
		Pluck("family_id", &ids).Error
	return ids, err
}

func (r *FamilyMemberRepository) Create(ctx context.Context, m *domain.FamilyMember) error {
	return r.db.WithContext(ctx).Create(m).Error
}

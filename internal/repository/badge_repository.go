package repository

import (
	"time"

	"formapro_backend/internal/model"

	"gorm.io/gorm"
)

type BadgeRepository struct {
	DB *gorm.DB
}

func NewBadgeRepository(db *gorm.DB) *BadgeRepository {
	return &BadgeRepository{DB: db}
}

func (r *BadgeRepository) FindByCode(code string) (*model.Badge, error) {
	var b model.Badge
	err := r.DB.Where("code = ?", code).First(&b).Error
	return &b, err
}

// Award is idempotent: the unique (user, badge) index plus FirstOrCreate
// means re-evaluating an event never produces duplicates.
func (r *BadgeRepository) Award(userID uint, badgeID uint) error {
	ub := model.UserBadge{
		UserID:   userID,
		BadgeID:  badgeID,
		EarnedAt: time.Now(),
	}
	return r.DB.Where("user_id = ? AND badge_id = ?", userID, badgeID).
		FirstOrCreate(&ub).Error
}

func (r *BadgeRepository) ListByUser(userID uint) ([]model.UserBadge, error) {
	var badges []model.UserBadge
	err := r.DB.Preload("Badge").
		Where("user_id = ?", userID).
		Order("earned_at DESC").
		Find(&badges).Error
	return badges, err
}

package model

import "time"

// Badge is a catalog of awardable distinctions, seeded at migration time.
type Badge struct {
	BaseModel
	Code        string `gorm:"size:50;unique;not null" json:"code"`
	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"size:255" json:"description"`
	Icon        string `gorm:"size:255" json:"icon"`
}

func (Badge) TableName() string {
	return "badges"
}

type UserBadge struct {
	BaseModel
	UserID   uint      `gorm:"uniqueIndex:idx_user_badge;type:bigint unsigned;not null" json:"userId"`
	BadgeID  uint      `gorm:"uniqueIndex:idx_user_badge;type:bigint unsigned;not null" json:"badgeId"`
	Badge    *Badge    `gorm:"foreignKey:BadgeID" json:"badge,omitempty"`
	EarnedAt time.Time `json:"earnedAt"`
}

func (UserBadge) TableName() string {
	return "user_badges"
}

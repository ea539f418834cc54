package model

import (
	"time"
)

type AchievementType string

const (
	AchievementFirstModule AchievementType = "FIRST_MODULE"
	AchievementWeekStreak  AchievementType = "WEEK_STREAK"
	AchievementMonthStreak AchievementType = "MONTH_STREAK"
	AchievementXP1000      AchievementType = "XP_1000"
	AchievementXP5000      AchievementType = "XP_5000"
)

// Achievement 只插入不更新，(user, type) 唯一索引保证同类型至多发放一次
// swagger:model Achievement
type Achievement struct {
	BaseModel
	UserID      uint            `gorm:"uniqueIndex:idx_user_achievement;not null" json:"userId"`
	Type        AchievementType `gorm:"uniqueIndex:idx_user_achievement;size:50;not null" json:"type"`
	Description string          `gorm:"size:255" json:"description"`
	EarnedAt    time.Time       `gorm:"not null" json:"earnedAt"`
}

func (Achievement) TableName() string {
	return "achievements"
}

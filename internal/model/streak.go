package model

import (
	"time"
)

// Streak 每个用户一条，LastActiveDate 为UTC零点对齐的日历日
type Streak struct {
	BaseModel
	UserID         uint      `gorm:"uniqueIndex;not null" json:"userId"`
	Count          int       `gorm:"default:1" json:"count"`
	LastActiveDate time.Time `gorm:"not null" json:"lastActiveDate"`
}

func (Streak) TableName() string {
	return "streaks"
}

package service

import (
	"learning_platform_backend/internal/model"
	"learning_platform_backend/internal/repository"
	"time"

	"gorm.io/gorm"
)

type StreakService struct {
	StreakRepo *repository.StreakRepository
	DB         *gorm.DB
	Clock      Clock
}

func NewStreakService(streakRepo *repository.StreakRepository, db *gorm.DB, clock Clock) *StreakService {
	return &StreakService{
		StreakRepo: streakRepo,
		DB:         db,
		Clock:      clock,
	}
}

type StreakState struct {
	Count          int       `json:"count"`
	LastActiveDate time.Time `json:"lastActiveDate"`
}

// Touch 日历日状态机：同日无变化，次日+1，隔日或时间倒流都重置为1。
// 倒流（事件日期早于已记录日期）按重置处理：存量数据分不清回放和补录
func (s *StreakService) Touch(userID uint, activityDate time.Time) (*StreakState, error) {
	day := TruncateToUTCDate(activityDate)
	var state StreakState

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		streak, err := s.StreakRepo.FindForUpdate(tx, userID)
		if err != nil {
			return err
		}

		if streak == nil {
			streak = &model.Streak{UserID: userID, Count: 1, LastActiveDate: day}
			if err := s.StreakRepo.Create(tx, streak); err != nil {
				return err
			}
			state = StreakState{Count: 1, LastActiveDate: day}
			return nil
		}

		last := TruncateToUTCDate(streak.LastActiveDate)
		diffDays := int(day.Sub(last).Hours() / 24)

		switch {
		case diffDays == 0:
			// 同一天重复完成，幂等
		case diffDays == 1:
			streak.Count++
			streak.LastActiveDate = day
			if err := s.StreakRepo.Update(tx, streak); err != nil {
				return err
			}
		default:
			streak.Count = 1
			streak.LastActiveDate = day
			if err := s.StreakRepo.Update(tx, streak); err != nil {
				return err
			}
		}

		state = StreakState{Count: streak.Count, LastActiveDate: streak.LastActiveDate}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return &state, nil
}

// Get 尚无记录时返回 count=0
func (s *StreakService) Get(userID uint) (*StreakState, error) {
	streak, err := s.StreakRepo.FindByUser(userID)
	if err != nil {
		return nil, err
	}
	if streak == nil {
		return &StreakState{Count: 0}, nil
	}
	return &StreakState{Count: streak.Count, LastActiveDate: streak.LastActiveDate}, nil
}

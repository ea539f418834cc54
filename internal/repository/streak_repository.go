package repository

import (
	"errors"
	"learning_platform_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StreakRepository struct {
	DB *gorm.DB
}

func NewStreakRepository(db *gorm.DB) *StreakRepository {
	return &StreakRepository{DB: db}
}

func (r *StreakRepository) FindByUser(userID uint) (*model.Streak, error) {
	var streak model.Streak
	err := r.DB.Where("user_id = ?", userID).First(&streak).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &streak, nil
}

// FindForUpdate 事务内锁行读取，避免同日并发更新互踩
func (r *StreakRepository) FindForUpdate(tx *gorm.DB, userID uint) (*model.Streak, error) {
	var streak model.Streak
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		First(&streak).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &streak, nil
}

func (r *StreakRepository) Create(tx *gorm.DB, streak *model.Streak) error {
	return tx.Create(streak).Error
}

func (r *StreakRepository) Update(tx *gorm.DB, streak *model.Streak) error {
	return tx.Model(&model.Streak{}).
		Where("id = ?", streak.ID).
		Updates(map[string]interface{}{
			"count":            streak.Count,
			"last_active_date": streak.LastActiveDate,
		}).Error
}

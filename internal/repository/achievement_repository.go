package repository

import (
	"learning_platform_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AchievementRepository struct {
	DB *gorm.DB
}

func NewAchievementRepository(db *gorm.DB) *AchievementRepository {
	return &AchievementRepository{DB: db}
}

func (r *AchievementRepository) FindByUser(userID uint) ([]model.Achievement, error) {
	var achievements []model.Achievement
	err := r.DB.Where("user_id = ?", userID).Order("earned_at DESC").Find(&achievements).Error
	return achievements, err
}

// FindTypesByUser 已发放的成就类型集合
func (r *AchievementRepository) FindTypesByUser(tx *gorm.DB, userID uint) (map[model.AchievementType]bool, error) {
	var types []model.AchievementType
	err := tx.Model(&model.Achievement{}).
		Where("user_id = ?", userID).
		Pluck("type", &types).Error
	if err != nil {
		return nil, err
	}

	existing := make(map[model.AchievementType]bool, len(types))
	for _, t := range types {
		existing[t] = true
	}
	return existing, nil
}

// Insert (user, type) 唯一索引是并发兜底：冲突时不报错，返回 false 表示已被
// 另一次评估抢先发放
func (r *AchievementRepository) Insert(tx *gorm.DB, achievement *model.Achievement) (bool, error) {
	result := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "type"}},
		DoNothing: true,
	}).Create(achievement)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

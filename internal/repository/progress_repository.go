package repository

import (
	"errors"
	"learning_platform_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

// Upsert (user, module) 上的后写覆盖，唯一索引保证不会出现重复行
func (r *ProgressRepository) Upsert(tx *gorm.DB, progress *model.Progress) error {
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "module_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"completed", "score", "updated_at"}),
	}).Create(progress).Error
}

func (r *ProgressRepository) FindByUserAndModule(tx *gorm.DB, userID, moduleID uint) (*model.Progress, error) {
	var progress model.Progress
	err := tx.Where("user_id = ? AND module_id = ?", userID, moduleID).First(&progress).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

func (r *ProgressRepository) FindByUser(userID uint) ([]model.Progress, error) {
	var progress []model.Progress
	err := r.DB.Where("user_id = ?", userID).Find(&progress).Error
	return progress, err
}

// CountCompletedModules 用户已完成的模块数（跨所有课程）
func (r *ProgressRepository) CountCompletedModules(tx *gorm.DB, userID uint) (int64, error) {
	var count int64
	err := tx.Model(&model.Progress{}).
		Where("user_id = ? AND completed = ?", userID, true).
		Count(&count).Error
	return count, err
}

// SumCompletedXP 已完成模块内所有单元XP之和，按需从原始行重算，不落库
func (r *ProgressRepository) SumCompletedXP(tx *gorm.DB, userID uint) (int64, error) {
	var total int64
	err := tx.Model(&model.LearningUnit{}).
		Joins("JOIN progress ON progress.module_id = learning_units.module_id").
		Where("progress.user_id = ? AND progress.completed = ?", userID, true).
		Select("COALESCE(SUM(learning_units.xp), 0)").
		Scan(&total).Error
	return total, err
}

// CourseAggregate 某课程内的 {completedUnits, totalUnits, totalXP}
func (r *ProgressRepository) CourseAggregate(tx *gorm.DB, userID, courseID uint) (completedUnits, totalUnits, totalXP int64, err error) {
	err = tx.Model(&model.LearningUnit{}).
		Joins("JOIN course_modules ON course_modules.id = learning_units.module_id").
		Where("course_modules.course_id = ?", courseID).
		Count(&totalUnits).Error
	if err != nil {
		return 0, 0, 0, err
	}

	err = tx.Model(&model.LearningUnit{}).
		Joins("JOIN course_modules ON course_modules.id = learning_units.module_id").
		Joins("JOIN progress ON progress.module_id = learning_units.module_id AND progress.user_id = ?", userID).
		Where("course_modules.course_id = ? AND progress.completed = ?", courseID, true).
		Count(&completedUnits).Error
	if err != nil {
		return 0, 0, 0, err
	}

	err = tx.Model(&model.LearningUnit{}).
		Joins("JOIN course_modules ON course_modules.id = learning_units.module_id").
		Joins("JOIN progress ON progress.module_id = learning_units.module_id AND progress.user_id = ?", userID).
		Where("course_modules.course_id = ? AND progress.completed = ?", courseID, true).
		Select("COALESCE(SUM(learning_units.xp), 0)").
		Scan(&totalXP).Error
	if err != nil {
		return 0, 0, 0, err
	}

	return completedUnits, totalUnits, totalXP, nil
}

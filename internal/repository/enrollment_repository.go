package repository

import (
	"errors"
	"learning_platform_backend/internal/model"
	"learning_platform_backend/internal/util"

	"gorm.io/gorm"
)

type EnrollmentRepository struct {
	DB *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) *EnrollmentRepository {
	return &EnrollmentRepository{DB: db}
}

// FindByUserAndCourse 不论状态，已取消的报名也会命中（阻止重新插入）
func (r *EnrollmentRepository) FindByUserAndCourse(tx *gorm.DB, userID, courseID uint) (*model.Enrollment, error) {
	var enrollment model.Enrollment
	err := tx.Where("user_id = ? AND course_id = ?", userID, courseID).First(&enrollment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNotEnrolled
	}
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// CountNonTerminal pending+approved 都占名额（保守的占座口径）
func (r *EnrollmentRepository) CountNonTerminal(tx *gorm.DB, courseID uint) (int64, error) {
	var count int64
	err := tx.Model(&model.Enrollment{}).
		Where("course_id = ? AND status IN ?", courseID,
			[]model.EnrollmentStatus{model.EnrollmentPending, model.EnrollmentApproved}).
		Count(&count).Error
	return count, err
}

func (r *EnrollmentRepository) Create(tx *gorm.DB, enrollment *model.Enrollment) error {
	return tx.Create(enrollment).Error
}

func (r *EnrollmentRepository) UpdateStatus(tx *gorm.DB, id uint, status model.EnrollmentStatus) error {
	return tx.Model(&model.Enrollment{}).
		Where("id = ?", id).
		Update("status", status).
		Error
}

func (r *EnrollmentRepository) FindByID(id uint) (*model.Enrollment, error) {
	var enrollment model.Enrollment
	err := r.DB.First(&enrollment, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNotEnrolled
	}
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (r *EnrollmentRepository) FindByCourse(courseID uint) ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	err := r.DB.Where("course_id = ?", courseID).Order("created_at ASC").Find(&enrollments).Error
	return enrollments, err
}

func (r *EnrollmentRepository) FindByUser(userID uint) ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	err := r.DB.Where("user_id = ?", userID).Order("created_at DESC").Find(&enrollments).Error
	return enrollments, err
}

package repository

import (
	"errors"
	"learning_platform_backend/internal/model"
	"learning_platform_backend/internal/util"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

func (r *CourseRepository) Create(course *model.Course) error {
	return r.DB.Create(course).Error
}

func (r *CourseRepository) Update(course *model.Course) error {
	return r.DB.Save(course).Error
}

func (r *CourseRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Course{}, id).Error
}

func (r *CourseRepository) FindByID(id uint) (*model.Course, error) {
	var course model.Course
	err := r.DB.First(&course, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrCourseNotFound
	}
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *CourseRepository) FindAll() ([]model.Course, error) {
	var courses []model.Course
	err := r.DB.Order("created_at DESC").Find(&courses).Error
	return courses, err
}

// FindForUpdate 在事务内锁定课程行，关闭容量检查与写入之间的竞态窗口
func (r *CourseRepository) FindForUpdate(tx *gorm.DB, id uint) (*model.Course, error) {
	var course model.Course
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&course, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrCourseNotFound
	}
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *CourseRepository) FindModules(courseID uint) ([]model.CourseModule, error) {
	var modules []model.CourseModule
	err := r.DB.Preload("Units", func(db *gorm.DB) *gorm.DB {
		return db.Order("learning_units.`order` ASC")
	}).
		Where("course_id = ?", courseID).
		Order("`order` ASC").
		Find(&modules).Error
	return modules, err
}

func (r *CourseRepository) FindModuleByID(id uint) (*model.CourseModule, error) {
	var module model.CourseModule
	err := r.DB.First(&module, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrModuleNotFound
	}
	if err != nil {
		return nil, err
	}
	return &module, nil
}

func (r *CourseRepository) CreateModule(module *model.CourseModule) error {
	return r.DB.Create(module).Error
}

func (r *CourseRepository) UpdateModule(module *model.CourseModule) error {
	return r.DB.Save(module).Error
}

func (r *CourseRepository) DeleteModule(id uint) error {
	return r.DB.Delete(&model.CourseModule{}, id).Error
}

func (r *CourseRepository) FindUnitByID(id uint) (*model.LearningUnit, error) {
	var unit model.LearningUnit
	err := r.DB.First(&unit, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrUnitNotFound
	}
	if err != nil {
		return nil, err
	}
	return &unit, nil
}

func (r *CourseRepository) CreateUnit(unit *model.LearningUnit) error {
	return r.DB.Create(unit).Error
}

func (r *CourseRepository) UpdateUnit(unit *model.LearningUnit) error {
	return r.DB.Save(unit).Error
}

func (r *CourseRepository) DeleteUnit(id uint) error {
	return r.DB.Delete(&model.LearningUnit{}, id).Error
}

// CountUnits 课程下全部单元数
func (r *CourseRepository) CountUnits(courseID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.LearningUnit{}).
		Joins("JOIN course_modules ON course_modules.id = learning_units.module_id").
		Where("course_modules.course_id = ?", courseID).
		Count(&count).Error
	return count, err
}

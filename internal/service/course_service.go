package service

import (
	"context"
	"encoding/json"
	"errors"
	"learning_platform_backend/internal/model"
	"learning_platform_backend/internal/repository"
	"learning_platform_backend/internal/util"
	"learning_platform_backend/pkg/logger"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	courseListCacheKey = "courses:list"
	courseListCacheTTL = 5 * time.Minute
)

type CourseService struct {
	CourseRepo *repository.CourseRepository
	Redis      *redis.Client
}

func NewCourseService(courseRepo *repository.CourseRepository, rdb *redis.Client) *CourseService {
	return &CourseService{
		CourseRepo: courseRepo,
		Redis:      rdb,
	}
}

type CourseRequest struct {
	Title           string    `json:"title" binding:"required"`
	Description     string    `json:"description"`
	Category        string    `json:"category"`
	MaxParticipants int       `json:"maxParticipants" binding:"required,min=1"`
	StartDate       time.Time `json:"startDate"`
	EndDate         time.Time `json:"endDate"`
}

type ModuleRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Order       int    `json:"order"`
}

type UnitRequest struct {
	Type    model.UnitType `json:"type"`
	Title   string         `json:"title" binding:"required"`
	Content string         `json:"content"`
	XP      int            `json:"xp" binding:"min=0"`
	Order   int            `json:"order"`
}

// List 课程目录走Redis旁路缓存，写操作时失效
func (s *CourseService) List(ctx context.Context) ([]model.Course, error) {
	if s.Redis != nil {
		cached, err := s.Redis.Get(ctx, courseListCacheKey).Bytes()
		if err == nil {
			var courses []model.Course
			if err := json.Unmarshal(cached, &courses); err == nil {
				return courses, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			logger.Log.Warn("course cache read failed", zap.Error(err))
		}
	}

	courses, err := s.CourseRepo.FindAll()
	if err != nil {
		return nil, err
	}

	if s.Redis != nil {
		if data, err := json.Marshal(courses); err == nil {
			s.Redis.Set(ctx, courseListCacheKey, data, courseListCacheTTL)
		}
	}
	return courses, nil
}

func (s *CourseService) invalidateCache(ctx context.Context) {
	if s.Redis != nil {
		s.Redis.Del(ctx, courseListCacheKey)
	}
}

func (s *CourseService) Get(id uint) (*model.Course, error) {
	course, err := s.CourseRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	modules, err := s.CourseRepo.FindModules(id)
	if err != nil {
		return nil, err
	}
	course.Modules = modules
	return course, nil
}

func (s *CourseService) Create(ctx context.Context, teacherID uint, req CourseRequest) (*model.Course, error) {
	course := &model.Course{
		Title:           req.Title,
		Description:     req.Description,
		Category:        req.Category,
		MaxParticipants: req.MaxParticipants,
		TeacherID:       teacherID,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
	}
	if err := s.CourseRepo.Create(course); err != nil {
		return nil, err
	}
	s.invalidateCache(ctx)
	return course, nil
}

func (s *CourseService) Update(ctx context.Context, actor *util.Claims, id uint, req CourseRequest) (*model.Course, error) {
	course, err := s.authorize(actor, id)
	if err != nil {
		return nil, err
	}

	course.Title = req.Title
	course.Description = req.Description
	course.Category = req.Category
	course.MaxParticipants = req.MaxParticipants
	course.StartDate = req.StartDate
	course.EndDate = req.EndDate

	if err := s.CourseRepo.Update(course); err != nil {
		return nil, err
	}
	s.invalidateCache(ctx)
	return course, nil
}

func (s *CourseService) Delete(ctx context.Context, actor *util.Claims, id uint) error {
	if _, err := s.authorize(actor, id); err != nil {
		return err
	}
	if err := s.CourseRepo.Delete(id); err != nil {
		return err
	}
	s.invalidateCache(ctx)
	return nil
}

func (s *CourseService) Modules(courseID uint) ([]model.CourseModule, error) {
	if _, err := s.CourseRepo.FindByID(courseID); err != nil {
		return nil, err
	}
	return s.CourseRepo.FindModules(courseID)
}

func (s *CourseService) CreateModule(actor *util.Claims, courseID uint, req ModuleRequest) (*model.CourseModule, error) {
	if _, err := s.authorize(actor, courseID); err != nil {
		return nil, err
	}
	module := &model.CourseModule{
		CourseID:    courseID,
		Title:       req.Title,
		Description: req.Description,
		Order:       req.Order,
	}
	if err := s.CourseRepo.CreateModule(module); err != nil {
		return nil, err
	}
	return module, nil
}

func (s *CourseService) CreateUnit(actor *util.Claims, courseID, moduleID uint, req UnitRequest) (*model.LearningUnit, error) {
	if _, err := s.authorize(actor, courseID); err != nil {
		return nil, err
	}
	module, err := s.CourseRepo.FindModuleByID(moduleID)
	if err != nil {
		return nil, err
	}
	if module.CourseID != courseID {
		return nil, util.ErrModuleNotFound
	}

	unitType := req.Type
	if unitType == "" {
		unitType = model.UnitLesson
	}
	unit := &model.LearningUnit{
		ModuleID: moduleID,
		Type:     unitType,
		Title:    req.Title,
		Content:  req.Content,
		XP:       req.XP,
		Order:    req.Order,
	}
	if err := s.CourseRepo.CreateUnit(unit); err != nil {
		return nil, err
	}
	return unit, nil
}

func (s *CourseService) DeleteUnit(actor *util.Claims, courseID, unitID uint) error {
	if _, err := s.authorize(actor, courseID); err != nil {
		return err
	}
	unit, err := s.CourseRepo.FindUnitByID(unitID)
	if err != nil {
		return err
	}
	module, err := s.CourseRepo.FindModuleByID(unit.ModuleID)
	if err != nil {
		return err
	}
	if module.CourseID != courseID {
		return util.ErrUnitNotFound
	}
	return s.CourseRepo.DeleteUnit(unitID)
}

// authorize 只有课程归属教师或管理员可以改动课程内容
func (s *CourseService) authorize(actor *util.Claims, courseID uint) (*model.Course, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		return nil, err
	}
	if actor.Role != model.Admin && course.TeacherID != actor.UserID {
		return nil, util.ErrPermissionDenied
	}
	return course, nil
}

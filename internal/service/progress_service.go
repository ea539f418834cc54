package service

import (
	"learning_platform_backend/internal/model"
	"learning_platform_backend/internal/repository"
	"learning_platform_backend/internal/util"
	"learning_platform_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ProgressService struct {
	CourseRepo   *repository.CourseRepository
	ProgressRepo *repository.ProgressRepository
	Streaks      *StreakService
	Achievements *AchievementService
	DB           *gorm.DB
	Clock        Clock
}

func NewProgressService(
	courseRepo *repository.CourseRepository,
	progressRepo *repository.ProgressRepository,
	streaks *StreakService,
	achievements *AchievementService,
	db *gorm.DB,
	clock Clock,
) *ProgressService {
	return &ProgressService{
		CourseRepo:   courseRepo,
		ProgressRepo: progressRepo,
		Streaks:      streaks,
		Achievements: achievements,
		DB:           db,
		Clock:        clock,
	}
}

// ProgressAggregate 按需从进度表重算，不冗余存储
type ProgressAggregate struct {
	CourseID       uint  `json:"courseId"`
	CompletedUnits int64 `json:"completedUnits"`
	TotalUnits     int64 `json:"totalUnits"`
	TotalXP        int64 `json:"totalXp"`
}

type CompletionResult struct {
	Progress        *model.Progress     `json:"progress"`
	Aggregate       ProgressAggregate   `json:"aggregate"`
	Streak          *StreakState        `json:"streak,omitempty"`
	NewAchievements []model.Achievement `json:"newAchievements"`
}

type CompletionRequest struct {
	UnitID    uint     `json:"unitId" binding:"required"`
	Completed bool     `json:"completed"`
	Score     *float64 `json:"score"`
}

// RecordCompletion 进度写入是持久化的事实来源；打卡和成就各自独立提交，
// 失败只记日志不回滚进度（可以事后重算补发）
func (s *ProgressService) RecordCompletion(userID uint, req CompletionRequest) (*CompletionResult, error) {
	if req.Score != nil && *req.Score < 0 {
		return nil, util.ErrInvalidScore
	}

	unit, err := s.CourseRepo.FindUnitByID(req.UnitID)
	if err != nil {
		return nil, err
	}
	module, err := s.CourseRepo.FindModuleByID(unit.ModuleID)
	if err != nil {
		return nil, err
	}

	progress := &model.Progress{
		UserID:    userID,
		ModuleID:  unit.ModuleID,
		Completed: req.Completed,
		Score:     req.Score,
	}

	var wasCompleted bool
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		previous, err := s.ProgressRepo.FindByUserAndModule(tx, userID, unit.ModuleID)
		if err != nil {
			return err
		}
		wasCompleted = previous != nil && previous.Completed
		return s.ProgressRepo.Upsert(tx, progress)
	})
	if err != nil {
		return nil, util.ClassifyStoreError(err)
	}

	result := &CompletionResult{
		Progress:        progress,
		NewAchievements: []model.Achievement{},
	}

	completedUnits, totalUnits, totalXP, err := s.ProgressRepo.CourseAggregate(s.DB, userID, module.CourseID)
	if err != nil {
		return nil, err
	}
	result.Aggregate = ProgressAggregate{
		CourseID:       module.CourseID,
		CompletedUnits: completedUnits,
		TotalUnits:     totalUnits,
		TotalXP:        totalXP,
	}

	// 只有未完成→完成的跃迁才驱动打卡和成就
	if req.Completed && !wasCompleted {
		streak, err := s.Streaks.Touch(userID, s.Clock.Now())
		if err != nil {
			logger.Log.Warn("streak update failed after progress write",
				zap.Uint("userId", userID), zap.Error(err))
		} else {
			result.Streak = streak
		}

		awarded, err := s.Achievements.Evaluate(userID)
		if err != nil {
			logger.Log.Warn("achievement evaluation failed after progress write",
				zap.Uint("userId", userID), zap.Error(err))
		} else {
			result.NewAchievements = awarded
		}
	}

	return result, nil
}

type CourseOverview struct {
	Course    model.Course      `json:"course"`
	Aggregate ProgressAggregate `json:"aggregate"`
}

type ProgressOverview struct {
	Courses []CourseOverview `json:"courses"`
	Streak  *StreakState     `json:"streak"`
}

// Overview 学员侧看板：各报名课程的聚合进度加当前打卡状态
func (s *ProgressService) Overview(userID uint, enrollments []model.Enrollment) (*ProgressOverview, error) {
	overview := &ProgressOverview{Courses: []CourseOverview{}}

	for _, enrollment := range enrollments {
		if !enrollment.Status.NonTerminal() {
			continue
		}
		course, err := s.CourseRepo.FindByID(enrollment.CourseID)
		if err != nil {
			continue
		}
		completedUnits, totalUnits, totalXP, err := s.ProgressRepo.CourseAggregate(s.DB, userID, course.ID)
		if err != nil {
			return nil, err
		}
		overview.Courses = append(overview.Courses, CourseOverview{
			Course: *course,
			Aggregate: ProgressAggregate{
				CourseID:       course.ID,
				CompletedUnits: completedUnits,
				TotalUnits:     totalUnits,
				TotalXP:        totalXP,
			},
		})
	}

	streak, err := s.Streaks.Get(userID)
	if err != nil {
		return nil, err
	}
	overview.Streak = streak
	return overview, nil
}

package service

import (
	"learning_platform_backend/internal/config"
	"learning_platform_backend/internal/model"
	"learning_platform_backend/internal/repository"
	"learning_platform_backend/internal/util"
	"learning_platform_backend/pkg/logger"
	"learning_platform_backend/pkg/monitoring"
	"sync"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type AchievementService struct {
	AchievementRepo *repository.AchievementRepository
	ProgressRepo    *repository.ProgressRepository
	StreakRepo      *repository.StreakRepository
	DB              *gorm.DB
	Clock           Clock

	mu    sync.RWMutex
	rules []achievementRule
}

func NewAchievementService(
	achievementRepo *repository.AchievementRepository,
	progressRepo *repository.ProgressRepository,
	streakRepo *repository.StreakRepository,
	db *gorm.DB,
	clock Clock,
	cfg config.GamificationConfig,
) *AchievementService {
	return &AchievementService{
		AchievementRepo: achievementRepo,
		ProgressRepo:    progressRepo,
		StreakRepo:      streakRepo,
		DB:              db,
		Clock:           clock,
		rules:           buildRules(cfg),
	}
}

// AchievementAggregates 评估输入，从进度/打卡原始行即时重算
type AchievementAggregates struct {
	TotalXP          int64 `json:"totalXp"`
	CompletedModules int64 `json:"completedModules"`
	StreakCount      int   `json:"streakCount"`
}

// 规则是数据不是分支，新成就类型只加表项
type achievementRule struct {
	Type        model.AchievementType
	Description string
	Satisfied   func(AchievementAggregates) bool
}

func buildRules(cfg config.GamificationConfig) []achievementRule {
	return []achievementRule{
		{
			Type:        model.AchievementFirstModule,
			Description: "Completed the first module",
			Satisfied: func(a AchievementAggregates) bool {
				return a.CompletedModules >= int64(cfg.FirstModuleCount)
			},
		},
		{
			Type:        model.AchievementWeekStreak,
			Description: "Learning streak of 7 days",
			Satisfied: func(a AchievementAggregates) bool {
				return a.StreakCount >= cfg.WeekStreakDays
			},
		},
		{
			Type:        model.AchievementMonthStreak,
			Description: "Learning streak of 30 days",
			Satisfied: func(a AchievementAggregates) bool {
				return a.StreakCount >= cfg.MonthStreakDays
			},
		},
		{
			Type:        model.AchievementXP1000,
			Description: "Reached 1000 XP",
			Satisfied: func(a AchievementAggregates) bool {
				return a.TotalXP >= int64(cfg.XPMilestoneBronze)
			},
		},
		{
			Type:        model.AchievementXP5000,
			Description: "Reached 5000 XP",
			Satisfied: func(a AchievementAggregates) bool {
				return a.TotalXP >= int64(cfg.XPMilestoneSilver)
			},
		},
	}
}

// Reconfigure 配置热更新回调，阈值变更不用重启
func (s *AchievementService) Reconfigure(cfg config.GamificationConfig) {
	s.mu.Lock()
	s.rules = buildRules(cfg)
	s.mu.Unlock()
	logger.Log.Info("achievement thresholds reloaded")
}

// Evaluate 在单个事务内读取聚合快照并发放缺失的成就，只返回本次新发放的。
// 并发评估由 (user, type) 唯一索引兜底：插入冲突当作“已发放”，不是错误
func (s *AchievementService) Evaluate(userID uint) ([]model.Achievement, error) {
	s.mu.RLock()
	rules := s.rules
	s.mu.RUnlock()

	var awarded []model.Achievement

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		completedModules, err := s.ProgressRepo.CountCompletedModules(tx, userID)
		if err != nil {
			return err
		}
		totalXP, err := s.ProgressRepo.SumCompletedXP(tx, userID)
		if err != nil {
			return err
		}

		streakCount := 0
		if streak, err := s.StreakRepo.FindForUpdate(tx, userID); err != nil {
			return err
		} else if streak != nil {
			streakCount = streak.Count
		}

		aggregates := AchievementAggregates{
			TotalXP:          totalXP,
			CompletedModules: completedModules,
			StreakCount:      streakCount,
		}

		existing, err := s.AchievementRepo.FindTypesByUser(tx, userID)
		if err != nil {
			return err
		}

		now := s.Clock.Now()
		for _, rule := range rules {
			if existing[rule.Type] || !rule.Satisfied(aggregates) {
				continue
			}

			achievement := model.Achievement{
				UserID:      userID,
				Type:        rule.Type,
				Description: rule.Description,
				EarnedAt:    now,
			}
			inserted, err := s.AchievementRepo.Insert(tx, &achievement)
			if err != nil {
				return err
			}
			if !inserted {
				// 另一次并发评估抢先了，视为已发放
				continue
			}
			awarded = append(awarded, achievement)
		}
		return nil
	})

	if err != nil {
		return nil, util.ClassifyStoreError(err)
	}

	for _, a := range awarded {
		monitoring.AchievementsAwarded.WithLabelValues(string(a.Type)).Inc()
		logger.Log.Info("achievement awarded",
			zap.Uint("userId", userID),
			zap.String("type", string(a.Type)))
	}
	return awarded, nil
}

func (s *AchievementService) List(userID uint) ([]model.Achievement, error) {
	return s.AchievementRepo.FindByUser(userID)
}

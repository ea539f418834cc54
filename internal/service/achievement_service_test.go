package service

import (
	"learning_platform_backend/internal/config"
	"learning_platform_backend/internal/model"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultGamification() config.GamificationConfig {
	return config.GamificationConfig{
		FirstModuleCount:  1,
		WeekStreakDays:    7,
		MonthStreakDays:   30,
		XPMilestoneBronze: 1000,
		XPMilestoneSilver: 5000,
	}
}

func newAchievementService(f *testFixture, cfg config.GamificationConfig) *AchievementService {
	return NewAchievementService(f.award, f.progress, f.streaks, f.db, f.clock, cfg)
}

// completeModule 直接写进度行，绕过上层服务
func completeModule(t *testing.T, f *testFixture, userID, moduleID uint) {
	t.Helper()
	require.NoError(t, f.progress.Upsert(f.db, &model.Progress{
		UserID:    userID,
		ModuleID:  moduleID,
		Completed: true,
	}))
}

func TestEvaluate_NoProgressNoAwards(t *testing.T) {
	f := newFixture(t)
	svc := newAchievementService(f, defaultGamification())
	user := f.createUser(t, "student", model.Student)

	awarded, err := svc.Evaluate(user.ID)
	require.NoError(t, err)
	assert.Empty(t, awarded)
}

func TestEvaluate_FirstModule(t *testing.T) {
	f := newFixture(t)
	svc := newAchievementService(f, defaultGamification())

	teacher := f.createUser(t, "teacher", model.Teacher)
	user := f.createUser(t, "student", model.Student)
	course := f.createCourse(t, teacher.ID, 30)
	module := f.createModule(t, course.ID)
	f.createUnit(t, module.ID, 50)

	completeModule(t, f, user.ID, module.ID)

	awarded, err := svc.Evaluate(user.ID)
	require.NoError(t, err)
	require.Len(t, awarded, 1)
	assert.Equal(t, model.AchievementFirstModule, awarded[0].Type)
}

func TestEvaluate_AtMostOnce(t *testing.T) {
	f := newFixture(t)
	svc := newAchievementService(f, defaultGamification())

	teacher := f.createUser(t, "teacher", model.Teacher)
	user := f.createUser(t, "student", model.Student)
	course := f.createCourse(t, teacher.ID, 30)
	module := f.createModule(t, course.ID)
	f.createUnit(t, module.ID, 50)

	completeModule(t, f, user.ID, module.ID)

	awarded, err := svc.Evaluate(user.ID)
	require.NoError(t, err)
	require.Len(t, awarded, 1)

	// 重复评估不会再次发放
	awarded, err = svc.Evaluate(user.ID)
	require.NoError(t, err)
	assert.Empty(t, awarded)

	all, err := svc.List(user.ID)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestEvaluate_XPMilestones(t *testing.T) {
	f := newFixture(t)
	svc := newAchievementService(f, defaultGamification())

	teacher := f.createUser(t, "teacher", model.Teacher)
	user := f.createUser(t, "student", model.Student)
	course := f.createCourse(t, teacher.ID, 30)

	// 两个模块共 5200 XP，超过两档里程碑
	m1 := f.createModule(t, course.ID)
	f.createUnit(t, m1.ID, 1200)
	m2 := f.createModule(t, course.ID)
	f.createUnit(t, m2.ID, 4000)

	completeModule(t, f, user.ID, m1.ID)
	completeModule(t, f, user.ID, m2.ID)

	awarded, err := svc.Evaluate(user.ID)
	require.NoError(t, err)

	types := make(map[model.AchievementType]bool)
	for _, a := range awarded {
		types[a.Type] = true
	}
	assert.True(t, types[model.AchievementFirstModule])
	assert.True(t, types[model.AchievementXP1000])
	assert.True(t, types[model.AchievementXP5000])
}

func TestEvaluate_IncompleteModuleXPNotCounted(t *testing.T) {
	f := newFixture(t)
	svc := newAchievementService(f, defaultGamification())

	teacher := f.createUser(t, "teacher", model.Teacher)
	user := f.createUser(t, "student", model.Student)
	course := f.createCourse(t, teacher.ID, 30)

	module := f.createModule(t, course.ID)
	f.createUnit(t, module.ID, 2000)

	// 未完成的进度行，XP不计入
	require.NoError(t, f.progress.Upsert(f.db, &model.Progress{
		UserID:   user.ID,
		ModuleID: module.ID,
	}))

	awarded, err := svc.Evaluate(user.ID)
	require.NoError(t, err)
	assert.Empty(t, awarded)
}

func TestEvaluate_StreakThresholds(t *testing.T) {
	f := newFixture(t)
	svc := newAchievementService(f, defaultGamification())
	user := f.createUser(t, "student", model.Student)

	require.NoError(t, f.streaks.Create(f.db, &model.Streak{
		UserID:         user.ID,
		Count:          7,
		LastActiveDate: f.clock.Now(),
	}))

	awarded, err := svc.Evaluate(user.ID)
	require.NoError(t, err)
	require.Len(t, awarded, 1)
	assert.Equal(t, model.AchievementWeekStreak, awarded[0].Type)
}

func TestEvaluate_Concurrent(t *testing.T) {
	f := newFixture(t)
	svc := newAchievementService(f, defaultGamification())

	teacher := f.createUser(t, "teacher", model.Teacher)
	user := f.createUser(t, "student", model.Student)
	course := f.createCourse(t, teacher.ID, 30)
	module := f.createModule(t, course.ID)
	f.createUnit(t, module.ID, 50)

	completeModule(t, f, user.ID, module.ID)

	const workers = 5
	var wg sync.WaitGroup
	results := make([][]model.Achievement, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			awarded, err := svc.Evaluate(user.ID)
			assert.NoError(t, err)
			results[i] = awarded
		}(i)
	}
	wg.Wait()

	total := 0
	for _, r := range results {
		total += len(r)
	}
	assert.Equal(t, 1, total)
}

func TestReconfigure_ChangesThresholds(t *testing.T) {
	f := newFixture(t)
	svc := newAchievementService(f, defaultGamification())
	user := f.createUser(t, "student", model.Student)

	require.NoError(t, f.streaks.Create(f.db, &model.Streak{
		UserID:         user.ID,
		Count:          3,
		LastActiveDate: f.clock.Now(),
	}))

	awarded, err := svc.Evaluate(user.ID)
	require.NoError(t, err)
	assert.Empty(t, awarded)

	cfg := defaultGamification()
	cfg.WeekStreakDays = 3
	svc.Reconfigure(cfg)

	awarded, err = svc.Evaluate(user.ID)
	require.NoError(t, err)
	require.Len(t, awarded, 1)
	assert.Equal(t, model.AchievementWeekStreak, awarded[0].Type)
}

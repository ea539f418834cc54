package service

import (
	"learning_platform_backend/internal/model"
	"learning_platform_backend/internal/repository"
	"learning_platform_backend/pkg/database"
	"learning_platform_backend/pkg/logger"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func init() {
	logger.Log = zap.NewNop()
}

// newTestDB 内存sqlite，单连接串行化并发事务
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	return c.now
}

type testFixture struct {
	db          *gorm.DB
	clock       *fixedClock
	users       *repository.UserRepository
	courses     *repository.CourseRepository
	enrollments *repository.EnrollmentRepository
	progress    *repository.ProgressRepository
	streaks     *repository.StreakRepository
	award       *repository.AchievementRepository
}

func newFixture(t *testing.T) *testFixture {
	db := newTestDB(t)
	return &testFixture{
		db:          db,
		clock:       &fixedClock{now: time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)},
		users:       repository.NewUserRepository(db),
		courses:     repository.NewCourseRepository(db),
		enrollments: repository.NewEnrollmentRepository(db),
		progress:    repository.NewProgressRepository(db),
		streaks:     repository.NewStreakRepository(db),
		award:       repository.NewAchievementRepository(db),
	}
}

func (f *testFixture) createUser(t *testing.T, name string, role model.UserRole) *model.User {
	t.Helper()
	user := &model.User{
		Name:     name,
		Email:    name + "@example.com",
		Password: "hashed",
		Role:     role,
	}
	require.NoError(t, f.users.Create(user))
	return user
}

func (f *testFixture) createCourse(t *testing.T, teacherID uint, maxParticipants int) *model.Course {
	t.Helper()
	course := &model.Course{
		Title:           "Go基础",
		MaxParticipants: maxParticipants,
		TeacherID:       teacherID,
	}
	require.NoError(t, f.courses.Create(course))
	return course
}

func (f *testFixture) createModule(t *testing.T, courseID uint) *model.CourseModule {
	t.Helper()
	module := &model.CourseModule{
		CourseID: courseID,
		Title:    "模块",
	}
	require.NoError(t, f.courses.CreateModule(module))
	return module
}

func (f *testFixture) createUnit(t *testing.T, moduleID uint, xp int) *model.LearningUnit {
	t.Helper()
	unit := &model.LearningUnit{
		ModuleID: moduleID,
		Type:     model.UnitLesson,
		Title:    "单元",
		XP:       xp,
	}
	require.NoError(t, f.courses.CreateUnit(unit))
	return unit
}

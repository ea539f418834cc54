package service

import (
	"context"
	"learning_platform_backend/internal/model"
	"learning_platform_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCourseService(f *testFixture) *CourseService {
	return NewCourseService(f.courses, nil)
}

func TestCourseCreateAndGet(t *testing.T) {
	f := newFixture(t)
	svc := newCourseService(f)
	teacher := f.createUser(t, "teacher", model.Teacher)

	course, err := svc.Create(context.Background(), teacher.ID, CourseRequest{
		Title:           "并发编程",
		MaxParticipants: 20,
	})
	require.NoError(t, err)

	actor := &util.Claims{UserID: teacher.ID, Role: model.Teacher}
	module, err := svc.CreateModule(actor, course.ID, ModuleRequest{Title: "goroutine"})
	require.NoError(t, err)

	_, err = svc.CreateUnit(actor, course.ID, module.ID, UnitRequest{Title: "channel基础", XP: 100})
	require.NoError(t, err)

	got, err := svc.Get(course.ID)
	require.NoError(t, err)
	assert.Equal(t, "并发编程", got.Title)
	require.Len(t, got.Modules, 1)
	assert.Len(t, got.Modules[0].Units, 1)
}

func TestCourseGet_NotFound(t *testing.T) {
	f := newFixture(t)
	svc := newCourseService(f)

	_, err := svc.Get(999)
	assert.ErrorIs(t, err, util.ErrCourseNotFound)
}

func TestCourseUpdate_PermissionDenied(t *testing.T) {
	f := newFixture(t)
	svc := newCourseService(f)

	teacher := f.createUser(t, "teacher", model.Teacher)
	other := f.createUser(t, "other", model.Teacher)
	course := f.createCourse(t, teacher.ID, 30)

	actor := &util.Claims{UserID: other.ID, Role: model.Teacher}
	_, err := svc.Update(context.Background(), actor, course.ID, CourseRequest{
		Title:           "改名",
		MaxParticipants: 10,
	})
	assert.ErrorIs(t, err, util.ErrPermissionDenied)
}

func TestCourseCreateUnit_WrongCourse(t *testing.T) {
	f := newFixture(t)
	svc := newCourseService(f)

	teacher := f.createUser(t, "teacher", model.Teacher)
	courseA := f.createCourse(t, teacher.ID, 30)
	courseB := f.createCourse(t, teacher.ID, 30)
	moduleA := f.createModule(t, courseA.ID)

	// 模块不属于目标课程
	actor := &util.Claims{UserID: teacher.ID, Role: model.Teacher}
	_, err := svc.CreateUnit(actor, courseB.ID, moduleA.ID, UnitRequest{Title: "单元"})
	assert.ErrorIs(t, err, util.ErrModuleNotFound)
}

func TestCourseDeleteUnit(t *testing.T) {
	f := newFixture(t)
	svc := newCourseService(f)

	teacher := f.createUser(t, "teacher", model.Teacher)
	course := f.createCourse(t, teacher.ID, 30)
	module := f.createModule(t, course.ID)
	unit := f.createUnit(t, module.ID, 50)

	actor := &util.Claims{UserID: teacher.ID, Role: model.Teacher}
	require.NoError(t, svc.DeleteUnit(actor, course.ID, unit.ID))

	_, err := f.courses.FindUnitByID(unit.ID)
	assert.ErrorIs(t, err, util.ErrUnitNotFound)
}

func TestCourseList(t *testing.T) {
	f := newFixture(t)
	svc := newCourseService(f)
	teacher := f.createUser(t, "teacher", model.Teacher)

	f.createCourse(t, teacher.ID, 30)
	f.createCourse(t, teacher.ID, 30)

	courses, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, courses, 2)
}

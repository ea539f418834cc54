package service

import (
	"learning_platform_backend/internal/model"
	"learning_platform_backend/internal/util"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEnrollmentService(f *testFixture) *EnrollmentService {
	return NewEnrollmentService(f.courses, f.enrollments, f.db)
}

func TestEnroll_Success(t *testing.T) {
	f := newFixture(t)
	svc := newEnrollmentService(f)

	teacher := f.createUser(t, "teacher", model.Teacher)
	student := f.createUser(t, "student", model.Student)
	course := f.createCourse(t, teacher.ID, 30)

	enrollment, err := svc.Enroll(student.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, model.EnrollmentPending, enrollment.Status)
	assert.Equal(t, student.ID, enrollment.UserID)
	assert.Equal(t, course.ID, enrollment.CourseID)
}

func TestEnroll_CourseNotFound(t *testing.T) {
	f := newFixture(t)
	svc := newEnrollmentService(f)

	student := f.createUser(t, "student", model.Student)

	_, err := svc.Enroll(student.ID, 999)
	assert.ErrorIs(t, err, util.ErrCourseNotFound)
}

func TestEnroll_Duplicate(t *testing.T) {
	f := newFixture(t)
	svc := newEnrollmentService(f)

	teacher := f.createUser(t, "teacher", model.Teacher)
	student := f.createUser(t, "student", model.Student)
	course := f.createCourse(t, teacher.ID, 30)

	_, err := svc.Enroll(student.ID, course.ID)
	require.NoError(t, err)

	_, err = svc.Enroll(student.ID, course.ID)
	assert.ErrorIs(t, err, util.ErrAlreadyEnrolled)
}

func TestEnroll_DuplicateAfterCancel(t *testing.T) {
	f := newFixture(t)
	svc := newEnrollmentService(f)

	teacher := f.createUser(t, "teacher", model.Teacher)
	student := f.createUser(t, "student", model.Student)
	course := f.createCourse(t, teacher.ID, 30)

	_, err := svc.Enroll(student.ID, course.ID)
	require.NoError(t, err)
	require.NoError(t, svc.Unenroll(student.ID, course.ID))

	// 取消后记录仍在，重复报名依然被拒
	_, err = svc.Enroll(student.ID, course.ID)
	assert.ErrorIs(t, err, util.ErrAlreadyEnrolled)
}

func TestEnroll_CourseFull(t *testing.T) {
	f := newFixture(t)
	svc := newEnrollmentService(f)

	teacher := f.createUser(t, "teacher", model.Teacher)
	course := f.createCourse(t, teacher.ID, 2)

	for i := 0; i < 2; i++ {
		student := f.createUser(t, "student"+string(rune('a'+i)), model.Student)
		_, err := svc.Enroll(student.ID, course.ID)
		require.NoError(t, err)
	}

	late := f.createUser(t, "late", model.Student)
	_, err := svc.Enroll(late.ID, course.ID)
	assert.ErrorIs(t, err, util.ErrCourseFull)
}

func TestEnroll_CancelledSeatIsFreed(t *testing.T) {
	f := newFixture(t)
	svc := newEnrollmentService(f)

	teacher := f.createUser(t, "teacher", model.Teacher)
	first := f.createUser(t, "first", model.Student)
	second := f.createUser(t, "second", model.Student)
	course := f.createCourse(t, teacher.ID, 1)

	_, err := svc.Enroll(first.ID, course.ID)
	require.NoError(t, err)

	_, err = svc.Enroll(second.ID, course.ID)
	require.ErrorIs(t, err, util.ErrCourseFull)

	require.NoError(t, svc.Unenroll(first.ID, course.ID))

	_, err = svc.Enroll(second.ID, course.ID)
	assert.NoError(t, err)
}

func TestEnroll_RejectedDoesNotHoldSeat(t *testing.T) {
	f := newFixture(t)
	svc := newEnrollmentService(f)

	teacher := f.createUser(t, "teacher", model.Teacher)
	first := f.createUser(t, "first", model.Student)
	second := f.createUser(t, "second", model.Student)
	course := f.createCourse(t, teacher.ID, 1)

	enrollment, err := svc.Enroll(first.ID, course.ID)
	require.NoError(t, err)

	actor := &util.Claims{UserID: teacher.ID, Role: model.Teacher}
	_, err = svc.SetStatus(actor, course.ID, enrollment.ID, model.EnrollmentRejected)
	require.NoError(t, err)

	_, err = svc.Enroll(second.ID, course.ID)
	assert.NoError(t, err)
}

func TestEnroll_ConcurrentNeverExceedsCapacity(t *testing.T) {
	f := newFixture(t)
	svc := newEnrollmentService(f)

	teacher := f.createUser(t, "teacher", model.Teacher)
	course := f.createCourse(t, teacher.ID, 3)

	const attempts = 10
	students := make([]*model.User, attempts)
	for i := 0; i < attempts; i++ {
		students[i] = f.createUser(t, "stu"+string(rune('a'+i)), model.Student)
	}

	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Enroll(students[i].ID, course.ID)
		}(i)
	}
	wg.Wait()

	admitted := 0
	for _, err := range errs {
		if err == nil {
			admitted++
		} else {
			assert.ErrorIs(t, err, util.ErrCourseFull)
		}
	}
	assert.Equal(t, 3, admitted)

	count, err := f.enrollments.CountNonTerminal(f.db, course.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestUnenroll_NotEnrolled(t *testing.T) {
	f := newFixture(t)
	svc := newEnrollmentService(f)

	teacher := f.createUser(t, "teacher", model.Teacher)
	student := f.createUser(t, "student", model.Student)
	course := f.createCourse(t, teacher.ID, 30)

	err := svc.Unenroll(student.ID, course.ID)
	assert.ErrorIs(t, err, util.ErrNotEnrolled)
}

func TestUnenroll_Twice(t *testing.T) {
	f := newFixture(t)
	svc := newEnrollmentService(f)

	teacher := f.createUser(t, "teacher", model.Teacher)
	student := f.createUser(t, "student", model.Student)
	course := f.createCourse(t, teacher.ID, 30)

	_, err := svc.Enroll(student.ID, course.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Unenroll(student.ID, course.ID))
	assert.ErrorIs(t, svc.Unenroll(student.ID, course.ID), util.ErrNotEnrolled)
}

func TestSetStatus_PermissionDenied(t *testing.T) {
	f := newFixture(t)
	svc := newEnrollmentService(f)

	teacher := f.createUser(t, "teacher", model.Teacher)
	other := f.createUser(t, "other", model.Teacher)
	student := f.createUser(t, "student", model.Student)
	course := f.createCourse(t, teacher.ID, 30)

	enrollment, err := svc.Enroll(student.ID, course.ID)
	require.NoError(t, err)

	actor := &util.Claims{UserID: other.ID, Role: model.Teacher}
	_, err = svc.SetStatus(actor, course.ID, enrollment.ID, model.EnrollmentApproved)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)
}

func TestSetStatus_AdminAllowed(t *testing.T) {
	f := newFixture(t)
	svc := newEnrollmentService(f)

	teacher := f.createUser(t, "teacher", model.Teacher)
	admin := f.createUser(t, "admin", model.Admin)
	student := f.createUser(t, "student", model.Student)
	course := f.createCourse(t, teacher.ID, 30)

	enrollment, err := svc.Enroll(student.ID, course.ID)
	require.NoError(t, err)

	actor := &util.Claims{UserID: admin.ID, Role: model.Admin}
	updated, err := svc.SetStatus(actor, course.ID, enrollment.ID, model.EnrollmentApproved)
	require.NoError(t, err)
	assert.Equal(t, model.EnrollmentApproved, updated.Status)
}

func TestSetStatus_InvalidStatus(t *testing.T) {
	f := newFixture(t)
	svc := newEnrollmentService(f)

	teacher := f.createUser(t, "teacher", model.Teacher)
	student := f.createUser(t, "student", model.Student)
	course := f.createCourse(t, teacher.ID, 30)

	enrollment, err := svc.Enroll(student.ID, course.ID)
	require.NoError(t, err)

	actor := &util.Claims{UserID: teacher.ID, Role: model.Teacher}
	_, err = svc.SetStatus(actor, course.ID, enrollment.ID, model.EnrollmentStatus("finished"))
	assert.ErrorIs(t, err, util.ErrInvalidStatus)
}

func TestRoster(t *testing.T) {
	f := newFixture(t)
	svc := newEnrollmentService(f)

	teacher := f.createUser(t, "teacher", model.Teacher)
	course := f.createCourse(t, teacher.ID, 30)

	for i := 0; i < 3; i++ {
		student := f.createUser(t, "roster"+string(rune('a'+i)), model.Student)
		_, err := svc.Enroll(student.ID, course.ID)
		require.NoError(t, err)
	}

	actor := &util.Claims{UserID: teacher.ID, Role: model.Teacher}
	roster, err := svc.Roster(actor, course.ID)
	require.NoError(t, err)
	assert.Len(t, roster, 3)

	stranger := f.createUser(t, "stranger", model.Teacher)
	_, err = svc.Roster(&util.Claims{UserID: stranger.ID, Role: model.Teacher}, course.ID)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)
}

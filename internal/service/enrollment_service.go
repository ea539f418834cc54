package service

import (
	"errors"
	"learning_platform_backend/internal/model"
	"learning_platform_backend/internal/repository"
	"learning_platform_backend/internal/util"
	"learning_platform_backend/pkg/logger"
	"learning_platform_backend/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type EnrollmentService struct {
	CourseRepo     *repository.CourseRepository
	EnrollmentRepo *repository.EnrollmentRepository
	DB             *gorm.DB
}

func NewEnrollmentService(
	courseRepo *repository.CourseRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	db *gorm.DB,
) *EnrollmentService {
	return &EnrollmentService{
		CourseRepo:     courseRepo,
		EnrollmentRepo: enrollmentRepo,
		DB:             db,
	}
}

// Enroll 容量检查和插入必须在同一事务内完成，课程行锁关闭
// “两个并发报名都看到最后一个空位”的竞态；(user, course) 唯一索引兜底
func (s *EnrollmentService) Enroll(userID, courseID uint) (*model.Enrollment, error) {
	var enrollment *model.Enrollment

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		course, err := s.CourseRepo.FindForUpdate(tx, courseID)
		if err != nil {
			return err
		}

		existing, err := s.EnrollmentRepo.FindByUserAndCourse(tx, userID, courseID)
		if err != nil && !errors.Is(err, util.ErrNotEnrolled) {
			return err
		}
		// 已取消的报名同样算已存在，重新报名是另一个显式操作
		if existing != nil {
			return util.ErrAlreadyEnrolled
		}

		count, err := s.EnrollmentRepo.CountNonTerminal(tx, courseID)
		if err != nil {
			return err
		}
		if count >= int64(course.MaxParticipants) {
			return util.ErrCourseFull
		}

		enrollment = &model.Enrollment{
			UserID:   userID,
			CourseID: courseID,
			Status:   model.EnrollmentPending,
		}
		return s.EnrollmentRepo.Create(tx, enrollment)
	})

	switch {
	case err == nil:
		monitoring.AdmissionDecisions.WithLabelValues("admitted").Inc()
	case errors.Is(err, util.ErrCourseFull):
		monitoring.AdmissionDecisions.WithLabelValues("course_full").Inc()
	case errors.Is(err, util.ErrAlreadyEnrolled):
		monitoring.AdmissionDecisions.WithLabelValues("already_enrolled").Inc()
	}

	if err != nil {
		return nil, util.ClassifyStoreError(err)
	}

	logger.Log.Info("enrollment created",
		zap.Uint("userId", userID),
		zap.Uint("courseId", courseID))
	return enrollment, nil
}

// Unenroll 保留记录并置为 cancelled，名额释放但 (user, course) 行仍在
func (s *EnrollmentService) Unenroll(userID, courseID uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		enrollment, err := s.EnrollmentRepo.FindByUserAndCourse(tx, userID, courseID)
		if err != nil {
			return err
		}
		if !enrollment.Status.NonTerminal() {
			return util.ErrNotEnrolled
		}
		return s.EnrollmentRepo.UpdateStatus(tx, enrollment.ID, model.EnrollmentCancelled)
	})
}

// SetStatus 审批流程：课程教师或管理员修改报名状态
func (s *EnrollmentService) SetStatus(actor *util.Claims, courseID, enrollmentID uint, status model.EnrollmentStatus) (*model.Enrollment, error) {
	switch status {
	case model.EnrollmentPending, model.EnrollmentApproved,
		model.EnrollmentRejected, model.EnrollmentCancelled:
	default:
		return nil, util.ErrInvalidStatus
	}

	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		return nil, err
	}
	if actor.Role != model.Admin && course.TeacherID != actor.UserID {
		return nil, util.ErrPermissionDenied
	}

	enrollment, err := s.EnrollmentRepo.FindByID(enrollmentID)
	if err != nil {
		return nil, err
	}
	if enrollment.CourseID != courseID {
		return nil, util.ErrNotEnrolled
	}

	if err := s.EnrollmentRepo.UpdateStatus(s.DB, enrollment.ID, status); err != nil {
		return nil, err
	}
	enrollment.Status = status
	return enrollment, nil
}

// ListForUser 用户自己的报名记录
func (s *EnrollmentService) ListForUser(userID uint) ([]model.Enrollment, error) {
	return s.EnrollmentRepo.FindByUser(userID)
}

// Roster 课程报名名单，教师视角
func (s *EnrollmentService) Roster(actor *util.Claims, courseID uint) ([]model.Enrollment, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		return nil, err
	}
	if actor.Role != model.Admin && course.TeacherID != actor.UserID {
		return nil, util.ErrPermissionDenied
	}
	return s.EnrollmentRepo.FindByCourse(courseID)
}

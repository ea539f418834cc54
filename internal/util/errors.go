package util

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrEmailRegistered  = errors.New("email already registered")
	ErrPermissionDenied = errors.New("permission denied")
	ErrInvalidToken     = errors.New("invalid or expired token")

	ErrCourseNotFound  = errors.New("course not found")
	ErrCourseFull      = errors.New("course is full")
	ErrAlreadyEnrolled = errors.New("already enrolled in this course")
	ErrNotEnrolled     = errors.New("not enrolled in this course")
	ErrInvalidStatus   = errors.New("invalid enrollment status")

	ErrUnitNotFound   = errors.New("learning unit not found")
	ErrModuleNotFound = errors.New("module not found")
	ErrInvalidScore   = errors.New("score must not be negative")
)

// TransientError 标记可重试的存储层错误（超时、死锁、序列化冲突），
// 由边界层决定是否重试，核心逻辑不做内部重试
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("transient store error: %v", e.Err)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &TransientError{Err: err}
}

func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}

// ClassifyStoreError 把超时和锁冲突归入瞬态类别，其余原样返回
func ClassifyStoreError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return Transient(err)
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		// 1205 锁等待超时，1213 死锁
		if me.Number == 1205 || me.Number == 1213 {
			return Transient(err)
		}
	}
	return err
}

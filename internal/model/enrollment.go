package model

type EnrollmentStatus string

const (
	EnrollmentPending   EnrollmentStatus = "pending"
	EnrollmentApproved  EnrollmentStatus = "approved"
	EnrollmentRejected  EnrollmentStatus = "rejected"
	EnrollmentCancelled EnrollmentStatus = "cancelled"
)

// NonTerminal pending/approved 占用名额，rejected/cancelled 释放名额
func (s EnrollmentStatus) NonTerminal() bool {
	return s == EnrollmentPending || s == EnrollmentApproved
}

// Enrollment 每个 (user, course) 至多一条，唯一索引兜底
// swagger:model Enrollment
type Enrollment struct {
	BaseModel
	UserID   uint             `gorm:"uniqueIndex:idx_user_course;not null" json:"userId"`
	CourseID uint             `gorm:"uniqueIndex:idx_user_course;index;not null" json:"courseId"`
	Status   EnrollmentStatus `gorm:"size:20;default:'pending';index" json:"status"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}

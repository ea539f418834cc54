package model

import (
	"time"
)

// Course 课程，容量由 MaxParticipants 限定，归属于某个教师
// swagger:model Course
type Course struct {
	BaseModel
	Title           string         `gorm:"size:255;not null" json:"title"`
	Description     string         `gorm:"type:text" json:"description"`
	Category        string         `gorm:"size:100" json:"category"`
	MaxParticipants int            `gorm:"not null;default:30" json:"maxParticipants"`
	TeacherID       uint           `gorm:"index;not null" json:"teacherId"`
	StartDate       time.Time      `json:"startDate"`
	EndDate         time.Time      `json:"endDate"`
	Modules         []CourseModule `gorm:"foreignKey:CourseID" json:"modules,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}

// CourseModule 课程下的模块，进度按模块粒度记录
type CourseModule struct {
	BaseModel
	CourseID    uint           `gorm:"index;not null" json:"courseId"`
	Title       string         `gorm:"size:255;not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Order       int            `gorm:"default:0" json:"order"`
	Units       []LearningUnit `gorm:"foreignKey:ModuleID" json:"units,omitempty"`
}

func (CourseModule) TableName() string {
	return "course_modules"
}

type UnitType string

const (
	UnitLesson UnitType = "lesson"
	UnitQuiz   UnitType = "quiz"
)

// LearningUnit 模块内最小的可得分单元（课时或测验），带XP值
type LearningUnit struct {
	BaseModel
	ModuleID uint     `gorm:"index;not null" json:"moduleId"`
	Type     UnitType `gorm:"size:20;default:'lesson'" json:"type"`
	Title    string   `gorm:"size:255;not null" json:"title"`
	Content  string   `gorm:"type:text" json:"content"`
	XP       int      `gorm:"default:0" json:"xp"`
	Order    int      `gorm:"default:0" json:"order"`
}

func (LearningUnit) TableName() string {
	return "learning_units"
}

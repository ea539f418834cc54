package model

// Progress 每个 (user, module) 至多一条，只做 upsert 不追加
// swagger:model Progress
type Progress struct {
	BaseModel
	UserID    uint     `gorm:"uniqueIndex:idx_user_module;not null" json:"userId"`
	ModuleID  uint     `gorm:"uniqueIndex:idx_user_module;index;not null" json:"moduleId"`
	Completed bool     `gorm:"default:false" json:"completed"`
	Score     *float64 `json:"score"`
}

func (Progress) TableName() string {
	return "progress"
}

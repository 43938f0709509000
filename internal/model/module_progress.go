package model

import "time"

// ModuleProgress 记录学员对单个模块的完成状态，(student_id, module_id) 唯一
// swagger:model ModuleProgress
type ModuleProgress struct {
	UUIDBase
	StudentID      string     `gorm:"type:varchar(64);not null;index:idx_student_module,unique,priority:1;index:idx_student_path,priority:1" json:"studentId"`
	ModuleID       string     `gorm:"type:varchar(36);not null;index:idx_student_module,unique,priority:2" json:"moduleId"`
	LearningPathID string     `gorm:"type:varchar(36);not null;index:idx_student_path,priority:2" json:"learningPathId"`
	UnitID         string     `gorm:"type:varchar(36);not null" json:"unitId"`
	IsCompleted    bool       `gorm:"default:false" json:"isCompleted"`
	CompletedAt    *time.Time `json:"completedAt"`
}

func (ModuleProgress) TableName() string {
	return "module_progress"
}

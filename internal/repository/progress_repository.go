package repository

import (
	"context"
	"time"

	"learnpath_backend/internal/model"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

// CompletedModuleIDs 获取学员在某学习路径下已完成的模块 ID，无记录时返回空切片
func (r *ProgressRepository) CompletedModuleIDs(ctx context.Context, studentID, pathID string) ([]string, error) {
	ids := make([]string, 0)
	err := r.DB.WithContext(ctx).
		Model(&model.ModuleProgress{}).
		Where("student_id = ? AND learning_path_id = ? AND is_completed = ?", studentID, pathID, true).
		Pluck("module_id", &ids).Error
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "load completed modules of %s on %s", studentID, pathID)
	}
	return ids, nil
}

// MarkCompleted 以 (student_id, module_id) 为键写入完成记录。
// 重复调用不会新增记录，也不会覆盖第一次的完成时间。
func (r *ProgressRepository) MarkCompleted(ctx context.Context, studentID, pathID, unitID, moduleID string) error {
	now := time.Now()
	record := &model.ModuleProgress{
		StudentID:      studentID,
		LearningPathID: pathID,
		UnitID:         unitID,
		ModuleID:       moduleID,
		IsCompleted:    true,
		CompletedAt:    &now,
	}

	err := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "student_id"}, {Name: "module_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"is_completed": true}),
		}).
		Create(record).Error
	if err != nil {
		return pkgerrors.Wrapf(err, "mark module %s completed for %s", moduleID, studentID)
	}
	return nil
}

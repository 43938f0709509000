package service

import (
	"context"
	"time"

	"learnpath_backend/internal/progression"
	"learnpath_backend/pkg/logger"
	"learnpath_backend/pkg/monitoring"
	"learnpath_backend/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// CompletionRepository is the slice of repository.ProgressRepository the
// adapter needs.
type CompletionRepository interface {
	CompletedModuleIDs(ctx context.Context, studentID, pathID string) ([]string, error)
	MarkCompleted(ctx context.Context, studentID, pathID, unitID, moduleID string) error
}

// ProgressService 是进度存储适配器，实现 progression.ProgressStore
type ProgressService struct {
	Repo        CompletionRepository
	SaveTimeout time.Duration
}

var _ progression.ProgressStore = (*ProgressService)(nil)

func NewProgressService(repo CompletionRepository, saveTimeout time.Duration) *ProgressService {
	return &ProgressService{Repo: repo, SaveTimeout: saveTimeout}
}

func (s *ProgressService) LoadCompleted(ctx context.Context, learnerID, pathID string) (progression.CompletedSet, error) {
	ctx, span := tracing.Tracer.Start(ctx, "ProgressService.LoadCompleted")
	defer span.End()
	span.SetAttributes(attribute.String("learner.id", learnerID), attribute.String("path.id", pathID))

	ids, err := s.Repo.CompletedModuleIDs(ctx, learnerID, pathID)
	if err != nil {
		monitoring.ProgressStoreErrors.WithLabelValues("load").Inc()
		span.RecordError(err)
		return progression.NewCompletedSet(), &progression.ProgressLoadError{LearnerID: learnerID, PathID: pathID, Err: err}
	}
	return progression.NewCompletedSet(ids...), nil
}

// MarkComplete 写入完成记录。保存与请求的取消解耦：学员中途离开页面时写入仍会完成，
// 但受 SaveTimeout 约束。
func (s *ProgressService) MarkComplete(ctx context.Context, learnerID, pathID, unitID, moduleID string) error {
	ctx = context.WithoutCancel(ctx)
	if s.SaveTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.SaveTimeout)
		defer cancel()
	}

	ctx, span := tracing.Tracer.Start(ctx, "ProgressService.MarkComplete")
	defer span.End()
	span.SetAttributes(
		attribute.String("learner.id", learnerID),
		attribute.String("path.id", pathID),
		attribute.String("module.id", moduleID),
	)

	if err := s.Repo.MarkCompleted(ctx, learnerID, pathID, unitID, moduleID); err != nil {
		monitoring.ProgressStoreErrors.WithLabelValues("save").Inc()
		span.RecordError(err)
		logger.Log.Error("保存模块完成记录失败",
			zap.String("learnerId", learnerID),
			zap.String("pathId", pathID),
			zap.String("moduleId", moduleID),
			zap.Error(err))
		return &progression.ProgressSaveError{LearnerID: learnerID, PathID: pathID, ModuleID: moduleID, Err: err}
	}

	monitoring.ModuleCompletions.Inc()
	return nil
}

package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"learnpath_backend/internal/model"
	"learnpath_backend/internal/util"
	"learnpath_backend/pkg/logger"
	"learnpath_backend/pkg/monitoring"

	"github.com/go-redis/redis/v8"
	pkgerrors "github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const curriculumKeyPrefix = "curriculum:path:"

type LearningPathRepository struct {
	DB    *gorm.DB
	Redis *redis.Client
	TTL   time.Duration
}

// NewLearningPathRepository 课程树读取；rdb 为 nil 或 ttl<=0 时不走缓存
func NewLearningPathRepository(db *gorm.DB, rdb *redis.Client, ttl time.Duration) *LearningPathRepository {
	return &LearningPathRepository{DB: db, Redis: rdb, TTL: ttl}
}

func orderByNumber(db *gorm.DB) *gorm.DB {
	return db.Order("order_number asc")
}

// FetchPath 读取完整的课程树（单元、模块、测试、题目）。
// 不存在时返回 util.ErrPathNotFound。
func (r *LearningPathRepository) FetchPath(ctx context.Context, pathID string) (*model.LearningPath, error) {
	if cached, ok := r.fromCache(ctx, pathID); ok {
		return cached, nil
	}

	var path model.LearningPath
	err := r.DB.WithContext(ctx).
		Preload("Units", orderByNumber).
		Preload("Units.Modules", orderByNumber).
		Preload("Units.Test").
		Preload("Units.Test.Questions", orderByNumber).
		Preload("FinalTest", "test_type = ?", model.TestTypeFinal).
		Preload("FinalTest.Questions", orderByNumber).
		Where("id = ?", pathID).
		First(&path).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrPathNotFound
		}
		return nil, pkgerrors.Wrapf(err, "fetch learning path %s", pathID)
	}

	r.toCache(ctx, &path)
	return &path, nil
}

func (r *LearningPathRepository) fromCache(ctx context.Context, pathID string) (*model.LearningPath, bool) {
	if r.Redis == nil || r.TTL <= 0 {
		return nil, false
	}

	val, err := r.Redis.Get(ctx, curriculumKeyPrefix+pathID).Result()
	if err == redis.Nil {
		monitoring.CurriculumCache.WithLabelValues("miss").Inc()
		return nil, false
	}
	if err != nil {
		monitoring.CurriculumCache.WithLabelValues("error").Inc()
		logger.Log.Warn("curriculum cache read failed", zap.String("pathId", pathID), zap.Error(err))
		return nil, false
	}

	var path model.LearningPath
	if err := json.Unmarshal([]byte(val), &path); err != nil {
		monitoring.CurriculumCache.WithLabelValues("error").Inc()
		return nil, false
	}
	monitoring.CurriculumCache.WithLabelValues("hit").Inc()
	return &path, true
}

func (r *LearningPathRepository) toCache(ctx context.Context, path *model.LearningPath) {
	if r.Redis == nil || r.TTL <= 0 {
		return
	}
	data, err := json.Marshal(path)
	if err != nil {
		return
	}
	if err := r.Redis.Set(ctx, curriculumKeyPrefix+path.ID, data, r.TTL).Err(); err != nil {
		logger.Log.Warn("curriculum cache write failed", zap.String("pathId", path.ID), zap.Error(err))
	}
}

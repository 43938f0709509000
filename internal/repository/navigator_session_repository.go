package repository

import (
	"context"
	"encoding/json"
	"time"

	"learnpath_backend/internal/progression"

	"github.com/go-redis/redis/v8"
	pkgerrors "github.com/pkg/errors"
)

const navigatorSessionKeyPrefix = "navigator:session:"

// NavigatorSessionRepository 保存学员在某学习路径上的导航快照（当前选择、侧边栏展开状态）
type NavigatorSessionRepository struct {
	Redis *redis.Client
	TTL   time.Duration
}

func NewNavigatorSessionRepository(rdb *redis.Client, ttl time.Duration) *NavigatorSessionRepository {
	return &NavigatorSessionRepository{Redis: rdb, TTL: ttl}
}

func sessionKey(learnerID, pathID string) string {
	return navigatorSessionKeyPrefix + learnerID + ":" + pathID
}

// Get 返回快照；不存在时返回 nil, nil
func (r *NavigatorSessionRepository) Get(ctx context.Context, learnerID, pathID string) (*progression.Snapshot, error) {
	val, err := r.Redis.Get(ctx, sessionKey(learnerID, pathID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(err, "read navigator session")
	}

	var snap progression.Snapshot
	if err := json.Unmarshal([]byte(val), &snap); err != nil {
		return nil, pkgerrors.Wrap(err, "decode navigator session")
	}
	return &snap, nil
}

func (r *NavigatorSessionRepository) Save(ctx context.Context, learnerID, pathID string, snap progression.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return pkgerrors.Wrap(err, "encode navigator session")
	}
	if err := r.Redis.Set(ctx, sessionKey(learnerID, pathID), data, r.TTL).Err(); err != nil {
		return pkgerrors.Wrap(err, "write navigator session")
	}
	return nil
}

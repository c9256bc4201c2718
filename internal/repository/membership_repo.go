package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"timekeep/backend/internal/model"
	"timekeep/backend/pkg/redis"
)

// MembershipChecker 项目成员关系查询接口（只读，成员关系由项目管理子系统维护）
type MembershipChecker interface {
	IsMember(ctx context.Context, tenantID, userID, projectID string) (bool, error)
}

type membershipRepo struct {
	db *gorm.DB
}

// NewMembershipRepo 创建基于数据库的 MembershipChecker
func NewMembershipRepo(db *gorm.DB) MembershipChecker {
	return &membershipRepo{db: db}
}

func (r *membershipRepo) IsMember(ctx context.Context, tenantID, userID, projectID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.ProjectMembership{}).
		Where("tenant_id = ? AND user_id = ? AND project_id = ?", tenantID, userID, projectID).
		Limit(1).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ── Redis 缓存装饰 ──

// FlagCache 布尔缓存
type FlagCache interface {
	GetFlag(ctx context.Context, key string) (bool, error)
	SetFlag(ctx context.Context, key string, value bool, ttl time.Duration) error
}

type cachedMembership struct {
	inner  MembershipChecker
	cache  FlagCache
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedMembership 为 MembershipChecker 增加缓存；缓存异常时直接回源
func NewCachedMembership(inner MembershipChecker, cache FlagCache, ttl time.Duration, logger *zap.Logger) MembershipChecker {
	return &cachedMembership{inner: inner, cache: cache, ttl: ttl, logger: logger}
}

func membershipKey(tenantID, userID, projectID string) string {
	return fmt.Sprintf("membership:%s:%s:%s", tenantID, userID, projectID)
}

func (c *cachedMembership) IsMember(ctx context.Context, tenantID, userID, projectID string) (bool, error) {
	key := membershipKey(tenantID, userID, projectID)

	member, err := c.cache.GetFlag(ctx, key)
	if err == nil {
		return member, nil
	}
	if !errors.Is(err, redis.ErrCacheMiss) {
		c.logger.Warn("读取成员关系缓存失败，回源数据库", zap.String("key", key), zap.Error(err))
	}

	member, err = c.inner.IsMember(ctx, tenantID, userID, projectID)
	if err != nil {
		return false, err
	}

	if err := c.cache.SetFlag(ctx, key, member, c.ttl); err != nil {
		c.logger.Warn("写入成员关系缓存失败", zap.String("key", key), zap.Error(err))
	}
	return member, nil
}

package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"timekeep/backend/pkg/redis"
)

type fakeMembership struct {
	member bool
	err    error
	calls  int
}

func (f *fakeMembership) IsMember(_ context.Context, _, _, _ string) (bool, error) {
	f.calls++
	return f.member, f.err
}

type fakeFlagCache struct {
	values  map[string]bool
	getErr  error
	setErr  error
	lastTTL time.Duration
}

func newFakeFlagCache() *fakeFlagCache {
	return &fakeFlagCache{values: map[string]bool{}}
}

func (f *fakeFlagCache) GetFlag(_ context.Context, key string) (bool, error) {
	if f.getErr != nil {
		return false, f.getErr
	}
	v, ok := f.values[key]
	if !ok {
		return false, redis.ErrCacheMiss
	}
	return v, nil
}

func (f *fakeFlagCache) SetFlag(_ context.Context, key string, value bool, ttl time.Duration) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.values[key] = value
	f.lastTTL = ttl
	return nil
}

func TestCachedMembership_MissThenHit(t *testing.T) {
	inner := &fakeMembership{member: true}
	cache := newFakeFlagCache()
	checker := NewCachedMembership(inner, cache, 5*time.Minute, zap.NewNop())

	ok, err := checker.IsMember(context.Background(), "t1", "u1", "p1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = checker.IsMember(context.Background(), "t1", "u1", "p1")
	require.NoError(t, err)
	assert.True(t, ok)

	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, 5*time.Minute, cache.lastTTL)
	assert.Contains(t, cache.values, "membership:t1:u1:p1")
}

func TestCachedMembership_CachesNegativeResult(t *testing.T) {
	inner := &fakeMembership{member: false}
	checker := NewCachedMembership(inner, newFakeFlagCache(), time.Minute, zap.NewNop())

	for i := 0; i < 3; i++ {
		ok, err := checker.IsMember(context.Background(), "t1", "u1", "p1")
		require.NoError(t, err)
		assert.False(t, ok)
	}
	assert.Equal(t, 1, inner.calls)
}

func TestCachedMembership_KeyIncludesTenant(t *testing.T) {
	inner := &fakeMembership{member: true}
	checker := NewCachedMembership(inner, newFakeFlagCache(), time.Minute, zap.NewNop())

	_, _ = checker.IsMember(context.Background(), "t1", "u1", "p1")
	_, _ = checker.IsMember(context.Background(), "t2", "u1", "p1")

	assert.Equal(t, 2, inner.calls)
}

func TestCachedMembership_CacheErrorFallsBack(t *testing.T) {
	inner := &fakeMembership{member: true}
	cache := newFakeFlagCache()
	cache.getErr = errors.New("connection refused")
	cache.setErr = errors.New("connection refused")
	checker := NewCachedMembership(inner, cache, time.Minute, zap.NewNop())

	ok, err := checker.IsMember(context.Background(), "t1", "u1", "p1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, inner.calls)
}

func TestCachedMembership_InnerErrorNotCached(t *testing.T) {
	inner := &fakeMembership{err: errors.New("db down")}
	cache := newFakeFlagCache()
	checker := NewCachedMembership(inner, cache, time.Minute, zap.NewNop())

	_, err := checker.IsMember(context.Background(), "t1", "u1", "p1")
	require.Error(t, err)
	assert.Empty(t, cache.values)
}

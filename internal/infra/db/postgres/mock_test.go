//go:build !integration

package postgres

import (
	"context"
	"time"

	"telefication/internal/domain/model"
	red "telefication/internal/infra/redis"
)

// --- Mocks for Cache Decorator Tests ---

// mockInnerSettingsRepo mocks the repository the settings decorator wraps.
type mockInnerSettingsRepo struct {
	GetFunc  func(ctx context.Context) (*model.Settings, error)
	SaveFunc func(ctx context.Context, s *model.Settings) error
}

func (m *mockInnerSettingsRepo) Get(ctx context.Context) (*model.Settings, error) {
	return m.GetFunc(ctx)
}
func (m *mockInnerSettingsRepo) Save(ctx context.Context, s *model.Settings) error {
	return m.SaveFunc(ctx, s)
}

// mockRedisClient mocks our Redis client wrapper.
type mockRedisClient struct {
	GetFunc    func(ctx context.Context, key string) (string, error)
	SetFunc    func(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	DelFunc    func(ctx context.Context, keys ...string) error
	PingFunc   func(ctx context.Context) error
	IncrFunc   func(ctx context.Context, key string) (int64, error)
	ExpireFunc func(ctx context.Context, key string, expiration time.Duration) error
	CloseFunc  func() error
}

var _ red.RedisClient = &mockRedisClient{}

func (m *mockRedisClient) Get(ctx context.Context, key string) (string, error) {
	if m.GetFunc == nil {
		return "", red.Nil
	}
	return m.GetFunc(ctx, key)
}
func (m *mockRedisClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if m.SetFunc == nil {
		return nil
	}
	return m.SetFunc(ctx, key, value, expiration)
}
func (m *mockRedisClient) Del(ctx context.Context, keys ...string) error {
	if m.DelFunc == nil {
		return nil
	}
	return m.DelFunc(ctx, keys...)
}
func (m *mockRedisClient) Ping(ctx context.Context) error {
	if m.PingFunc == nil {
		return nil
	}
	return m.PingFunc(ctx)
}
func (m *mockRedisClient) Incr(ctx context.Context, key string) (int64, error) {
	return m.IncrFunc(ctx, key)
}
func (m *mockRedisClient) Expire(ctx context.Context, key string, expiration time.Duration) error {
	return m.ExpireFunc(ctx, key, expiration)
}
func (m *mockRedisClient) Close() error { return nil }

package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"telefication/internal/domain/model"
	"telefication/internal/domain/ports/repository"
	"telefication/internal/infra/metrics"
	red "telefication/internal/infra/redis"

	"github.com/rs/zerolog"
)

var _ repository.SettingsRepository = (*settingsRepoCacheDecorator)(nil)

const settingsCacheKey = "settings:snapshot"

// settingsRepoCacheDecorator serves settings snapshots from Redis so each
// background dispatch does not hit the database. Redis failures fall
// through to the inner repository.
type settingsRepoCacheDecorator struct {
	inner repository.SettingsRepository
	cache red.RedisClient
	ttl   time.Duration
	log   *zerolog.Logger
}

func NewSettingsRepoCacheDecorator(inner repository.SettingsRepository, cache red.RedisClient, ttl time.Duration, logger *zerolog.Logger) repository.SettingsRepository {
	if ttl <= 0 {
		ttl = 1 * time.Hour
	}
	compLog := logger.With().Str("component", "SettingsCache").Logger()
	return &settingsRepoCacheDecorator{
		inner: inner,
		cache: cache,
		ttl:   ttl,
		log:   &compLog,
	}
}

func (d *settingsRepoCacheDecorator) Get(ctx context.Context) (*model.Settings, error) {
	val, err := d.cache.Get(ctx, settingsCacheKey)
	if err == nil {
		var s model.Settings
		if json.Unmarshal([]byte(val), &s) == nil {
			metrics.IncCacheRequest("settings", "hit")
			return &s, nil
		}
	} else if !errors.Is(err, red.Nil) {
		d.log.Warn().Err(err).Msg("redis get failed")
	}

	metrics.IncCacheRequest("settings", "miss")
	s, err := d.inner.Get(ctx)
	if err != nil {
		return nil, err
	}
	if bytes, err := json.Marshal(s); err == nil {
		if err := d.cache.Set(ctx, settingsCacheKey, bytes, d.ttl); err != nil {
			d.log.Warn().Err(err).Msg("redis set failed")
		}
	}
	return s, nil
}

// Save writes through and invalidates the cached snapshot.
func (d *settingsRepoCacheDecorator) Save(ctx context.Context, s *model.Settings) error {
	if err := d.inner.Save(ctx, s); err != nil {
		return err
	}
	if err := d.cache.Del(ctx, settingsCacheKey); err != nil {
		d.log.Warn().Err(err).Msg("redis invalidate failed")
	}
	return nil
}

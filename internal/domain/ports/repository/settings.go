package repository

import (
	"context"

	"telefication/internal/domain/model"
)

// SettingsRepository owns the persisted option set. Get returns a snapshot
// the caller may keep; later Saves never mutate it.
type SettingsRepository interface {
	Get(ctx context.Context) (*model.Settings, error)
	Save(ctx context.Context, s *model.Settings) error
}

package memory

import (
	"context"
	"sync"

	"telefication/internal/domain"
	"telefication/internal/domain/model"
	"telefication/internal/domain/ports/repository"
)

var _ repository.SettingsRepository = (*SettingsRepo)(nil)

// SettingsRepo keeps the option set in process memory. It is used when no
// database is configured; settings then live until restart.
type SettingsRepo struct {
	mu sync.RWMutex
	s  *model.Settings
}

func NewSettingsRepo() *SettingsRepo {
	return &SettingsRepo{}
}

func (r *SettingsRepo) Get(_ context.Context) (*model.Settings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.s == nil {
		return nil, domain.ErrNotFound
	}
	return r.s.Clone(), nil
}

func (r *SettingsRepo) Save(_ context.Context, s *model.Settings) error {
	if s == nil {
		return domain.ErrInvalidArgument
	}
	r.mu.Lock()
	r.s = s.Clone()
	r.mu.Unlock()
	return nil
}

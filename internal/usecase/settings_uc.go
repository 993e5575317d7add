package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"telefication/internal/domain"
	"telefication/internal/domain/model"
	"telefication/internal/domain/ports/adapter"
	"telefication/internal/domain/ports/repository"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ SettingsUseCase = (*settingsUC)(nil)

type SettingsUseCase interface {
	Get(ctx context.Context) (*model.Settings, error)
	// Update sanitizes s and replaces the stored settings with it.
	Update(ctx context.Context, s *model.Settings) (*model.Settings, error)
	// LookupChatID returns the chat id of the latest conversation with the bot.
	LookupChatID(ctx context.Context, botToken string) (string, error)
	// Seed stores defaults when nothing has been saved yet. Existing
	// settings are left alone.
	Seed(ctx context.Context, defaults *model.Settings) error
}

type settingsUC struct {
	repo   repository.SettingsRepository
	lookup adapter.ChatIDLookup
	log    *zerolog.Logger
}

func NewSettingsUseCase(repo repository.SettingsRepository, lookup adapter.ChatIDLookup, logger *zerolog.Logger) *settingsUC {
	compLog := logger.With().Str("component", "SettingsUC").Logger()
	return &settingsUC{repo: repo, lookup: lookup, log: &compLog}
}

func (u *settingsUC) Get(ctx context.Context) (*model.Settings, error) {
	return u.repo.Get(ctx)
}

func (u *settingsUC) Update(ctx context.Context, s *model.Settings) (*model.Settings, error) {
	if s == nil {
		return nil, domain.ErrInvalidArgument
	}
	clean := model.SanitizeSettings(s)
	if err := u.repo.Save(ctx, clean); err != nil {
		return nil, fmt.Errorf("save settings: %w", err)
	}
	u.log.Info().
		Bool("direct_bot", clean.HasBotToken()).
		Int("match_emails", len(clean.MatchEmails)).
		Msg("settings updated")
	return clean, nil
}

func (u *settingsUC) LookupChatID(ctx context.Context, botToken string) (string, error) {
	botToken = strings.TrimSpace(botToken)
	if botToken == "" {
		return "", fmt.Errorf("bot token is required: %w", domain.ErrInvalidArgument)
	}
	return u.lookup.LatestChatID(ctx, botToken)
}

func (u *settingsUC) Seed(ctx context.Context, defaults *model.Settings) error {
	_, err := u.repo.Get(ctx)
	switch {
	case err == nil:
		return nil
	case !errors.Is(err, domain.ErrNotFound):
		return fmt.Errorf("load settings: %w", err)
	}
	if defaults == nil {
		defaults = &model.Settings{}
	}
	if err := u.repo.Save(ctx, model.SanitizeSettings(defaults)); err != nil {
		return fmt.Errorf("seed settings: %w", err)
	}
	u.log.Info().Msg("settings seeded from config")
	return nil
}

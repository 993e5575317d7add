package usecase

import (
	"strings"

	"telefication/internal/domain"
	"telefication/internal/domain/model"
)

// Resolve picks the backend and destination for a personal notification.
// It reports false when no chat id is configured.
func Resolve(s *model.Settings) (model.DeliveryTarget, bool) {
	if s == nil {
		return model.DeliveryTarget{}, false
	}
	chatID := strings.TrimSpace(s.ChatID)
	if chatID == "" {
		return model.DeliveryTarget{}, false
	}
	return targetFor(chatID, s), true
}

// ResolveChannel targets the configured channel. The relay cannot post to
// channels, so a bot token is required.
func ResolveChannel(s *model.Settings) (model.DeliveryTarget, error) {
	if s == nil || strings.TrimSpace(s.ChannelUsername) == "" {
		return model.DeliveryTarget{}, domain.ErrNoDestination
	}
	if !s.HasBotToken() {
		return model.DeliveryTarget{}, domain.ErrChannelRequiresBotToken
	}
	return targetFor(strings.TrimSpace(s.ChannelUsername), s), nil
}

func targetFor(chatID string, s *model.Settings) model.DeliveryTarget {
	if s.HasBotToken() {
		return model.DeliveryTarget{
			Backend:  model.BackendDirectBot,
			ChatID:   chatID,
			BotToken: strings.TrimSpace(s.BotToken),
		}
	}
	return model.DeliveryTarget{Backend: model.BackendRelay, ChatID: chatID}
}

package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"

	"telefication/internal/domain"
	"telefication/internal/domain/model"
	"telefication/internal/domain/ports/adapter"
	"telefication/internal/infra/logging"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

var (
	_ adapter.Sender       = (*BotSender)(nil)
	_ adapter.ChatIDLookup = (*ChatIDLookup)(nil)
)

// maxCaption is the Bot API limit for photo captions.
const maxCaption = 1024

// Endpoint returns the Bot API endpoint format ("<base>/bot%s/%s") for an
// API base URL. An empty base selects the public API.
func Endpoint(apiBase string) string {
	apiBase = strings.TrimRight(strings.TrimSpace(apiBase), "/")
	if apiBase == "" {
		return tgbotapi.APIEndpoint
	}
	return apiBase + "/bot%s/%s"
}

// BotSender delivers straight to the Telegram Bot API with the operator's
// own bot token.
type BotSender struct {
	endpoint  string
	transport adapter.Transport
	log       *zerolog.Logger
}

func NewBotSender(apiBase string, transport adapter.Transport, logger *zerolog.Logger) *BotSender {
	compLog := logger.With().Str("component", "BotSender").Logger()
	return &BotSender{endpoint: Endpoint(apiBase), transport: transport, log: &compLog}
}

func (s *BotSender) Backend() model.Backend { return model.BackendDirectBot }

func (s *BotSender) Send(ctx context.Context, target model.DeliveryTarget, msg model.Message) model.DispatchResult {
	if strings.TrimSpace(target.BotToken) == "" {
		return model.Failed("bot token is not set")
	}

	method, params := buildRequest(target.ChatID, msg)
	resp, err := s.transport.Get(ctx, fmt.Sprintf(s.endpoint, target.BotToken, method), params)
	if err != nil {
		logging.With(ctx, s.log).Debug().Err(err).Str("method", method).Msg("bot api request failed")
		return model.Failed(err.Error())
	}
	return interpret(resp)
}

// buildRequest picks sendPhoto when a photo is attached and the text fits
// in a caption, sendMessage otherwise.
func buildRequest(chatID string, msg model.Message) (string, url.Values) {
	params := url.Values{}
	params.Set("parse_mode", "html")
	params.Set("chat_id", chatID)
	if msg.PhotoURL != "" && utf8.RuneCountInString(msg.Text) <= maxCaption {
		params.Set("photo", msg.PhotoURL)
		if msg.Text != "" {
			params.Set("caption", msg.Text)
		}
		return "sendPhoto", params
	}
	params.Set("text", msg.Text)
	return "sendMessage", params
}

// interpret decodes the Bot API envelope whatever the HTTP status, since
// Telegram reports errors as JSON with a 4xx status.
func interpret(resp *adapter.TransportResponse) model.DispatchResult {
	var apiResp tgbotapi.APIResponse
	if err := json.Unmarshal(resp.Body, &apiResp); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return model.Failed(fmt.Sprintf("bot api: unexpected status %d", resp.StatusCode))
		}
		return model.Failed(model.ReasonUnknownError)
	}
	switch {
	case apiResp.Ok:
		return model.Sent("message sent")
	case apiResp.Description != "":
		return model.Failed(apiResp.Description)
	default:
		return model.Failed(model.ReasonUnknownError)
	}
}

// ChatIDLookup finds the chat that most recently wrote to a bot, so an
// operator can fill in their chat id after sending the bot a message.
type ChatIDLookup struct {
	endpoint string
	client   *http.Client
	log      *zerolog.Logger
}

func NewChatIDLookup(apiBase string, client *http.Client, logger *zerolog.Logger) *ChatIDLookup {
	if client == nil {
		client = http.DefaultClient
	}
	compLog := logger.With().Str("component", "ChatIDLookup").Logger()
	return &ChatIDLookup{endpoint: Endpoint(apiBase), client: client, log: &compLog}
}

func (l *ChatIDLookup) LatestChatID(ctx context.Context, botToken string) (string, error) {
	botToken = strings.TrimSpace(botToken)
	if botToken == "" {
		return "", fmt.Errorf("bot token: %w", domain.ErrInvalidArgument)
	}

	bot, err := tgbotapi.NewBotAPIWithClient(botToken, l.endpoint, ctxClient{ctx: ctx, c: l.client})
	if err != nil {
		return "", fmt.Errorf("connect bot: %w", err)
	}

	// offset -1 asks for the newest pending update only
	cfg := tgbotapi.NewUpdate(-1)
	updates, err := bot.GetUpdates(cfg)
	if err != nil {
		return "", fmt.Errorf("get updates: %w", err)
	}

	for i := len(updates) - 1; i >= 0; i-- {
		if chat := chatOf(updates[i]); chat != nil {
			logging.With(ctx, l.log).Debug().Str("bot", bot.Self.UserName).Msg("chat id found")
			return fmt.Sprintf("%d", chat.ID), nil
		}
	}
	return "", fmt.Errorf("no recent messages to the bot: %w", domain.ErrNotFound)
}

func chatOf(u tgbotapi.Update) *tgbotapi.Chat {
	for _, m := range []*tgbotapi.Message{u.Message, u.EditedMessage, u.ChannelPost, u.EditedChannelPost} {
		if m != nil && m.Chat != nil {
			return m.Chat
		}
	}
	return nil
}

// ctxClient binds tgbotapi requests to the caller's context and keeps the
// token-bearing URL out of transport errors.
type ctxClient struct {
	ctx context.Context
	c   *http.Client
}

func (c ctxClient) Do(req *http.Request) (*http.Response, error) {
	resp, err := c.c.Do(req.WithContext(c.ctx))
	if err != nil {
		var uerr *url.Error
		if errors.As(err, &uerr) {
			return nil, fmt.Errorf("%s %s://%s: %w", uerr.Op, req.URL.Scheme, req.URL.Host, uerr.Err)
		}
		return nil, err
	}
	return resp, nil
}

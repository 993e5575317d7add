package api

import (
	"context"

	"telefication/internal/domain"
	"telefication/internal/domain/model"
)

type mockEventUC struct {
	err       error
	submitted []model.Event
}

func (m *mockEventUC) Submit(_ context.Context, ev model.Event) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.submitted = append(m.submitted, ev)
	return "01HZX0000000000000000000EV", nil
}

type mockDispatchUC struct {
	result   model.DispatchResult
	gotChat  string
	gotText  string
	gotSnap  *model.Settings
	testSent int
}

func (m *mockDispatchUC) Dispatch(context.Context, model.Message, *model.DeliveryTarget) model.DispatchResult {
	return m.result
}
func (m *mockDispatchUC) DispatchEvent(context.Context, model.Event, *model.Settings) []model.DispatchResult {
	return []model.DispatchResult{m.result}
}
func (m *mockDispatchUC) SendTest(_ context.Context, s *model.Settings, chatID, text string) model.DispatchResult {
	m.testSent++
	m.gotSnap, m.gotChat, m.gotText = s, chatID, text
	return m.result
}

type mockSettingsUC struct {
	snap      *model.Settings
	getErr    error
	updateErr error
	chatID    string
	lookupErr error
}

func (m *mockSettingsUC) Get(context.Context) (*model.Settings, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if m.snap == nil {
		return nil, domain.ErrNotFound
	}
	return m.snap.Clone(), nil
}
func (m *mockSettingsUC) Update(_ context.Context, s *model.Settings) (*model.Settings, error) {
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	clean := model.SanitizeSettings(s)
	m.snap = clean
	return clean, nil
}
func (m *mockSettingsUC) LookupChatID(_ context.Context, token string) (string, error) {
	if token == "" {
		return "", domain.ErrInvalidArgument
	}
	return m.chatID, m.lookupErr
}
func (m *mockSettingsUC) Seed(context.Context, *model.Settings) error { return nil }

type mockLimiter struct {
	allow bool
	err   error
	calls []string
}

func (m *mockLimiter) Allow(_ context.Context, clientID, action string) (bool, error) {
	m.calls = append(m.calls, clientID+"/"+action)
	return m.allow, m.err
}

// File: internal/usecase/mocks_test.go
package usecase

import (
	"context"
	"fmt"
	"sync"

	"telefication/internal/domain"
	"telefication/internal/domain/model"

	"github.com/rs/zerolog"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// mapTranslator mirrors the shipped English locale.
type mapTranslator map[string]string

func newTestTranslator() mapTranslator {
	return mapTranslator{
		"new_comment":   "New Comment",
		"comment_by":    "%s commented on %s",
		"new_post":      "New Post:",
		"post_url":      "Post URL: %s",
		"new_user":      "New User Registered.",
		"new_order":     "New order:",
		"total":         "Total: %s",
		"shipping_info": "Shipping Info:",
		"billing_info":  "Billing Info:",
		"name":          "Name: %s",
		"email":         "Email: %s",
		"phone":         "Phone: %s",
		"country":       "Country: %s",
		"city":          "City: %s",
		"postcode":      "Postcode: %s",
		"state":         "State: %s",
		"address_1":     "Address 1: %s",
		"address_2":     "Address 2: %s",
		"test_message":  "This is a test message from Telefication",
		"enter_chat_id": "please enter ID",
	}
}

func (m mapTranslator) T(key string, args ...interface{}) string {
	f, ok := m[key]
	if !ok {
		return key
	}
	if len(args) > 0 {
		return fmt.Sprintf(f, args...)
	}
	return f
}

// fakeSender records every delivery and answers with a fixed result.
type fakeSender struct {
	mu      sync.Mutex
	backend model.Backend
	result  model.DispatchResult
	calls   []sentCall
}

type sentCall struct {
	target model.DeliveryTarget
	msg    model.Message
}

func newFakeSender(b model.Backend) *fakeSender {
	return &fakeSender{backend: b, result: model.Sent("message sent")}
}

func (f *fakeSender) Backend() model.Backend { return f.backend }

func (f *fakeSender) Send(_ context.Context, target model.DeliveryTarget, msg model.Message) model.DispatchResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, sentCall{target: target, msg: msg})
	return f.result
}

func (f *fakeSender) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// memSettingsRepo is a small in-memory implementation used by unit tests.
type memSettingsRepo struct {
	mu      sync.RWMutex
	s       *model.Settings
	saveErr error
	getErr  error
	saves   int
}

func (m *memSettingsRepo) Get(context.Context) (*model.Settings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	if m.s == nil {
		return nil, domain.ErrNotFound
	}
	return m.s.Clone(), nil
}

func (m *memSettingsRepo) Save(_ context.Context, s *model.Settings) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	m.s = s.Clone()
	return nil
}

type fakeLookup struct {
	id       string
	err      error
	gotToken string
}

func (f *fakeLookup) LatestChatID(_ context.Context, token string) (string, error) {
	f.gotToken = token
	return f.id, f.err
}

package usecase

import (
	"context"
	"fmt"
	"time"

	"telefication/internal/domain/model"
	"telefication/internal/domain/ports/repository"
	"telefication/internal/infra/logging"
	"telefication/internal/infra/metrics"
	"telefication/internal/infra/worker"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
)

// Compile-time check
var _ EventUseCase = (*eventUC)(nil)

// EventUseCase accepts site events and dispatches them in the background.
// Failures are logged and dropped; the site is never blocked on delivery.
type EventUseCase interface {
	Submit(ctx context.Context, ev model.Event) (eventID string, err error)
}

type eventUC struct {
	settings   repository.SettingsRepository
	dispatcher DispatchUseCase
	pool       *worker.Pool
	timeout    time.Duration
	log        *zerolog.Logger
}

// NewEventUseCase wires the ingest path. timeout bounds one background
// dispatch including both routes of a post.
func NewEventUseCase(settings repository.SettingsRepository, dispatcher DispatchUseCase, pool *worker.Pool, timeout time.Duration, logger *zerolog.Logger) *eventUC {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	compLog := logger.With().Str("component", "EventUC").Logger()
	return &eventUC{
		settings:   settings,
		dispatcher: dispatcher,
		pool:       pool,
		timeout:    timeout,
		log:        &compLog,
	}
}

func (u *eventUC) Submit(ctx context.Context, ev model.Event) (string, error) {
	id := ulid.Make().String()
	kind := string(ev.Kind())
	if err := u.pool.Submit(u.dispatchTask(id, ev)); err != nil {
		metrics.IncEvent(kind, "dropped")
		logging.With(ctx, u.log).Warn().Err(err).Str("event_id", id).Str("event_kind", kind).Msg("event dropped")
		return "", fmt.Errorf("submit %s event: %w", kind, err)
	}
	metrics.IncEvent(kind, "queued")
	return id, nil
}

// dispatchTask reads a fresh settings snapshot when it runs so a queued
// event sees the configuration current at delivery time.
func (u *eventUC) dispatchTask(id string, ev model.Event) worker.Task {
	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(logging.WithEventID(ctx, id), u.timeout)
		defer cancel()

		snap, err := u.settings.Get(ctx)
		if err != nil {
			return fmt.Errorf("event %s: load settings: %w", id, err)
		}
		for _, res := range u.dispatcher.DispatchEvent(ctx, ev, snap) {
			if res.Status == model.StatusFailed {
				// swallowed: automatic notifications are fire-and-forget
				u.log.Debug().Str("event_id", id).Str("route", string(res.Route)).Msg("dispatch failed")
			}
		}
		return nil
	}
}

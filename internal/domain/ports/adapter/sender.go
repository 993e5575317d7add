package adapter

import (
	"context"

	"telefication/internal/domain/model"
)

// Sender delivers a rendered message through one backend protocol and
// normalizes the backend response. It never returns an error: every
// failure is reported as a Failed result.
type Sender interface {
	Backend() model.Backend
	Send(ctx context.Context, target model.DeliveryTarget, msg model.Message) model.DispatchResult
}

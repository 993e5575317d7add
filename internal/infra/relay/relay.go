package relay

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"telefication/internal/domain/model"
	"telefication/internal/domain/ports/adapter"
	"telefication/internal/infra/logging"

	"github.com/rs/zerolog"
)

var _ adapter.Sender = (*Sender)(nil)

// successBody is the exact body the relay answers with on success.
const successBody = "ok"

// Sender delivers through the hosted relay service, which forwards to a
// shared bot for users without their own token. The relay has no photo or
// channel support: PhotoURL is ignored.
type Sender struct {
	endpoint  string
	transport adapter.Transport
	log       *zerolog.Logger
}

func NewSender(endpoint string, transport adapter.Transport, logger *zerolog.Logger) *Sender {
	compLog := logger.With().Str("component", "RelaySender").Logger()
	return &Sender{endpoint: endpoint, transport: transport, log: &compLog}
}

func (s *Sender) Backend() model.Backend { return model.BackendRelay }

func (s *Sender) Send(ctx context.Context, target model.DeliveryTarget, msg model.Message) model.DispatchResult {
	params := url.Values{}
	params.Set("chat_id", target.ChatID)
	params.Set("message", msg.Text)

	resp, err := s.transport.Get(ctx, s.endpoint, params)
	if err != nil {
		logging.With(ctx, s.log).Debug().Err(err).Msg("relay request failed")
		return model.Failed(err.Error())
	}
	return interpret(resp)
}

// interpret maps a relay response to a result. The body doubles as the
// error message, so any non-"ok" body is surfaced verbatim.
func interpret(resp *adapter.TransportResponse) model.DispatchResult {
	body := string(resp.Body)
	ok2xx := resp.StatusCode >= 200 && resp.StatusCode < 300
	switch {
	case ok2xx && body == successBody:
		return model.Sent("message sent")
	case strings.TrimSpace(body) != "":
		return model.Failed(body)
	case !ok2xx:
		return model.Failed(fmt.Sprintf("relay: unexpected status %d", resp.StatusCode))
	default:
		return model.Failed(model.ReasonUnknownError)
	}
}

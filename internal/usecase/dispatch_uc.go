package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"telefication/internal/domain"
	"telefication/internal/domain/model"
	"telefication/internal/domain/ports/adapter"
	"telefication/internal/infra/logging"
	"telefication/internal/infra/metrics"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ DispatchUseCase = (*dispatchUC)(nil)

// DispatchUseCase composes gate, renderer, resolver and senders. None of its
// methods return errors: every outcome is a DispatchResult.
type DispatchUseCase interface {
	// Dispatch sends msg to target. A nil target means no destination is
	// configured and no network call is made.
	Dispatch(ctx context.Context, msg model.Message, target *model.DeliveryTarget) model.DispatchResult
	// DispatchEvent runs the personal route and, for posts, the channel
	// route. The routes are independent of each other.
	DispatchEvent(ctx context.Context, ev model.Event, s *model.Settings) []model.DispatchResult
	// SendTest delivers an operator test message to chatID.
	SendTest(ctx context.Context, s *model.Settings, chatID, text string) model.DispatchResult
}

type dispatchUC struct {
	renderer *Renderer
	senders  map[model.Backend]adapter.Sender
	tr       adapter.Translator
	log      *zerolog.Logger
}

func NewDispatchUseCase(renderer *Renderer, tr adapter.Translator, logger *zerolog.Logger, senders ...adapter.Sender) *dispatchUC {
	m := make(map[model.Backend]adapter.Sender, len(senders))
	for _, s := range senders {
		m[s.Backend()] = s
	}
	compLog := logger.With().Str("component", "DispatchUC").Logger()
	return &dispatchUC{
		renderer: renderer,
		senders:  m,
		tr:       tr,
		log:      &compLog,
	}
}

func (d *dispatchUC) Dispatch(ctx context.Context, msg model.Message, target *model.DeliveryTarget) model.DispatchResult {
	if target == nil || strings.TrimSpace(target.ChatID) == "" {
		return model.Skipped(model.ReasonNoDestination)
	}
	sender, ok := d.senders[target.Backend]
	if !ok {
		res := model.Failed("no sender for backend " + string(target.Backend))
		res.Backend = target.Backend
		return res
	}

	start := time.Now()
	res := sender.Send(ctx, *target, msg)
	metrics.ObserveDispatchLatency(string(target.Backend), time.Since(start))
	res.Backend = target.Backend
	return res
}

func (d *dispatchUC) DispatchEvent(ctx context.Context, ev model.Event, s *model.Settings) []model.DispatchResult {
	defer logging.TraceDuration(d.log, "DispatchUC.DispatchEvent")()
	if ev == nil || s == nil {
		return []model.DispatchResult{d.finish(ctx, model.RoutePersonal, nil, model.Skipped(model.ReasonDisabled))}
	}

	_, isPost := ev.(*model.NewPost)
	// An empty chat id disables delivery entirely, the channel route included.
	if _, ok := Resolve(s); !ok {
		results := []model.DispatchResult{d.finish(ctx, model.RoutePersonal, ev, model.Skipped(model.ReasonNoDestination))}
		if isPost {
			results = append(results, d.finish(ctx, model.RouteChannel, ev, model.Skipped(model.ReasonNoDestination)))
		}
		return results
	}

	results := []model.DispatchResult{d.personal(ctx, ev, s)}
	if isPost {
		results = append(results, d.channel(ctx, ev.(*model.NewPost), s))
	}
	return results
}

func (d *dispatchUC) personal(ctx context.Context, ev model.Event, s *model.Settings) model.DispatchResult {
	if !ShouldDispatch(ev, s) {
		return d.finish(ctx, model.RoutePersonal, ev, model.Skipped(model.ReasonDisabled))
	}
	// Check the destination before rendering so a disabled site never pays
	// for html conversion.
	target, ok := Resolve(s)
	if !ok {
		return d.finish(ctx, model.RoutePersonal, ev, model.Skipped(model.ReasonNoDestination))
	}
	msg := model.Message{Text: d.renderer.Render(ev, s)}
	return d.finish(ctx, model.RoutePersonal, ev, d.Dispatch(ctx, msg, &target))
}

func (d *dispatchUC) channel(ctx context.Context, post *model.NewPost, s *model.Settings) model.DispatchResult {
	if !ShouldPostToChannel(post, s) {
		return d.finish(ctx, model.RouteChannel, post, model.Skipped(model.ReasonDisabled))
	}
	target, err := ResolveChannel(s)
	if err != nil {
		if errors.Is(err, domain.ErrNoDestination) {
			return d.finish(ctx, model.RouteChannel, post, model.Skipped(model.ReasonNoDestination))
		}
		return d.finish(ctx, model.RouteChannel, post, model.Skipped(err.Error()))
	}
	text := d.renderer.RenderChannelPost(post, s)
	if text == "" {
		return d.finish(ctx, model.RouteChannel, post, model.Skipped("empty channel template"))
	}
	msg := model.Message{Text: text}
	if s.ChannelFeaturedImageEnable {
		msg.PhotoURL = post.FeaturedImageURL
	}
	return d.finish(ctx, model.RouteChannel, post, d.Dispatch(ctx, msg, &target))
}

func (d *dispatchUC) SendTest(ctx context.Context, s *model.Settings, chatID, text string) model.DispatchResult {
	chatID = strings.TrimSpace(chatID)
	if chatID == "" {
		return d.finish(ctx, model.RouteTest, nil, model.Skipped(d.tr.T("enter_chat_id")))
	}
	if strings.TrimSpace(text) == "" {
		text = d.tr.T("test_message")
	}
	snap := s.Clone()
	if snap == nil {
		snap = &model.Settings{}
	}
	snap.ChatID = chatID
	target, _ := Resolve(snap)
	return d.finish(ctx, model.RouteTest, nil, d.Dispatch(ctx, model.Message{Text: text}, &target))
}

// finish tags the result with its route, records metrics and logs it at a
// level matching the status.
func (d *dispatchUC) finish(ctx context.Context, route model.Route, ev model.Event, res model.DispatchResult) model.DispatchResult {
	res.Route = route
	metrics.IncDispatch(string(route), string(res.Backend), string(res.Status))

	l := logging.With(ctx, d.log)
	var e *zerolog.Event
	switch res.Status {
	case model.StatusFailed:
		e = l.Warn()
	case model.StatusSkipped:
		e = l.Debug()
	default:
		e = l.Info()
	}
	if ev != nil {
		e = e.Str("event_kind", string(ev.Kind()))
	}
	e.Str("route", string(route)).
		Str("backend", string(res.Backend)).
		Str("status", string(res.Status)).
		Str("detail", res.Detail).
		Msg("notification dispatch")
	return res
}

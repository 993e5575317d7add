package api

import (
	"context"
	"net/http"
	"time"

	"telefication/internal/usecase"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Limiter throttles the interactive endpoints that call out to Telegram.
type Limiter interface {
	Allow(ctx context.Context, clientID, action string) (bool, error)
}

// Server exposes event ingestion and the operator endpoints over HTTP.
type Server struct {
	events   usecase.EventUseCase
	dispatch usecase.DispatchUseCase
	settings usecase.SettingsUseCase
	auth     *AuthManager
	apiKey   string
	limiter  Limiter
	timeout  time.Duration
	log      *zerolog.Logger
}

// NewServer wires the handlers. auth and limiter may be nil. timeout
// bounds the synchronous operator calls.
func NewServer(
	events usecase.EventUseCase,
	dispatch usecase.DispatchUseCase,
	settings usecase.SettingsUseCase,
	auth *AuthManager,
	apiKey string,
	limiter Limiter,
	timeout time.Duration,
	logger *zerolog.Logger,
) *Server {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	compLog := logger.With().Str("component", "API").Logger()
	return &Server{
		events:   events,
		dispatch: dispatch,
		settings: settings,
		auth:     auth,
		apiKey:   apiKey,
		limiter:  limiter,
		timeout:  timeout,
		log:      &compLog,
	}
}

// Router builds the chi router with all routes and the middleware chain.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(TraceID(), Recover(s.log), RequestLog(s.log))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/token", s.handleToken)

		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)
			r.Post("/events/{kind}", s.handleEvent)

			r.Group(func(r chi.Router) {
				r.Use(Timeout(s.timeout))
				r.With(s.rateLimit("test_message")).Post("/test-message", s.handleTestMessage)
				r.With(s.rateLimit("chat_id")).Get("/chat-id", s.handleChatID)
				r.Get("/settings", s.handleGetSettings)
				r.Put("/settings", s.handlePutSettings)
			})
		})
	})
	return r
}

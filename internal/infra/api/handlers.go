package api

import (
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"

	"telefication/internal/domain"
	"telefication/internal/domain/model"
	"telefication/internal/infra/logging"

	"github.com/go-chi/chi/v5"
)

// maxPayload caps event and settings bodies; email bodies are the largest.
const maxPayload = 1 << 20

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

type tokenRequest struct {
	APIKey string `json:"api_key"`
}

type tokenResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
}

func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	if s.auth == nil {
		writeError(w, http.StatusNotImplemented, "token auth is disabled")
		return
	}
	var req tokenRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 4096)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !keyMatches(req.APIKey, s.apiKey) {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	tok, exp, err := s.auth.Mint("api")
	if err != nil {
		logging.With(r.Context(), s.log).Error().Err(err).Msg("mint token")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{Token: tok, ExpiresAt: exp.Unix()})
}

// handleEvent validates the payload and queues it. Delivery happens in the
// background; the caller only learns whether the event was accepted.
func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	kind := model.EventKind(chi.URLParam(r, "kind"))
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxPayload))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "payload too large")
		return
	}

	ev, err := model.DecodeEvent(kind, body)
	switch {
	case errors.Is(err, domain.ErrUnknownEvent):
		writeError(w, http.StatusNotFound, err.Error())
		return
	case err != nil:
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id, err := s.events.Submit(r.Context(), ev)
	if err != nil {
		if errors.Is(err, domain.ErrQueueFull) {
			w.Header().Set("Retry-After", "1")
			writeError(w, http.StatusServiceUnavailable, "dispatch queue full")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"event_id": id})
}

type testMessageRequest struct {
	ChatID  string `json:"chat_id"`
	Message string `json:"message"`
}

// handleTestMessage is the one path that surfaces a dispatch result to a
// human, so the result is returned as-is.
func (s *Server) handleTestMessage(w http.ResponseWriter, r *http.Request) {
	var req testMessageRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxPayload)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	snap, err := s.settings.Get(r.Context())
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		logging.With(r.Context(), s.log).Error().Err(err).Msg("load settings")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if snap == nil {
		snap = &model.Settings{}
	}

	res := s.dispatch.SendTest(r.Context(), snap, req.ChatID, req.Message)
	code := http.StatusOK
	if res.Status == model.StatusFailed {
		code = http.StatusBadGateway
	}
	writeJSON(w, code, res)
}

func (s *Server) handleChatID(w http.ResponseWriter, r *http.Request) {
	id, err := s.settings.LookupChatID(r.Context(), r.URL.Query().Get("bot_token"))
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		writeError(w, http.StatusBadRequest, "bot_token is required")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "no messages found; send something to your bot first")
	case err != nil:
		logging.With(r.Context(), s.log).Warn().Err(err).Msg("chat id lookup failed")
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		writeJSON(w, http.StatusOK, map[string]string{"chat_id": id})
	}
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	snap, err := s.settings.Get(r.Context())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "settings not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, redactSettings(snap))
}

func (s *Server) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	var in model.Settings
	if err := json.NewDecoder(io.LimitReader(r.Body, maxPayload)).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	// A client echoing the masked token from GET keeps the stored one.
	if in.BotToken != "" {
		if cur, err := s.settings.Get(r.Context()); err == nil && cur.BotToken != "" && in.BotToken == maskToken(cur.BotToken) {
			in.BotToken = cur.BotToken
		}
	}
	out, err := s.settings.Update(r.Context(), &in)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		logging.With(r.Context(), s.log).Error().Err(err).Msg("update settings")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, redactSettings(out))
}

// redactSettings hides the bot token from API responses.
func redactSettings(in *model.Settings) *model.Settings {
	out := in.Clone()
	out.BotToken = maskToken(out.BotToken)
	return out
}

func maskToken(tok string) string {
	if tok == "" {
		return ""
	}
	return logging.Redact(tok, false)
}

// rateLimit rejects callers over the limit. Limiter errors let the request
// through.
func (s *Server) rateLimit(action string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if s.limiter == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ok, err := s.limiter.Allow(r.Context(), clientIP(r), action)
			if err != nil {
				logging.With(r.Context(), s.log).Warn().Err(err).Str("action", action).Msg("rate limiter unavailable")
			} else if !ok {
				writeError(w, http.StatusTooManyRequests, "too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

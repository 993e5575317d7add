package relay

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"telefication/internal/domain/model"
	"telefication/internal/domain/ports/adapter"
	"telefication/internal/infra/transport"

	"github.com/rs/zerolog"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

type fakeTransport struct {
	resp   *adapter.TransportResponse
	err    error
	calls  int
	params url.Values
}

func (f *fakeTransport) Get(_ context.Context, _ string, params url.Values) (*adapter.TransportResponse, error) {
	f.calls++
	f.params = params
	return f.resp, f.err
}

func TestSend(t *testing.T) {
	target := model.DeliveryTarget{Backend: model.BackendRelay, ChatID: "42"}
	msg := model.Message{Text: "hello & bye"}

	cases := []struct {
		name       string
		resp       *adapter.TransportResponse
		err        error
		wantStatus model.DispatchStatus
		wantDetail string
	}{
		{"ok body", &adapter.TransportResponse{StatusCode: 200, Body: []byte("ok")}, nil, model.StatusSent, "message sent"},
		{"error body verbatim", &adapter.TransportResponse{StatusCode: 200, Body: []byte("rate limited")}, nil, model.StatusFailed, "rate limited"},
		{"ok with trailing newline is not ok", &adapter.TransportResponse{StatusCode: 200, Body: []byte("ok\n")}, nil, model.StatusFailed, "ok\n"},
		{"non-2xx without body", &adapter.TransportResponse{StatusCode: 502}, nil, model.StatusFailed, "relay: unexpected status 502"},
		{"empty 2xx", &adapter.TransportResponse{StatusCode: 200}, nil, model.StatusFailed, model.ReasonUnknownError},
		{"transport error", nil, errors.New("GET https://relay: timeout"), model.StatusFailed, "GET https://relay: timeout"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ft := &fakeTransport{resp: tc.resp, err: tc.err}
			s := NewSender("https://relay.example/api/sendNotification", ft, newTestLogger())
			got := s.Send(context.Background(), target, msg)
			if got.Status != tc.wantStatus || got.Detail != tc.wantDetail {
				t.Errorf("got %+v, want %s(%q)", got, tc.wantStatus, tc.wantDetail)
			}
			if ft.calls != 1 {
				t.Errorf("expected exactly one call, got %d", ft.calls)
			}
			if ft.params.Get("chat_id") != "42" || ft.params.Get("message") != "hello & bye" {
				t.Errorf("unexpected params: %v", ft.params)
			}
		})
	}
}

func TestSendOverHTTP(t *testing.T) {
	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/sendNotification" {
			http.NotFound(w, r)
			return
		}
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	s := NewSender(srv.URL+"/api/sendNotification", transport.NewHTTPTransportWithClient(srv.Client()), newTestLogger())
	res := s.Send(context.Background(), model.DeliveryTarget{ChatID: "7"}, model.Message{Text: "a+b c"})
	if !res.OK() {
		t.Fatalf("expected sent, got %+v", res)
	}
	if gotQuery.Get("chat_id") != "7" || gotQuery.Get("message") != "a+b c" {
		t.Errorf("query not encoded as expected: %v", gotQuery)
	}
	if s.Backend() != model.BackendRelay {
		t.Errorf("backend: %s", s.Backend())
	}
}

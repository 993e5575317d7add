package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"
)

func TestHTTPTransportGet(t *testing.T) {
	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		gotQuery = r.URL.Query()
		if r.URL.Path == "/fail" {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte("upstream down"))
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	tr := NewHTTPTransportWithClient(srv.Client())

	t.Run("encodes params", func(t *testing.T) {
		resp, err := tr.Get(context.Background(), srv.URL+"/api/sendNotification", url.Values{
			"chat_id": {"42"},
			"message": {"a & b\nc"},
		})
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if resp.StatusCode != http.StatusOK || string(resp.Body) != "ok" {
			t.Fatalf("unexpected response: %d %q", resp.StatusCode, resp.Body)
		}
		if gotQuery.Get("chat_id") != "42" || gotQuery.Get("message") != "a & b\nc" {
			t.Fatalf("query not round-tripped: %v", gotQuery)
		}
	})

	t.Run("non-2xx is a response", func(t *testing.T) {
		resp, err := tr.Get(context.Background(), srv.URL+"/fail", nil)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if resp.StatusCode != http.StatusBadGateway || string(resp.Body) != "upstream down" {
			t.Fatalf("unexpected response: %d %q", resp.StatusCode, resp.Body)
		}
	})

	t.Run("network error hides the path", func(t *testing.T) {
		dead := httptest.NewServer(http.NotFoundHandler())
		addr := dead.URL
		dead.Close()

		_, err := NewHTTPTransport(time.Second).Get(context.Background(), addr+"/bot123:SECRET/sendMessage", nil)
		if err == nil {
			t.Fatal("expected error")
		}
		if strings.Contains(err.Error(), "SECRET") {
			t.Fatalf("error leaks token: %v", err)
		}
	})

	t.Run("context deadline bounds the call", func(t *testing.T) {
		slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		}))
		defer slow.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		if _, err := NewHTTPTransportWithClient(slow.Client()).Get(ctx, slow.URL, nil); err == nil {
			t.Fatal("expected timeout error")
		}
	})
}

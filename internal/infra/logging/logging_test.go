package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"telefication/internal/config"
)

func TestNewWithWriter(t *testing.T) {
	t.Run("json output honours level", func(t *testing.T) {
		var buf bytes.Buffer
		l := NewWithWriter(&buf, config.LogConfig{Level: "warn", Format: "json"}, false)
		l.Info().Msg("hidden")
		l.Warn().Msg("shown")

		out := buf.String()
		if strings.Contains(out, "hidden") {
			t.Errorf("info line should be filtered at warn level: %s", out)
		}
		var line map[string]interface{}
		if err := json.Unmarshal([]byte(strings.TrimSpace(out)), &line); err != nil {
			t.Fatalf("expected a single json line, got %q: %v", out, err)
		}
		if line["message"] != "shown" {
			t.Errorf("unexpected message: %v", line["message"])
		}
	})

	t.Run("unknown level falls back to info", func(t *testing.T) {
		var buf bytes.Buffer
		l := NewWithWriter(&buf, config.LogConfig{Level: "loud"}, false)
		l.Debug().Msg("debug")
		l.Info().Msg("info")
		if strings.Contains(buf.String(), `"message":"debug"`) {
			t.Errorf("debug should be filtered: %s", buf.String())
		}
		if !strings.Contains(buf.String(), `"message":"info"`) {
			t.Errorf("info should be logged: %s", buf.String())
		}
	})
}

func TestWithContextIDs(t *testing.T) {
	var buf bytes.Buffer
	base := NewWithWriter(&buf, config.LogConfig{Level: "info"}, false)
	ctx := WithEventID(WithTraceID(context.Background(), "t-1"), "e-1")

	With(ctx, base).Info().Msg("x")

	out := buf.String()
	if !strings.Contains(out, `"trace_id":"t-1"`) || !strings.Contains(out, `"event_id":"e-1"`) {
		t.Fatalf("expected ids in log line, got %s", out)
	}
	if TraceIDFrom(ctx) != "t-1" {
		t.Errorf("TraceIDFrom: got %q", TraceIDFrom(ctx))
	}
}

func TestRedact(t *testing.T) {
	cases := []struct {
		in   string
		dev  bool
		want string
	}{
		{"123456:ABCDEFGHIJ", false, "1234...IJ"},
		{"short", false, "***"},
		{"123456:ABCDEFGHIJ", true, "123456:ABCDEFGHIJ"},
	}
	for _, c := range cases {
		if got := Redact(c.in, c.dev); got != c.want {
			t.Errorf("Redact(%q, %v) = %q, want %q", c.in, c.dev, got, c.want)
		}
	}
}

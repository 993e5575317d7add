package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestIncDispatch(t *testing.T) {
	before := testutil.ToFloat64(notificationsTotal.WithLabelValues("personal", "relay", "sent"))
	IncDispatch(" Personal ", "RELAY", "sent")
	after := testutil.ToFloat64(notificationsTotal.WithLabelValues("personal", "relay", "sent"))
	if after-before != 1 {
		t.Fatalf("expected counter to grow by 1, got %v", after-before)
	}

	t.Run("empty backend is labeled none", func(t *testing.T) {
		before := testutil.ToFloat64(notificationsTotal.WithLabelValues("personal", "none", "skipped"))
		IncDispatch("personal", "", "skipped")
		after := testutil.ToFloat64(notificationsTotal.WithLabelValues("personal", "none", "skipped"))
		if after-before != 1 {
			t.Fatalf("expected none label to be used")
		}
	})
}

func TestObserveDispatchLatency(t *testing.T) {
	ObserveDispatchLatency("direct_bot", 120*time.Millisecond)
	if n := testutil.CollectAndCount(dispatchLatencyMs); n == 0 {
		t.Fatal("expected histogram series after observation")
	}
}

func TestMustRegisterIsIdempotent(t *testing.T) {
	MustRegister()
	MustRegister()
}

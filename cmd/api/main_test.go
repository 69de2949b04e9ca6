package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSetupMetricsExposesMetrics(t *testing.T) {
	handler, m := setupMetrics()
	if handler == nil || m == nil {
		t.Fatalf("expected non-nil handler and metrics")
	}

	m.ObserveTurn("confirmed", 0.01)
	m.ObserveBookingFallback("postgres")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	body := rr.Body.String()
	for _, want := range []string{
		"calendar_assistant_conversation_turns_total",
		"calendar_assistant_bookings_fallback_total",
		"go_goroutines",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %s to be exported", want)
		}
	}
}

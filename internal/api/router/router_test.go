package router

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wolfman30/calendar-assistant/internal/bookings"
	"github.com/wolfman30/calendar-assistant/internal/conversation"
	httpmiddleware "github.com/wolfman30/calendar-assistant/internal/http/middleware"
	"github.com/wolfman30/calendar-assistant/internal/observability/metrics"
	"github.com/wolfman30/calendar-assistant/internal/webchat"
	"github.com/wolfman30/calendar-assistant/pkg/logging"
)

func newTestRouter(t *testing.T, limiter *httpmiddleware.RateLimiter) http.Handler {
	t.Helper()

	logger := logging.New("error")
	reg := prometheus.NewRegistry()
	m := metrics.NewConversationMetrics(reg)
	svc := conversation.NewService(bookings.NewDemoSource(time.UTC), logger,
		conversation.WithClock(func() time.Time { return time.Date(2025, 6, 28, 8, 0, 0, 0, time.UTC) }),
		conversation.WithTurnObserver(m),
	)

	return New(&Config{
		Logger:              logger,
		ConversationHandler: conversation.NewHandler(svc, logger),
		WebChatHandler:      webchat.NewHandler(svc, logger),
		MetricsHandler:      promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		CORSAllowedOrigins:  []string{"https://chat.example.com"},
		RateLimiter:         limiter,
	})
}

func TestRouterHealthEndpoint(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}

	var resp map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode health response: %v", err)
	}
	if resp["status"] != "ok" {
		t.Errorf("expected status 'ok', got %q", resp["status"])
	}
	if rr.Header().Get("X-Request-Id") == "" {
		t.Errorf("expected request id header")
	}
}

func TestRouterConversationFlow(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/conversations/message", strings.NewReader(`{"conversation_id":"conv-1","message":"Book a review today at 9:15am"}`))
	req.Header.Set("Origin", "https://chat.example.com")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rr.Code, rr.Body.String())
	}
	if rr.Header().Get("Access-Control-Allow-Origin") != "https://chat.example.com" {
		t.Fatalf("expected CORS header on chat response")
	}
	var resp conversation.Response
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Kind != "conflict" {
		t.Fatalf("expected conflict, got %s", resp.Kind)
	}

	req = httptest.NewRequest(http.MethodGet, "/conversations/conv-1/history", nil)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	var history struct {
		Messages []conversation.Message `json:"messages"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&history); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if len(history.Messages) != 2 {
		t.Fatalf("expected 2 transcript messages, got %d", len(history.Messages))
	}

	req = httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	body, _ := io.ReadAll(rr.Body)
	if !strings.Contains(string(body), `calendar_assistant_conversation_turns_total{kind="conflict"} 1`) {
		t.Fatalf("expected turn counter in metrics output, got:\n%s", body)
	}
}

func TestRouterBookings(t *testing.T) {
	router := newTestRouter(t, nil)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/bookings", nil))

	var payload struct {
		Bookings []json.RawMessage `json:"bookings"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("decode bookings: %v", err)
	}
	if len(payload.Bookings) != 5 {
		t.Fatalf("expected 5 demo bookings, got %d", len(payload.Bookings))
	}
}

func TestRouterRateLimitsChat(t *testing.T) {
	limiter := httpmiddleware.NewRateLimiter(0.001, 1)
	defer limiter.Close()
	router := newTestRouter(t, limiter)

	codes := make([]int, 0, 3)
	for _, path := range []string{"/bookings", "/bookings", "/health"} {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
		codes = append(codes, rr.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusTooManyRequests || codes[2] != http.StatusOK {
		t.Fatalf("expected [200 429 200], got %v", codes)
	}
}

package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/wolfman30/calendar-assistant/internal/conversation"
	httpmiddleware "github.com/wolfman30/calendar-assistant/internal/http/middleware"
	"github.com/wolfman30/calendar-assistant/internal/webchat"
	"github.com/wolfman30/calendar-assistant/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger              *logging.Logger
	ConversationHandler *conversation.Handler
	WebChatHandler      *webchat.Handler
	MetricsHandler      http.Handler
	CORSAllowedOrigins  []string

	// RateLimiter guards the chat endpoints when set.
	RateLimiter *httpmiddleware.RateLimiter
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	r.Use(httpmiddleware.RequestLogger(cfg.Logger))

	r.Get("/health", health)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Group(func(chat chi.Router) {
		if cfg.RateLimiter != nil {
			chat.Use(cfg.RateLimiter.Middleware)
		}
		if h := cfg.ConversationHandler; h != nil {
			chat.Post("/conversations/message", h.Message)
			chat.Get("/conversations/{conversationID}/history", h.History)
			chat.Get("/bookings", h.Bookings)
		}
		if h := cfg.WebChatHandler; h != nil {
			chat.Get("/ws/chat", h.HandleWebSocket)
			chat.Post("/chat/message", h.HandleMessage)
			chat.Get("/chat/history", h.HandleHistory)
		}
	})

	return r
}

func health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

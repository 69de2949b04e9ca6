package conversation

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/wolfman30/calendar-assistant/internal/scheduling"
	"github.com/wolfman30/calendar-assistant/pkg/logging"
)

// TurnHandler is the part of Service the HTTP and chat layers depend on.
type TurnHandler interface {
	HandleMessage(ctx context.Context, req MessageRequest) (*Response, error)
	History(ctx context.Context, conversationID string, limit int) ([]Message, error)
	Bookings(ctx context.Context) ([]scheduling.Booking, error)
}

// Handler wires HTTP requests to the conversation service.
type Handler struct {
	service TurnHandler
	logger  *logging.Logger
}

// NewHandler creates a conversation handler.
func NewHandler(service TurnHandler, logger *logging.Logger) *Handler {
	if service == nil {
		panic("conversation: service cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Message handles POST /conversations/message.
func (h *Handler) Message(w http.ResponseWriter, r *http.Request) {
	var req MessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode message request", "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Source == "" {
		req.Source = "api"
	}

	resp, err := h.service.HandleMessage(r.Context(), req)
	if err != nil {
		if errors.Is(err, ErrEmptyMessage) {
			http.Error(w, "Message is required", http.StatusBadRequest)
			return
		}
		h.logger.Error("failed to process message", "error", err)
		http.Error(w, "Failed to process message", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, resp)
}

// History handles GET /conversations/{conversationID}/history?limit=N.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversationID")
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	msgs, err := h.service.History(r.Context(), conversationID, limit)
	if err != nil {
		if errors.Is(err, ErrConversationIDRequired) {
			http.Error(w, "Conversation ID is required", http.StatusBadRequest)
			return
		}
		h.logger.Error("failed to load history", "conversation_id", conversationID, "error", err)
		http.Error(w, "Failed to load history", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"conversation_id": conversationID,
		"messages":        msgs,
	})
}

// Bookings handles GET /bookings.
func (h *Handler) Bookings(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.Bookings(r.Context())
	if err != nil {
		h.logger.Error("failed to list bookings", "error", err)
		http.Error(w, "Failed to list bookings", http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []scheduling.Booking{}
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"bookings": list})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", "error", err)
	}
}

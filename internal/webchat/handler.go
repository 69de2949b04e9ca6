package webchat

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/websocket"

	"github.com/wolfman30/calendar-assistant/internal/conversation"
	"github.com/wolfman30/calendar-assistant/internal/scheduling"
	"github.com/wolfman30/calendar-assistant/pkg/logging"
)

const historyReplayLimit = 50

// Handler manages web chat connections and messages. Turns are processed
// synchronously; the reply goes back on the connection that sent the message.
type Handler struct {
	turns  conversation.TurnHandler
	logger *logging.Logger
}

func send(conn *websocket.Conn, msg OutboundMessage) error {
	return websocket.JSON.Send(conn, msg)
}

// InboundMessage is what the chat client sends.
type InboundMessage struct {
	Type string `json:"type"` // "message", "ping"
	Text string `json:"text"`
}

// OutboundMessage is what we send to the chat client.
type OutboundMessage struct {
	Type         string                   `json:"type"` // "message", "typing", "history", "session", "pong", "error"
	Text         string                   `json:"text,omitempty"`
	Role         string                   `json:"role,omitempty"`
	Kind         scheduling.ReplyKind     `json:"kind,omitempty"`
	SessionID    string                   `json:"session_id,omitempty"`
	Timestamp    string                   `json:"timestamp,omitempty"`
	Alternatives []scheduling.Alternative `json:"alternatives,omitempty"`
	Messages     []HistoryMessage         `json:"messages,omitempty"`
}

// HistoryMessage is a simplified message for history responses.
type HistoryMessage struct {
	Role      string `json:"role"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}

// NewHandler creates a web chat handler.
func NewHandler(turns conversation.TurnHandler, logger *logging.Logger) *Handler {
	if turns == nil {
		panic("webchat: conversation service cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		turns:  turns,
		logger: logger,
	}
}

// ConversationID builds the canonical conversation ID for a webchat session.
func ConversationID(sessionID string) string {
	return "webchat:" + sessionID
}

// generateSessionID creates a random session identifier.
func generateSessionID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return uuid.New().String()
	}
	return hex.EncodeToString(b)
}

// HandleWebSocket upgrades to WebSocket and handles real-time messaging.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	websocket.Handler(func(conn *websocket.Conn) {
		h.serveWS(conn, r)
	}).ServeHTTP(w, r)
}

func (h *Handler) serveWS(conn *websocket.Conn, r *http.Request) {
	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		sessionID = generateSessionID()
	}
	convID := ConversationID(sessionID)

	_ = send(conn, OutboundMessage{Type: "session", SessionID: sessionID})

	if msgs, err := h.turns.History(r.Context(), convID, historyReplayLimit); err == nil && len(msgs) > 0 {
		_ = send(conn, OutboundMessage{Type: "history", Messages: toHistory(msgs)})
	}

	h.logger.Info("webchat: connection opened", "session_id", sessionID)

	for {
		var msg InboundMessage
		if err := websocket.JSON.Receive(conn, &msg); err != nil {
			h.logger.Debug("webchat: connection closed", "session_id", sessionID, "error", err)
			return
		}

		if msg.Type == "ping" {
			_ = send(conn, OutboundMessage{Type: "pong"})
			continue
		}

		if msg.Type != "message" || strings.TrimSpace(msg.Text) == "" {
			continue
		}

		_ = send(conn, OutboundMessage{Type: "typing"})
		_ = send(conn, h.processMessage(r.Context(), convID, msg.Text))
	}
}

func (h *Handler) processMessage(ctx context.Context, convID, text string) OutboundMessage {
	resp, err := h.turns.HandleMessage(ctx, conversation.MessageRequest{
		ConversationID: convID,
		Message:        text,
		Source:         "webchat",
	})
	if err != nil {
		h.logger.Error("webchat: failed to process message", "error", err, "conversation_id", convID)
		return OutboundMessage{
			Type: "error",
			Text: "Sorry, something went wrong. Please try again.",
		}
	}
	return OutboundMessage{
		Type:         "message",
		Role:         conversation.RoleAssistant,
		Text:         resp.Message,
		Kind:         resp.Kind,
		Alternatives: resp.Alternatives,
		Timestamp:    resp.Timestamp.UTC().Format(time.RFC3339),
	}
}

// HandleMessage is the HTTP fallback for sending messages.
func (h *Handler) HandleMessage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID string `json:"session_id"`
		Text      string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		http.Error(w, "text is required", http.StatusBadRequest)
		return
	}
	if req.SessionID == "" {
		req.SessionID = generateSessionID()
	}

	out := h.processMessage(r.Context(), ConversationID(req.SessionID), req.Text)
	out.SessionID = req.SessionID

	w.Header().Set("Content-Type", "application/json")
	if out.Type == "error" {
		w.WriteHeader(http.StatusInternalServerError)
	}
	_ = json.NewEncoder(w).Encode(out)
}

// HandleHistory returns chat history for a session.
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		http.Error(w, "session parameter required", http.StatusBadRequest)
		return
	}

	msgs, err := h.turns.History(r.Context(), ConversationID(sessionID), 100)
	if err != nil && !errors.Is(err, conversation.ErrConversationIDRequired) {
		h.logger.Error("webchat: failed to load history", "error", err)
		http.Error(w, "failed to load history", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"messages": toHistory(msgs)})
}

func toHistory(msgs []conversation.Message) []HistoryMessage {
	history := make([]HistoryMessage, 0, len(msgs))
	for _, m := range msgs {
		history = append(history, HistoryMessage{
			Role:      m.Role,
			Text:      m.Body,
			Timestamp: m.Timestamp.UTC().Format(time.RFC3339),
		})
	}
	return history
}

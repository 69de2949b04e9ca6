package conversation

import (
	"errors"
	"time"

	"github.com/wolfman30/calendar-assistant/internal/scheduling"
)

var (
	// ErrEmptyMessage is returned when a turn carries no text.
	ErrEmptyMessage = errors.New("conversation: message cannot be empty")
	// ErrConversationIDRequired is returned by lookups without an ID.
	ErrConversationIDRequired = errors.New("conversation: conversation id required")
)

// Message roles in a transcript.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// MessageRequest represents a single turn in the conversation.
type MessageRequest struct {
	ConversationID string `json:"conversation_id"`
	Message        string `json:"message"`
	Source         string `json:"source,omitempty"`
}

// Message is one transcript entry.
type Message struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"` // "user" or "assistant"
	Body      string    `json:"body"`
	Kind      string    `json:"kind,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// RequestSummary is the JSON view of what the assistant understood.
type RequestSummary struct {
	Title               string    `json:"title"`
	MeetingType         string    `json:"meeting_type"`
	Description         string    `json:"description"`
	Start               time.Time `json:"start"`
	End                 time.Time `json:"end"`
	DurationHours       float64   `json:"duration_hours"`
	IsAvailabilityQuery bool      `json:"is_availability_query"`
	DateMatched         bool      `json:"date_matched"`
	TimeMatched         bool      `json:"time_matched"`
}

// Response is the DTO returned to the API and chat layers.
type Response struct {
	ConversationID string                   `json:"conversation_id"`
	Message        string                   `json:"message"`
	Kind           scheduling.ReplyKind     `json:"kind"`
	Request        *RequestSummary          `json:"request,omitempty"`
	Conflict       *scheduling.Booking      `json:"conflict,omitempty"`
	Alternatives   []scheduling.Alternative `json:"alternatives,omitempty"`
	Timestamp      time.Time                `json:"timestamp"`
}

func newResponse(conversationID string, reply scheduling.Reply, at time.Time) *Response {
	resp := &Response{
		ConversationID: conversationID,
		Message:        reply.Text,
		Kind:           reply.Kind,
		Conflict:       reply.Conflict,
		Alternatives:   reply.Alternatives,
		Timestamp:      at,
	}
	if reply.Kind != scheduling.ReplyHelp {
		req := reply.Request
		resp.Request = &RequestSummary{
			Title:               req.Title,
			MeetingType:         req.MeetingType,
			Description:         req.Description,
			Start:               req.TargetStart,
			End:                 req.TargetEnd,
			DurationHours:       req.DurationHours,
			IsAvailabilityQuery: req.IsAvailabilityQuery,
			DateMatched:         req.DateMatched,
			TimeMatched:         req.TimeMatched,
		}
	}
	return resp
}

package conversation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/wolfman30/calendar-assistant/internal/bookings"
	"github.com/wolfman30/calendar-assistant/internal/scheduling"
	"github.com/wolfman30/calendar-assistant/pkg/logging"
)

// TurnObserver records per-turn metrics.
type TurnObserver interface {
	ObserveTurn(kind string, seconds float64)
}

// Service runs one scheduling turn per message: load bookings, evaluate the
// text, record the transcript and announce the outcome.
type Service struct {
	processor   *scheduling.Processor
	source      bookings.Source
	transcripts TranscriptStore
	publisher   TurnPublisher
	observer    TurnObserver
	now         func() time.Time
	newID       func() string
	logger      *logging.Logger
}

// ServiceOption customizes a Service.
type ServiceOption func(*Service)

// WithProcessor replaces the default scheduling processor.
func WithProcessor(p *scheduling.Processor) ServiceOption {
	return func(s *Service) {
		if p != nil {
			s.processor = p
		}
	}
}

// WithTranscriptStore sets where transcripts are written.
func WithTranscriptStore(store TranscriptStore) ServiceOption {
	return func(s *Service) {
		if store != nil {
			s.transcripts = store
		}
	}
}

// WithTurnPublisher sets where turn events are sent.
func WithTurnPublisher(p TurnPublisher) ServiceOption {
	return func(s *Service) {
		if p != nil {
			s.publisher = p
		}
	}
}

// WithTurnObserver records turn metrics.
func WithTurnObserver(o TurnObserver) ServiceOption {
	return func(s *Service) {
		s.observer = o
	}
}

// WithClock overrides the reference clock used to resolve relative dates.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates a conversation service over the given booking source.
func NewService(source bookings.Source, logger *logging.Logger, opts ...ServiceOption) *Service {
	if source == nil {
		panic("conversation: booking source cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	s := &Service{
		processor:   scheduling.NewProcessor(),
		source:      source,
		transcripts: NewMemoryTranscriptStore(0),
		publisher:   NoopTurnPublisher{},
		now:         time.Now,
		newID:       uuid.NewString,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// HandleMessage processes one user message. A missing conversation ID starts
// a new conversation.
func (s *Service) HandleMessage(ctx context.Context, req MessageRequest) (*Response, error) {
	if strings.TrimSpace(req.Message) == "" {
		return nil, ErrEmptyMessage
	}
	conversationID := strings.TrimSpace(req.ConversationID)
	if conversationID == "" {
		conversationID = s.newID()
	}

	started := time.Now()
	current, err := s.source.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("conversation: load bookings: %w", err)
	}

	now := s.now()
	reply := s.processor.Evaluate(req.Message, now, current)
	logger := s.logger.With("conversation_id", conversationID)

	if err := s.transcripts.Append(ctx, conversationID,
		Message{ID: s.newID(), Role: RoleUser, Body: req.Message, Timestamp: now},
		Message{ID: s.newID(), Role: RoleAssistant, Body: reply.Text, Kind: string(reply.Kind), Timestamp: now},
	); err != nil {
		logger.Warn("failed to append transcript", "error", err)
	}

	if err := s.publisher.PublishTurn(ctx, newTurnEvent(s.newID(), conversationID, req.Source, reply, now)); err != nil {
		logger.Warn("failed to publish turn event", "error", err)
	}

	if s.observer != nil {
		s.observer.ObserveTurn(string(reply.Kind), time.Since(started).Seconds())
	}
	logger.Info("conversation turn handled",
		"kind", reply.Kind,
		"bookings", len(current),
		"date_matched", reply.Request.DateMatched,
		"time_matched", reply.Request.TimeMatched,
	)

	return newResponse(conversationID, reply, now), nil
}

// History returns the newest limit transcript messages; limit <= 0 returns all.
func (s *Service) History(ctx context.Context, conversationID string, limit int) ([]Message, error) {
	if strings.TrimSpace(conversationID) == "" {
		return nil, ErrConversationIDRequired
	}
	msgs, err := s.transcripts.List(ctx, conversationID, limit)
	if err != nil {
		return nil, fmt.Errorf("conversation: load history: %w", err)
	}
	return msgs, nil
}

// Bookings lists the bookings turns are currently checked against.
func (s *Service) Bookings(ctx context.Context) ([]scheduling.Booking, error) {
	out, err := s.source.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("conversation: load bookings: %w", err)
	}
	return out, nil
}

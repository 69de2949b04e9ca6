package conversation

import (
	"context"
	"sync"
)

const defaultTranscriptMax = 200

// TranscriptStore keeps an append-only record of each conversation. Turn
// handling never reads it back; it exists for history views and replay.
type TranscriptStore interface {
	Append(ctx context.Context, conversationID string, msgs ...Message) error
	List(ctx context.Context, conversationID string, limit int) ([]Message, error)
}

// MemoryTranscriptStore is an in-process TranscriptStore capped per
// conversation.
type MemoryTranscriptStore struct {
	mu          sync.RWMutex
	messages    map[string][]Message
	maxMessages int
}

// NewMemoryTranscriptStore keeps at most maxMessages per conversation; zero or
// less uses the default cap.
func NewMemoryTranscriptStore(maxMessages int) *MemoryTranscriptStore {
	if maxMessages <= 0 {
		maxMessages = defaultTranscriptMax
	}
	return &MemoryTranscriptStore{
		messages:    make(map[string][]Message),
		maxMessages: maxMessages,
	}
}

func (s *MemoryTranscriptStore) Append(_ context.Context, conversationID string, msgs ...Message) error {
	if conversationID == "" {
		return ErrConversationIDRequired
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	history := append(s.messages[conversationID], msgs...)
	if over := len(history) - s.maxMessages; over > 0 {
		history = append([]Message(nil), history[over:]...)
	}
	s.messages[conversationID] = history
	return nil
}

// List returns the newest limit messages in order; limit <= 0 returns all.
func (s *MemoryTranscriptStore) List(_ context.Context, conversationID string, limit int) ([]Message, error) {
	if conversationID == "" {
		return nil, ErrConversationIDRequired
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := s.messages[conversationID]
	if limit > 0 && len(history) > limit {
		history = history[len(history)-limit:]
	}
	out := make([]Message, len(history))
	copy(out, history)
	return out, nil
}

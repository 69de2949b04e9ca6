package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"github.com/wolfman30/calendar-assistant/internal/scheduling"
)

// TurnEvent describes a completed turn for downstream consumers.
type TurnEvent struct {
	EventID        string               `json:"event_id"`
	ConversationID string               `json:"conversation_id"`
	Kind           scheduling.ReplyKind `json:"kind"`
	Title          string               `json:"title,omitempty"`
	Start          *time.Time           `json:"start,omitempty"`
	End            *time.Time           `json:"end,omitempty"`
	ConflictID     string               `json:"conflict_id,omitempty"`
	Source         string               `json:"source,omitempty"`
	OccurredAt     time.Time            `json:"occurred_at"`
}

// TurnPublisher delivers turn events. Failures never fail the turn.
type TurnPublisher interface {
	PublishTurn(ctx context.Context, event TurnEvent) error
}

// NoopTurnPublisher drops every event.
type NoopTurnPublisher struct{}

func (NoopTurnPublisher) PublishTurn(context.Context, TurnEvent) error { return nil }

type sqsSendAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// SQSTurnPublisher sends turn events to an SQS queue as JSON.
type SQSTurnPublisher struct {
	client   sqsSendAPI
	queueURL string
}

// NewSQSTurnPublisher wraps the provided SQS client.
func NewSQSTurnPublisher(client sqsSendAPI, queueURL string) *SQSTurnPublisher {
	if client == nil {
		panic("conversation: SQS client cannot be nil")
	}
	if queueURL == "" {
		panic("conversation: SQS queueURL cannot be empty")
	}
	return &SQSTurnPublisher{client: client, queueURL: queueURL}
}

func (p *SQSTurnPublisher) PublishTurn(ctx context.Context, event TurnEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("conversation: marshal turn event: %w", err)
	}
	_, err = p.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(p.queueURL),
		MessageBody: aws.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"kind": {DataType: aws.String("String"), StringValue: aws.String(string(event.Kind))},
		},
	})
	if err != nil {
		return fmt.Errorf("conversation: failed to send SQS message: %w", err)
	}
	return nil
}

func newTurnEvent(eventID, conversationID, source string, reply scheduling.Reply, at time.Time) TurnEvent {
	ev := TurnEvent{
		EventID:        eventID,
		ConversationID: conversationID,
		Kind:           reply.Kind,
		Source:         source,
		OccurredAt:     at,
	}
	if reply.Kind != scheduling.ReplyHelp {
		start, end := reply.Request.TargetStart, reply.Request.TargetEnd
		ev.Title = reply.Request.Title
		ev.Start = &start
		ev.End = &end
	}
	if reply.Conflict != nil {
		ev.ConflictID = reply.Conflict.ID
	}
	return ev
}

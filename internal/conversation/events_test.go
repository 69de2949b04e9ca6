package conversation

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/calendar-assistant/internal/scheduling"
)

type stubSQS struct {
	input *sqs.SendMessageInput
	err   error
}

func (s *stubSQS) SendMessage(_ context.Context, in *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	s.input = in
	if s.err != nil {
		return nil, s.err
	}
	return &sqs.SendMessageOutput{MessageId: aws.String("msg-1")}, nil
}

func TestSQSTurnPublisher_PublishTurn(t *testing.T) {
	client := &stubSQS{}
	pub := NewSQSTurnPublisher(client, "https://sqs.local/turns")

	start := time.Date(2025, 6, 30, 10, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	event := newTurnEvent("evt-1", "conv-1", "api", scheduling.Reply{
		Kind:    scheduling.ReplyConfirmed,
		Request: scheduling.ParsedRequest{Title: "Team Meeting", TargetStart: start, TargetEnd: end},
	}, start)

	require.NoError(t, pub.PublishTurn(context.Background(), event))
	require.NotNil(t, client.input)
	assert.Equal(t, "https://sqs.local/turns", aws.ToString(client.input.QueueUrl))
	assert.Equal(t, "confirmed", aws.ToString(client.input.MessageAttributes["kind"].StringValue))

	var decoded TurnEvent
	require.NoError(t, json.Unmarshal([]byte(aws.ToString(client.input.MessageBody)), &decoded))
	assert.Equal(t, "conv-1", decoded.ConversationID)
	assert.Equal(t, "Team Meeting", decoded.Title)
	require.NotNil(t, decoded.Start)
	assert.True(t, decoded.Start.Equal(start))
	assert.Empty(t, decoded.ConflictID)
}

func TestSQSTurnPublisher_SendError(t *testing.T) {
	pub := NewSQSTurnPublisher(&stubSQS{err: errors.New("access denied")}, "https://sqs.local/turns")

	err := pub.PublishTurn(context.Background(), TurnEvent{ConversationID: "c"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
}

func TestNewSQSTurnPublisher_Panics(t *testing.T) {
	assert.Panics(t, func() { NewSQSTurnPublisher(nil, "url") })
	assert.Panics(t, func() { NewSQSTurnPublisher(&stubSQS{}, "") })
}

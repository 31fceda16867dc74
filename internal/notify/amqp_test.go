package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/povarna/generative-ai-agents/conversation-analyzer/internal/models"
	"github.com/rs/zerolog"
	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChannel struct {
	exchange string
	key      string
	msg      amqp.Publishing
	err      error
}

func (f *fakeChannel) Publish(exchange, key string, _, _ bool, msg amqp.Publishing) error {
	f.exchange, f.key, f.msg = exchange, key, msg
	return f.err
}

func TestAMQPNotifier_NotifyEscalation(t *testing.T) {
	logger := zerolog.Nop()
	ch := &fakeChannel{}
	n := newNotifier(ch, "events", &logger)

	report := models.Report{
		ID: "r1", ConversationID: "c1", OverallScore: 2.4,
		Sentiment: models.SentimentNegative, EscalationNeed: true,
	}
	require.NoError(t, n.NotifyEscalation(context.Background(), report))

	assert.Equal(t, "events", ch.exchange)
	assert.Equal(t, EscalationRouting, ch.key)
	assert.Equal(t, amqp.Persistent, ch.msg.DeliveryMode)

	var msg EscalationMessage
	require.NoError(t, json.Unmarshal(ch.msg.Body, &msg))
	assert.Equal(t, "c1", msg.ConversationID)
	assert.Equal(t, "r1", msg.ReportID)
	assert.Equal(t, models.SentimentNegative, msg.Sentiment)
}

func TestAMQPNotifier_PublishError(t *testing.T) {
	logger := zerolog.Nop()
	n := newNotifier(&fakeChannel{err: errors.New("channel closed")}, "events", &logger)

	err := n.NotifyEscalation(context.Background(), models.Report{ConversationID: "c1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "channel closed")
}

func TestAMQPNotifier_CanceledContext(t *testing.T) {
	logger := zerolog.Nop()
	ch := &fakeChannel{}
	n := newNotifier(ch, "events", &logger)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, n.NotifyEscalation(ctx, models.Report{}), context.Canceled)
	assert.Empty(t, ch.key)
}

func TestDial_RequiresURL(t *testing.T) {
	logger := zerolog.Nop()
	_, err := Dial("", "", &logger)
	assert.Error(t, err)
}

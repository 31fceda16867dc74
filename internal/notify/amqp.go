package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/povarna/generative-ai-agents/conversation-analyzer/internal/models"
	"github.com/rs/zerolog"
	"github.com/streadway/amqp"
)

const (
	DefaultExchange   = "conversation.events"
	EscalationRouting = "conversation.escalation"
)

// EscalationMessage is published for every stored report that needs a human
// follow-up. What consumers do with it is up to them.
type EscalationMessage struct {
	ConversationID string           `json:"conversation_id"`
	ReportID       string           `json:"report_id"`
	OverallScore   float64          `json:"overall_score"`
	Sentiment      models.Sentiment `json:"sentiment"`
	Timestamp      time.Time        `json:"timestamp"`
}

type publisher interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type AMQPNotifier struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	channel  publisher
	exchange string
	logger   *zerolog.Logger
}

// Dial connects to the broker and declares a durable topic exchange.
func Dial(url, exchange string, logger *zerolog.Logger) (*AMQPNotifier, error) {
	if url == "" {
		return nil, fmt.Errorf("AMQP URL not configured")
	}
	if exchange == "" {
		exchange = DefaultExchange
	}

	conn, err := amqp.DialConfig(url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Dial:      amqp.DefaultDial(5 * time.Second),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to AMQP server: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open AMQP channel: %w", err)
	}

	if err := ch.ExchangeDeclare(
		exchange,
		amqp.ExchangeTopic,
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}

	logger.Info().Str("exchange", exchange).Msg("AMQP escalation notifier connected")
	n := newNotifier(ch, exchange, logger)
	n.conn = conn
	return n, nil
}

func newNotifier(ch publisher, exchange string, logger *zerolog.Logger) *AMQPNotifier {
	return &AMQPNotifier{
		channel:  ch,
		exchange: exchange,
		logger:   logger,
	}
}

func (n *AMQPNotifier) NotifyEscalation(ctx context.Context, report models.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := json.Marshal(EscalationMessage{
		ConversationID: report.ConversationID,
		ReportID:       report.ID,
		OverallScore:   report.OverallScore,
		Sentiment:      report.Sentiment,
		Timestamp:      time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal escalation: %w", err)
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	err = n.channel.Publish(n.exchange, EscalationRouting, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    report.ID,
		Timestamp:    time.Now(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish escalation for %s: %w", report.ConversationID, err)
	}

	n.logger.Info().
		Str("conversation_id", report.ConversationID).
		Str("report_id", report.ID).
		Msg("escalation published")
	return nil
}

func (n *AMQPNotifier) Close() error {
	if n.conn == nil {
		return nil
	}
	return n.conn.Close()
}

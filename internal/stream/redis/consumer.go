package redis

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/povarna/generative-ai-agents/conversation-analyzer/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// AnalysisRequest is the JSON carried in the payload field of a stream entry.
type AnalysisRequest struct {
	ConversationID string `json:"conversation_id"`
}

type Analyzer interface {
	Analyze(ctx context.Context, conversationID string) (models.AnalysisResult, error)
}

type streamClient interface {
	XGroupCreateMkStream(ctx context.Context, stream, group, start string) *redis.StatusCmd
	XReadGroup(ctx context.Context, a *redis.XReadGroupArgs) *redis.XStreamSliceCmd
	XAck(ctx context.Context, stream, group string, ids ...string) *redis.IntCmd
	XAutoClaim(ctx context.Context, a *redis.XAutoClaimArgs) *redis.XAutoClaimCmd
}

type Consumer struct {
	client       streamClient
	stream       string
	groupID      string
	consumerName string
	analyzer     Analyzer
	logger       *zerolog.Logger

	ClaimMinIdle  time.Duration
	ClaimInterval time.Duration
}

func NewConsumer(client streamClient, stream string, groupID string, consumerName string, analyzer Analyzer, logger *zerolog.Logger) *Consumer {
	return &Consumer{
		client:       client,
		stream:       stream,
		groupID:      groupID,
		consumerName: consumerName,
		analyzer:     analyzer,
		logger:       logger,

		ClaimMinIdle:  DefaultClaimMinIdle,
		ClaimInterval: DefaultClaimInterval,
	}
}

func (c *Consumer) Setup(ctx context.Context) error {
	err := c.client.XGroupCreateMkStream(ctx, c.stream, c.groupID, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return err
	}
	return nil
}

func (c *Consumer) Start(ctx context.Context) error {
	c.logger.Info().
		Str("stream", c.stream).
		Str("group", c.groupID).
		Str("consumer", c.consumerName).
		Msg("Consumer started")

	if ctx.Err() != nil {
		return ctx.Err()
	}

	// entries left pending by a previous run of this consumer
	c.drainPending(ctx)
	lastClaim := time.Now()

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if time.Since(lastClaim) >= c.ClaimInterval {
			c.claimStale(ctx)
			lastClaim = time.Now()
		}

		streams, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    c.groupID,
			Consumer: c.consumerName,
			Streams:  []string{c.stream, ">"},
			Count:    1,
			Block:    2 * time.Second,
		}).Result()

		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}

			c.logger.Error().Err(err).Msg("Failed to read from stream")
			continue
		}

		for _, s := range streams {
			for _, msg := range s.Messages {
				c.process(ctx, msg)
			}
		}
	}
}

// drainPending replays this consumer's own pending entries, reading the
// history from "0" until a batch comes back empty.
func (c *Consumer) drainPending(ctx context.Context) {
	start := "0"
	for ctx.Err() == nil {
		streams, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    c.groupID,
			Consumer: c.consumerName,
			Streams:  []string{c.stream, start},
			Count:    10,
			Block:    -1,
		}).Result()
		if err != nil {
			if !errors.Is(err, redis.Nil) {
				c.logger.Error().Err(err).Msg("Failed to read pending entries")
			}
			return
		}

		read := 0
		for _, s := range streams {
			for _, msg := range s.Messages {
				c.process(ctx, msg)
				start = msg.ID
				read++
			}
		}
		if read == 0 {
			return
		}
		c.logger.Info().Int("count", read).Msg("Replayed pending entries")
	}
}

// claimStale takes over entries that have been pending longer than
// ClaimMinIdle in any consumer of the group, this one included, and
// processes them again.
func (c *Consumer) claimStale(ctx context.Context) {
	start := "0-0"
	for ctx.Err() == nil {
		msgs, next, err := c.client.XAutoClaim(ctx, &redis.XAutoClaimArgs{
			Stream:   c.stream,
			Group:    c.groupID,
			Consumer: c.consumerName,
			MinIdle:  c.ClaimMinIdle,
			Start:    start,
			Count:    10,
		}).Result()
		if err != nil {
			if !errors.Is(err, redis.Nil) {
				c.logger.Error().Err(err).Msg("Failed to claim stale entries")
			}
			return
		}

		for _, msg := range msgs {
			c.logger.Warn().Str("id", msg.ID).Msg("Retrying stale entry")
			c.process(ctx, msg)
		}
		if next == "0-0" || next == "" {
			return
		}
		start = next
	}
}

func (c *Consumer) Stop() error {
	return nil
}

// process runs one analysis. Malformed entries and caller errors are ACKed so
// they are not redelivered; transient failures stay pending until claimStale
// or the next drainPending picks them up.
func (c *Consumer) process(ctx context.Context, msg redis.XMessage) {
	c.logger.Info().Str("id", msg.ID).Msg("Message received")

	payload, ok := msg.Values["payload"].(string)
	if !ok {
		c.logger.Error().Str("id", msg.ID).Msg("Missing payload field")
		c.ack(ctx, msg.ID)
		return
	}

	var req AnalysisRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil || req.ConversationID == "" {
		c.logger.Error().Err(err).Str("id", msg.ID).Msg("Failed to decode message")
		c.ack(ctx, msg.ID)
		return
	}

	result, err := c.analyzer.Analyze(ctx, req.ConversationID)
	switch {
	case err == nil:
		c.logger.Info().
			Str("id", msg.ID).
			Str("conversation_id", req.ConversationID).
			Str("report_id", result.Report.ID).
			Float64("overall_score", result.Report.OverallScore).
			Bool("created", result.Created).
			Msg("Analysis complete")
		c.ack(ctx, msg.ID)
	case errors.Is(err, models.ErrConversationNotFound),
		errors.Is(err, models.ErrEmptyTranscript),
		errors.Is(err, models.ErrInvalidTranscript):
		c.logger.Warn().Err(err).Str("id", msg.ID).Str("conversation_id", req.ConversationID).Msg("Skipping analysis request")
		c.ack(ctx, msg.ID)
	default:
		c.logger.Error().Err(err).Str("id", msg.ID).Str("conversation_id", req.ConversationID).Msg("Analysis failed, leaving message pending")
	}
}

func (c *Consumer) ack(ctx context.Context, msgID string) {
	if err := c.client.XAck(ctx, c.stream, c.groupID, msgID).Err(); err != nil {
		c.logger.Error().Err(err).Str("id", msgID).Msg("Failed to ACK message")
	}
}

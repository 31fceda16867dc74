package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/povarna/generative-ai-agents/conversation-analyzer/internal/metrics"
	"github.com/povarna/generative-ai-agents/conversation-analyzer/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	DefaultKeyPrefix  = "analyzer"
	DefaultMaxRetries = 5
)

type storedConversation struct {
	Conversation models.Conversation `json:"conversation"`
	Turns        []models.Turn       `json:"turns"`
}

// RedisStore keeps conversations and reports as JSON values and indexes
// reports by creation time in a sorted set. Upserts run under WATCH so two
// writers for the same conversation never interleave; a lost race is retried
// with exponential backoff up to MaxRetries times.
type RedisStore struct {
	client     *redis.Client
	prefix     string
	MaxRetries int
	metrics    *metrics.Metrics
	logger     *zerolog.Logger
	now        func() time.Time
}

func NewRedisStore(client *redis.Client, prefix string, maxRetries int, m *metrics.Metrics, logger *zerolog.Logger) *RedisStore {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}
	return &RedisStore{
		client:     client,
		prefix:     prefix,
		MaxRetries: maxRetries,
		metrics:    m,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *RedisStore) conversationKey(id string) string {
	return fmt.Sprintf("%s:conversation:%s", s.prefix, id)
}

func (s *RedisStore) reportKey(conversationID string) string {
	return fmt.Sprintf("%s:report:%s", s.prefix, conversationID)
}

func (s *RedisStore) indexKey() string {
	return s.prefix + ":reports:by_created"
}

func (s *RedisStore) CreateConversation(ctx context.Context, title string, turns []models.Turn) (models.Conversation, error) {
	conv := models.Conversation{
		ID:        uuid.NewString(),
		Title:     title,
		CreatedAt: s.now().UTC(),
	}

	payload, err := json.Marshal(storedConversation{Conversation: conv, Turns: turns})
	if err != nil {
		return models.Conversation{}, fmt.Errorf("failed to marshal conversation: %w", err)
	}

	if err := s.client.Set(ctx, s.conversationKey(conv.ID), payload, 0).Err(); err != nil {
		return models.Conversation{}, fmt.Errorf("failed to save conversation: %w", err)
	}
	return conv, nil
}

// DeleteConversation removes the conversation, its report and the index entry
// in one transaction.
func (s *RedisStore) DeleteConversation(ctx context.Context, conversationID string) error {
	var removed *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		removed = pipe.Del(ctx, s.conversationKey(conversationID))
		pipe.Del(ctx, s.reportKey(conversationID))
		pipe.ZRem(ctx, s.indexKey(), conversationID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete conversation: %w", err)
	}
	if removed.Val() == 0 {
		return models.ErrConversationNotFound
	}
	return nil
}

func (s *RedisStore) LoadTranscript(ctx context.Context, conversationID string) (models.Transcript, error) {
	raw, err := s.client.Get(ctx, s.conversationKey(conversationID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.Transcript{}, models.ErrConversationNotFound
	}
	if err != nil {
		return models.Transcript{}, fmt.Errorf("failed to load conversation: %w", err)
	}

	var rec storedConversation
	if err := json.Unmarshal(raw, &rec); err != nil {
		return models.Transcript{}, fmt.Errorf("failed to unmarshal conversation: %w", err)
	}
	return models.Transcript{ConversationID: conversationID, Turns: rec.Turns}, nil
}

func (s *RedisStore) Upsert(ctx context.Context, report models.Report) (models.Report, bool, error) {
	var (
		stored  models.Report
		created bool
		attempt int
	)

	op := func() error {
		attempt++
		var err error
		stored, created, err = s.upsertOnce(ctx, report)
		if errors.Is(err, redis.TxFailedErr) {
			s.metrics.StoreConflict("redis")
			s.logger.Warn().
				Str("conversation_id", report.ConversationID).
				Int("attempt", attempt).
				Msg("report upsert lost a race, retrying")
			return err
		}
		if err != nil {
			return backoff.Permanent(err)
		}
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 10 * time.Millisecond
	b.MaxInterval = 200 * time.Millisecond
	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(s.MaxRetries)), ctx)

	if err := backoff.Retry(op, policy); err != nil {
		if errors.Is(err, redis.TxFailedErr) {
			return models.Report{}, false, fmt.Errorf("%w: %s after %d attempts", models.ErrStoreConflict, report.ConversationID, attempt)
		}
		return models.Report{}, false, err
	}
	return stored, created, nil
}

func (s *RedisStore) upsertOnce(ctx context.Context, report models.Report) (models.Report, bool, error) {
	convKey := s.conversationKey(report.ConversationID)
	repKey := s.reportKey(report.ConversationID)
	created := false

	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		exists, err := tx.Exists(ctx, convKey).Result()
		if err != nil {
			return err
		}
		if exists == 0 {
			return fmt.Errorf("%w: %s", models.ErrConversationNotFound, report.ConversationID)
		}

		raw, err := tx.Get(ctx, repKey).Bytes()
		switch {
		case errors.Is(err, redis.Nil):
			report.ID = uuid.NewString()
			created = true
		case err != nil:
			return err
		default:
			var previous models.Report
			if err := json.Unmarshal(raw, &previous); err != nil {
				return fmt.Errorf("failed to unmarshal stored report: %w", err)
			}
			report.ID = previous.ID
		}

		payload, err := json.Marshal(report)
		if err != nil {
			return fmt.Errorf("failed to marshal report: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, repKey, payload, 0)
			pipe.ZAdd(ctx, s.indexKey(), redis.Z{
				Score:  float64(report.CreatedAt.UnixMilli()),
				Member: report.ConversationID,
			})
			return nil
		})
		return err
	}, convKey, repKey)
	if err != nil {
		return models.Report{}, false, err
	}
	return report, created, nil
}

func (s *RedisStore) Get(ctx context.Context, conversationID string) (models.Report, error) {
	raw, err := s.client.Get(ctx, s.reportKey(conversationID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.Report{}, models.ErrReportNotFound
	}
	if err != nil {
		return models.Report{}, fmt.Errorf("failed to load report: %w", err)
	}

	var report models.Report
	if err := json.Unmarshal(raw, &report); err != nil {
		return models.Report{}, fmt.Errorf("failed to unmarshal report: %w", err)
	}
	return report, nil
}

func (s *RedisStore) List(ctx context.Context) ([]models.Report, error) {
	ids, err := s.client.ZRevRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read report index: %w", err)
	}
	if len(ids) == 0 {
		return []models.Report{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.reportKey(id)
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load reports: %w", err)
	}

	reports := make([]models.Report, 0, len(values))
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			// index entry without a report, removed concurrently
			continue
		}
		var report models.Report
		if err := json.Unmarshal([]byte(raw), &report); err != nil {
			s.logger.Warn().Err(err).Str("conversation_id", ids[i]).Msg("skipping unreadable report")
			continue
		}
		reports = append(reports, report)
	}

	SortByRecency(reports)
	return reports, nil
}

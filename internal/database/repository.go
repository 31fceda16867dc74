package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/povarna/generative-ai-agents/conversation-analyzer/internal/metrics"
	"github.com/povarna/generative-ai-agents/conversation-analyzer/internal/models"
	"github.com/rs/zerolog"
)

const DefaultMaxRetries = 5

// Postgres error codes the repository reacts to.
const (
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeUniqueViolation      = "23505"
	codeForeignKeyViolation  = "23503"
)

// Repository is the Postgres-backed conversation and report store. The unique
// constraint on conversation_analyses.conversation_id keeps one report per
// conversation; contention surfaces as a retryable error code.
type Repository struct {
	db         *DB
	MaxRetries int
	metrics    *metrics.Metrics
	logger     *zerolog.Logger
	now        func() time.Time
}

func NewRepository(db *DB, maxRetries int, m *metrics.Metrics, logger *zerolog.Logger) *Repository {
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}
	return &Repository{
		db:         db,
		MaxRetries: maxRetries,
		metrics:    m,
		logger:     logger,
		now:        time.Now,
	}
}

func senderFor(role models.Role) string {
	if role == models.RoleAssistant {
		return "ai"
	}
	return "user"
}

// CreateConversation inserts the conversation and its messages in one
// transaction.
func (r *Repository) CreateConversation(ctx context.Context, title string, turns []models.Turn) (models.Conversation, error) {
	conv := models.Conversation{
		ID:        uuid.NewString(),
		Title:     title,
		CreatedAt: r.now().UTC(),
	}

	err := pgx.BeginFunc(ctx, r.db.Pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`INSERT INTO conversations (id, title, created_at) VALUES ($1, $2, $3)`,
			conv.ID, conv.Title, conv.CreatedAt,
		); err != nil {
			return fmt.Errorf("failed to insert conversation: %w", err)
		}

		batch := &pgx.Batch{}
		for _, turn := range turns {
			batch.Queue(
				`INSERT INTO messages (conversation_id, sequence_index, sender, text) VALUES ($1, $2, $3, $4)`,
				conv.ID, turn.SequenceIndex, senderFor(turn.Role), turn.Text,
			)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("failed to insert messages: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.Conversation{}, err
	}
	return conv, nil
}

// DeleteConversation removes a conversation; messages and report go with it.
func (r *Repository) DeleteConversation(ctx context.Context, conversationID string) error {
	if _, err := uuid.Parse(conversationID); err != nil {
		return models.ErrConversationNotFound
	}

	result, err := r.db.Pool.Exec(ctx, `DELETE FROM conversations WHERE id = $1`, conversationID)
	if err != nil {
		return fmt.Errorf("failed to delete conversation %s: %w", conversationID, err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrConversationNotFound
	}

	r.logger.Info().Str("conversation_id", conversationID).Msg("conversation deleted")
	return nil
}

func (r *Repository) LoadTranscript(ctx context.Context, conversationID string) (models.Transcript, error) {
	if _, err := uuid.Parse(conversationID); err != nil {
		return models.Transcript{}, models.ErrConversationNotFound
	}

	var exists bool
	if err := r.db.Pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM conversations WHERE id = $1)`, conversationID,
	).Scan(&exists); err != nil {
		return models.Transcript{}, fmt.Errorf("failed to look up conversation: %w", err)
	}
	if !exists {
		return models.Transcript{}, models.ErrConversationNotFound
	}

	rows, err := r.db.Pool.Query(ctx,
		`SELECT sequence_index, sender, text FROM messages WHERE conversation_id = $1 ORDER BY sequence_index, id`,
		conversationID,
	)
	if err != nil {
		return models.Transcript{}, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	transcript := models.Transcript{ConversationID: conversationID}
	for rows.Next() {
		var (
			turn   models.Turn
			sender string
		)
		if err := rows.Scan(&turn.SequenceIndex, &sender, &turn.Text); err != nil {
			return models.Transcript{}, fmt.Errorf("failed to scan message: %w", err)
		}
		role, ok := models.NormalizeSender(sender)
		if !ok {
			return models.Transcript{}, fmt.Errorf("%w: stored sender %q", models.ErrInvalidTranscript, sender)
		}
		turn.Role = role
		transcript.Turns = append(transcript.Turns, turn)
	}

	if err := rows.Err(); err != nil {
		return models.Transcript{}, fmt.Errorf("row iteration error: %w", err)
	}
	return transcript, nil
}

const upsertReport = `
INSERT INTO conversation_analyses (
	id, conversation_id, clarity_score, relevance_score, accuracy_score,
	completeness_score, sentiment, empathy_score, response_time_avg,
	resolution, escalation_need, fallback_frequency, overall_score, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
ON CONFLICT (conversation_id) DO UPDATE SET
	clarity_score      = EXCLUDED.clarity_score,
	relevance_score    = EXCLUDED.relevance_score,
	accuracy_score     = EXCLUDED.accuracy_score,
	completeness_score = EXCLUDED.completeness_score,
	sentiment          = EXCLUDED.sentiment,
	empathy_score      = EXCLUDED.empathy_score,
	response_time_avg  = EXCLUDED.response_time_avg,
	resolution         = EXCLUDED.resolution,
	escalation_need    = EXCLUDED.escalation_need,
	fallback_frequency = EXCLUDED.fallback_frequency,
	overall_score      = EXCLUDED.overall_score,
	created_at         = EXCLUDED.created_at
RETURNING id::text, (xmax = 0) AS created`

// Upsert writes the report with a single INSERT ... ON CONFLICT statement.
// The stored row keeps its original id when it is replaced.
func (r *Repository) Upsert(ctx context.Context, report models.Report) (models.Report, bool, error) {
	if _, err := uuid.Parse(report.ConversationID); err != nil {
		return models.Report{}, false, fmt.Errorf("%w: %s", models.ErrConversationNotFound, report.ConversationID)
	}

	var (
		created bool
		id      string
		attempt int
	)

	op := func() error {
		attempt++
		err := r.db.Pool.QueryRow(ctx, upsertReport,
			uuid.NewString(), report.ConversationID,
			report.ClarityScore, report.RelevanceScore, report.AccuracyScore,
			report.CompletenessScore, string(report.Sentiment), report.EmpathyScore,
			report.ResponseTimeAvg, report.Resolution, report.EscalationNeed,
			report.FallbackFrequency, report.OverallScore, report.CreatedAt,
		).Scan(&id, &created)
		if err == nil {
			return nil
		}
		if isConflict(err) {
			r.metrics.StoreConflict("postgres")
			r.logger.Warn().Err(err).
				Str("conversation_id", report.ConversationID).
				Int("attempt", attempt).
				Msg("report upsert conflicted, retrying")
			return err
		}
		return backoff.Permanent(translate(err, report.ConversationID))
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 10 * time.Millisecond
	b.MaxInterval = 200 * time.Millisecond
	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(r.MaxRetries)), ctx)

	if err := backoff.Retry(op, policy); err != nil {
		if isConflict(err) {
			return models.Report{}, false, fmt.Errorf("%w: %s after %d attempts: %v", models.ErrStoreConflict, report.ConversationID, attempt, err)
		}
		return models.Report{}, false, err
	}

	report.ID = id
	return report, created, nil
}

const selectReport = `
SELECT id::text, conversation_id::text, clarity_score, relevance_score, accuracy_score,
	completeness_score, sentiment, empathy_score, response_time_avg, resolution,
	escalation_need, fallback_frequency, overall_score, created_at
FROM conversation_analyses`

func scanReport(row pgx.Row) (models.Report, error) {
	var (
		report    models.Report
		sentiment string
	)
	err := row.Scan(
		&report.ID, &report.ConversationID, &report.ClarityScore, &report.RelevanceScore,
		&report.AccuracyScore, &report.CompletenessScore, &sentiment, &report.EmpathyScore,
		&report.ResponseTimeAvg, &report.Resolution, &report.EscalationNeed,
		&report.FallbackFrequency, &report.OverallScore, &report.CreatedAt,
	)
	report.Sentiment = models.Sentiment(sentiment)
	report.CreatedAt = report.CreatedAt.UTC()
	return report, err
}

func (r *Repository) Get(ctx context.Context, conversationID string) (models.Report, error) {
	if _, err := uuid.Parse(conversationID); err != nil {
		return models.Report{}, models.ErrReportNotFound
	}

	report, err := scanReport(r.db.Pool.QueryRow(ctx, selectReport+` WHERE conversation_id = $1`, conversationID))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Report{}, models.ErrReportNotFound
	}
	if err != nil {
		return models.Report{}, fmt.Errorf("failed to load report: %w", err)
	}
	return report, nil
}

func (r *Repository) List(ctx context.Context) ([]models.Report, error) {
	rows, err := r.db.Pool.Query(ctx, selectReport+` ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query reports: %w", err)
	}
	defer rows.Close()

	reports := []models.Report{}
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		reports = append(reports, report)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return reports, nil
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func isConflict(err error) bool {
	switch pgCode(err) {
	case codeSerializationFailure, codeDeadlockDetected, codeUniqueViolation:
		return true
	}
	return false
}

func translate(err error, conversationID string) error {
	if pgCode(err) == codeForeignKeyViolation {
		return fmt.Errorf("%w: %s", models.ErrConversationNotFound, conversationID)
	}
	return fmt.Errorf("failed to upsert report: %w", err)
}

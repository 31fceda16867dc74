package pipeline

//go:generate mockgen -destination=mocks/mocks.go -package=mocks . TranscriptProvider,Scorer,Aggregator,ReportStore,EscalationNotifier

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/povarna/generative-ai-agents/conversation-analyzer/internal/metrics"
	"github.com/povarna/generative-ai-agents/conversation-analyzer/internal/models"
	"github.com/rs/zerolog"
)

// TranscriptProvider loads the ordered turns of a conversation.
type TranscriptProvider interface {
	LoadTranscript(ctx context.Context, conversationID string) (models.Transcript, error)
}

// Scorer derives sub-scores from a transcript
type Scorer interface {
	Score(ctx context.Context, transcript models.Transcript) (models.SubScores, error)
}

// Aggregator assembles the rounded report and its overall score
type Aggregator interface {
	Assemble(conversationID string, scores models.SubScores, now time.Time) models.Report
}

// ReportStore keeps at most one report per conversation. Upsert replaces an
// existing report wholesale, keeps its identifier and reports whether a new
// one was created.
type ReportStore interface {
	Upsert(ctx context.Context, report models.Report) (models.Report, bool, error)
	Get(ctx context.Context, conversationID string) (models.Report, error)
	List(ctx context.Context) ([]models.Report, error)
}

// EscalationNotifier is told about stored reports that need escalation.
type EscalationNotifier interface {
	NotifyEscalation(ctx context.Context, report models.Report) error
}

type Option func(*Pipeline)

func WithNotifier(n EscalationNotifier) Option {
	return func(p *Pipeline) { p.notifier = n }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}

func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

type Pipeline struct {
	transcripts TranscriptProvider
	scorer      Scorer
	aggregator  Aggregator
	store       ReportStore
	notifier    EscalationNotifier
	metrics     *metrics.Metrics
	now         func() time.Time
	logger      *zerolog.Logger
}

func NewPipeline(
	transcripts TranscriptProvider,
	scorer Scorer,
	aggregator Aggregator,
	store ReportStore,
	logger *zerolog.Logger,
	opts ...Option,
) *Pipeline {
	p := &Pipeline{
		transcripts: transcripts,
		scorer:      scorer,
		aggregator:  aggregator,
		store:       store,
		now:         time.Now,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Analyze scores a conversation and upserts its report. It performs exactly
// one store write on success and none on failure.
func (p *Pipeline) Analyze(ctx context.Context, conversationID string) (models.AnalysisResult, error) {
	start := time.Now()
	p.logger.Info().Str("conversation_id", conversationID).Msg("starting analysis")

	result, err := p.analyze(ctx, conversationID)
	p.metrics.ObserveAnalysis(outcome(err), time.Since(start))
	if err != nil {
		p.logger.Warn().Err(err).Str("conversation_id", conversationID).Msg("analysis failed")
		return models.AnalysisResult{}, err
	}

	report := result.Report
	p.metrics.ObserveReport(report)

	if report.EscalationNeed && p.notifier != nil {
		if err := p.notifier.NotifyEscalation(ctx, report); err != nil {
			p.logger.Error().Err(err).Str("conversation_id", conversationID).Msg("failed to publish escalation")
		}
	}

	p.logger.Info().
		Str("conversation_id", conversationID).
		Str("report_id", report.ID).
		Str("sentiment", string(report.Sentiment)).
		Float64("overall_score", report.OverallScore).
		Int("fallback_count", report.FallbackFrequency).
		Bool("created", result.Created).
		Dur("duration", time.Since(start)).
		Msg("analysis complete")

	return result, nil
}

func (p *Pipeline) analyze(ctx context.Context, conversationID string) (models.AnalysisResult, error) {
	transcript, err := p.transcripts.LoadTranscript(ctx, conversationID)
	if err != nil {
		return models.AnalysisResult{}, fmt.Errorf("load transcript %s: %w", conversationID, err)
	}

	if err := transcript.Validate(); err != nil {
		return models.AnalysisResult{}, fmt.Errorf("conversation %s: %w", conversationID, err)
	}

	scores, err := p.scorer.Score(ctx, transcript)
	if err != nil {
		return models.AnalysisResult{}, fmt.Errorf("score conversation %s: %w", conversationID, err)
	}

	report := p.aggregator.Assemble(conversationID, scores, p.now().UTC())

	stored, created, err := p.store.Upsert(ctx, report)
	if err != nil {
		return models.AnalysisResult{}, fmt.Errorf("store report for %s: %w", conversationID, err)
	}

	return models.AnalysisResult{Report: stored, Created: created}, nil
}

func (p *Pipeline) GetReport(ctx context.Context, conversationID string) (models.Report, error) {
	return p.store.Get(ctx, conversationID)
}

// ListReports returns all reports, newest first.
func (p *Pipeline) ListReports(ctx context.Context) ([]models.Report, error) {
	return p.store.List(ctx)
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, models.ErrConversationNotFound):
		return "conversation_not_found"
	case errors.Is(err, models.ErrEmptyTranscript):
		return "empty_transcript"
	case errors.Is(err, models.ErrStoreConflict):
		return "store_conflict"
	default:
		return "error"
	}
}

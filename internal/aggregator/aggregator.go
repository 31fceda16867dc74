package aggregator

import (
	"math"
	"time"

	"github.com/povarna/generative-ai-agents/conversation-analyzer/internal/config"
	"github.com/povarna/generative-ai-agents/conversation-analyzer/internal/models"
	"github.com/rs/zerolog"
)

// Aggregator turns sub-scores into a report. The overall score is the weighted
// mean of clarity, relevance, accuracy, completeness and empathy; with equal
// weights it is the plain mean. Weights are non-negative and the result stays
// inside [0, 5].
type Aggregator struct {
	Weights config.Weights
	logger  *zerolog.Logger
}

func NewAggregator(weights config.Weights, logger *zerolog.Logger) *Aggregator {
	return &Aggregator{
		Weights: weights,
		logger:  logger,
	}
}

// Assemble rounds every sub-score to two decimals and derives the overall
// score from the rounded values, so a recomputation from a stored report
// yields the same number.
func (a *Aggregator) Assemble(conversationID string, scores models.SubScores, now time.Time) models.Report {
	report := models.Report{
		ConversationID:    conversationID,
		ClarityScore:      Round2(scores.Quality.Clarity),
		RelevanceScore:    Round2(scores.Quality.Relevance),
		AccuracyScore:     Round2(scores.Quality.Accuracy),
		CompletenessScore: Round2(scores.Quality.Completeness),
		Sentiment:         scores.Interaction.Sentiment,
		EmpathyScore:      Round2(scores.Interaction.Empathy),
		ResponseTimeAvg:   Round2(scores.Interaction.AvgResponseTime),
		Resolution:        scores.Resolution.Resolved,
		EscalationNeed:    scores.Resolution.NeedsEscalation && scores.Interaction.Sentiment == models.SentimentNegative,
		FallbackFrequency: scores.Ops.FallbackCount,
		CreatedAt:         now,
	}
	report.OverallScore = a.Overall(report)

	a.logger.
		Debug().
		Str("conversation_id", conversationID).
		Float64("overall_score", report.OverallScore).
		Msg("aggregation complete")

	return report
}

// Overall computes the overall score from a report's stored sub-scores.
func (a *Aggregator) Overall(r models.Report) float64 {
	w := a.Weights
	total := w.Sum()
	if total == 0 {
		return 0
	}

	weighted := r.ClarityScore*w.Clarity +
		r.RelevanceScore*w.Relevance +
		r.AccuracyScore*w.Accuracy +
		r.CompletenessScore*w.Completeness +
		r.EmpathyScore*w.Empathy

	return Round2(weighted / total)
}

func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

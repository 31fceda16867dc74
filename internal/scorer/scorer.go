package scorer

import (
	"context"

	"github.com/povarna/generative-ai-agents/conversation-analyzer/internal/models"
)

// Scorer maps a transcript onto sub-scores. Implementations must keep every
// numeric field inside the configured ranges and the sentiment inside
// models.Sentiments, and must return models.ErrEmptyTranscript for a
// transcript without turns.
type Scorer interface {
	Score(ctx context.Context, transcript models.Transcript) (models.SubScores, error)
}

// GateEscalation enforces that escalation is only signaled for negative sentiment.
func GateEscalation(sentiment models.Sentiment, escalate bool) bool {
	return escalate && sentiment == models.SentimentNegative
}

func checkTranscript(transcript models.Transcript) error {
	if len(transcript.Turns) == 0 {
		return models.ErrEmptyTranscript
	}
	return nil
}

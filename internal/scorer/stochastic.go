package scorer

import (
	"context"
	"hash/fnv"
	"math/rand/v2"

	"github.com/povarna/generative-ai-agents/conversation-analyzer/internal/config"
	"github.com/povarna/generative-ai-agents/conversation-analyzer/internal/models"
)

// StochasticScorer is the reference scorer: it samples every model-derived
// sub-score uniformly inside its range. It stands in for real text analysis
// and only exists to exercise the pipeline.
//
// Each call draws from its own source seeded by the scorer seed and a hash of
// the transcript, so the same transcript always gets the same scores no matter
// what was scored before it.
type StochasticScorer struct {
	seed     uint64
	ranges   config.Ranges
	fallback *FallbackDetector
}

func NewStochasticScorer(seed uint64, ranges config.Ranges, fallback *FallbackDetector) *StochasticScorer {
	return &StochasticScorer{
		seed:     seed,
		ranges:   ranges,
		fallback: fallback,
	}
}

func (s *StochasticScorer) Score(_ context.Context, transcript models.Transcript) (models.SubScores, error) {
	if err := checkTranscript(transcript); err != nil {
		return models.SubScores{}, err
	}

	rng := rand.New(rand.NewPCG(s.seed, transcriptHash(transcript)))
	uniform := func(r config.Range) float64 {
		return r.Min + (r.Max-r.Min)*rng.Float64()
	}

	var out models.SubScores
	out.Quality = models.QualityScores{
		Clarity:      uniform(s.ranges.Clarity),
		Relevance:    uniform(s.ranges.Relevance),
		Accuracy:     uniform(s.ranges.Accuracy),
		Completeness: uniform(s.ranges.Completeness),
	}

	sentiment := models.Sentiments[rng.IntN(len(models.Sentiments))]
	out.Interaction = models.InteractionScores{
		Sentiment:       sentiment,
		Empathy:         uniform(s.ranges.Empathy),
		AvgResponseTime: uniform(s.ranges.ResponseTime),
	}

	out.Resolution.Resolved = rng.IntN(2) == 1
	// escalation is only sampled for negative conversations
	if sentiment == models.SentimentNegative {
		out.Resolution.NeedsEscalation = GateEscalation(sentiment, rng.IntN(2) == 1)
	}

	out.Ops.FallbackCount = s.fallback.Count(transcript)
	return out, nil
}

// transcriptHash is FNV-1a over the conversation id and every turn's role and
// text, each field NUL-terminated.
func transcriptHash(transcript models.Transcript) uint64 {
	h := fnv.New64a()
	h.Write([]byte(transcript.ConversationID))
	h.Write([]byte{0})
	for _, turn := range transcript.Turns {
		h.Write([]byte(turn.Role))
		h.Write([]byte{0})
		h.Write([]byte(turn.Text))
		h.Write([]byte{0})
	}
	return h.Sum64()
}

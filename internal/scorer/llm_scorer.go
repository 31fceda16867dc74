package scorer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/povarna/generative-ai-agents/conversation-analyzer/internal/config"
	"github.com/povarna/generative-ai-agents/conversation-analyzer/internal/llm"
	"github.com/povarna/generative-ai-agents/conversation-analyzer/internal/models"
	"github.com/rs/zerolog"
)

// LLMScorer asks a hosted model to rate the conversation and clamps the answer
// into the configured ranges.
type LLMScorer struct {
	promptTemplate *template.Template
	modelConfig    config.ModelConfig
	ranges         config.Ranges
	fallback       *FallbackDetector
	llmClient      llm.LLMClient
	logger         *zerolog.Logger
}

type llmScores struct {
	Clarity         float64 `json:"clarity"`
	Relevance       float64 `json:"relevance"`
	Accuracy        float64 `json:"accuracy"`
	Completeness    float64 `json:"completeness"`
	Sentiment       string  `json:"sentiment"`
	Empathy         float64 `json:"empathy"`
	Resolved        bool    `json:"resolved"`
	NeedsEscalation bool    `json:"needs_escalation"`
}

func NewLLMScorer(
	cfg config.Scoring,
	fallback *FallbackDetector,
	llmClient llm.LLMClient,
	logger *zerolog.Logger,
) (*LLMScorer, error) {
	tmpl, err := template.New("llm-scorer").Parse(cfg.LLM.Prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse scorer prompt template: %w", err)
	}

	return &LLMScorer{
		promptTemplate: tmpl,
		modelConfig:    cfg.LLM.Model,
		ranges:         cfg.Ranges,
		fallback:       fallback,
		llmClient:      llmClient,
		logger:         logger,
	}, nil
}

func (s *LLMScorer) Score(ctx context.Context, transcript models.Transcript) (models.SubScores, error) {
	if err := checkTranscript(transcript); err != nil {
		return models.SubScores{}, err
	}

	now := time.Now()

	prompt, err := s.buildPrompt(transcript)
	if err != nil {
		return models.SubScores{}, err
	}

	request := llm.LLMRequest{
		Prompt:      prompt,
		MaxTokens:   s.modelConfig.MaxTokens,
		Temperature: s.modelConfig.Temperature,
	}

	var resp *llm.LLMResponse
	if s.modelConfig.Retry {
		resp, err = s.llmClient.InvokeModelWithRetry(ctx, request)
	} else {
		resp, err = s.llmClient.InvokeModel(ctx, request)
	}
	if err != nil {
		return models.SubScores{}, fmt.Errorf("llm scoring failed: %w", err)
	}

	var parsed llmScores
	content := stripMarkdownCodeBlock(resp.Content)
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		s.logger.Error().
			Err(err).
			Str("conversation_id", transcript.ConversationID).
			Str("content", resp.Content).
			Msg("failed to deserialize LLM response")
		return models.SubScores{}, fmt.Errorf("failed to deserialize LLM response: %w", err)
	}

	sentiment := models.Sentiment(strings.ToLower(strings.TrimSpace(parsed.Sentiment)))
	if !sentiment.Valid() {
		return models.SubScores{}, fmt.Errorf("LLM returned unknown sentiment %q", parsed.Sentiment)
	}

	out := models.SubScores{
		Quality: models.QualityScores{
			Clarity:      s.ranges.Clarity.Clamp(parsed.Clarity),
			Relevance:    s.ranges.Relevance.Clamp(parsed.Relevance),
			Accuracy:     s.ranges.Accuracy.Clamp(parsed.Accuracy),
			Completeness: s.ranges.Completeness.Clamp(parsed.Completeness),
		},
		Interaction: models.InteractionScores{
			Sentiment: sentiment,
			Empathy:   s.ranges.Empathy.Clamp(parsed.Empathy),
			// transcripts carry no timing metadata
			AvgResponseTime: s.ranges.ResponseTime.Midpoint(),
		},
		Resolution: models.ResolutionScores{
			Resolved:        parsed.Resolved,
			NeedsEscalation: GateEscalation(sentiment, parsed.NeedsEscalation),
		},
		Ops: models.OpsMetrics{
			FallbackCount: s.fallback.Count(transcript),
		},
	}

	s.logger.Debug().
		Str("conversation_id", transcript.ConversationID).
		Str("sentiment", string(sentiment)).
		Dur("duration", time.Since(now)).
		Msg("llm scoring completed")

	return out, nil
}

func (s *LLMScorer) buildPrompt(transcript models.Transcript) (string, error) {
	var buf bytes.Buffer
	if err := s.promptTemplate.Execute(&buf, transcript); err != nil {
		return "", fmt.Errorf("template execution failed: %w", err)
	}
	return buf.String(), nil
}

// stripMarkdownCodeBlock removes ```json fences around a model answer
func stripMarkdownCodeBlock(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```") {
		firstNewline := strings.Index(content, "\n")
		if firstNewline == -1 {
			return content
		}

		closingBackticks := strings.LastIndex(content, "```")
		if closingBackticks == -1 || closingBackticks <= firstNewline {
			return content
		}

		content = strings.TrimSpace(content[firstNewline+1 : closingBackticks])
	}

	return content
}

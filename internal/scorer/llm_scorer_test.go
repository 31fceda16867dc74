package scorer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/povarna/generative-ai-agents/conversation-analyzer/internal/config"
	"github.com/povarna/generative-ai-agents/conversation-analyzer/internal/llm"
	"github.com/povarna/generative-ai-agents/conversation-analyzer/internal/models"
	"github.com/rs/zerolog"
)

type MockLLMClient struct {
	ResponseToReturn *llm.LLMResponse
	ErrorToReturn    error
	WasCalled        bool
	UsedRetry        bool
	LastRequest      *llm.LLMRequest
}

func (m *MockLLMClient) InvokeModel(ctx context.Context, request llm.LLMRequest) (*llm.LLMResponse, error) {
	m.WasCalled = true
	m.LastRequest = &request
	if m.ErrorToReturn != nil {
		return nil, m.ErrorToReturn
	}
	return m.ResponseToReturn, nil
}

func (m *MockLLMClient) InvokeModelWithRetry(ctx context.Context, request llm.LLMRequest) (*llm.LLMResponse, error) {
	m.UsedRetry = true
	return m.InvokeModel(ctx, request)
}

func newLLMScorer(t *testing.T, client llm.LLMClient, retry bool) *LLMScorer {
	t.Helper()
	logger := zerolog.Nop()
	cfg := config.Default().Scoring
	cfg.LLM.Model.Retry = retry

	s, err := NewLLMScorer(cfg, NewFallbackDetector(cfg.FallbackPhrases), client, &logger)
	if err != nil {
		t.Fatalf("NewLLMScorer failed: %v", err)
	}
	return s
}

func TestLLMScorer_Score_Success(t *testing.T) {
	client := &MockLLMClient{ResponseToReturn: &llm.LLMResponse{
		Content: "```json\n{\"clarity\": 4.5, \"relevance\": 9, \"accuracy\": 1, \"completeness\": 4.2, \"sentiment\": \"Negative\", \"empathy\": 3.3, \"resolved\": false, \"needs_escalation\": true}\n```",
	}}
	s := newLLMScorer(t, client, true)
	tr := transcriptOf(user("my order is lost"), assistant("I'm not sure where it is"))

	out, err := s.Score(context.Background(), tr)
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}

	if !client.UsedRetry {
		t.Error("Expected retry path to be used")
	}
	if !strings.Contains(client.LastRequest.Prompt, "[user] my order is lost") {
		t.Errorf("Prompt does not contain the transcript: %s", client.LastRequest.Prompt)
	}
	if out.Quality.Clarity != 4.5 {
		t.Errorf("Expected clarity 4.5, got %v", out.Quality.Clarity)
	}
	// out of range values are clamped
	if out.Quality.Relevance != 5.0 || out.Quality.Accuracy != 3.0 {
		t.Errorf("Expected clamped relevance 5 and accuracy 3, got %v and %v", out.Quality.Relevance, out.Quality.Accuracy)
	}
	if out.Interaction.Sentiment != models.SentimentNegative || !out.Resolution.NeedsEscalation {
		t.Errorf("Expected negative sentiment with escalation, got %+v", out)
	}
	if out.Interaction.AvgResponseTime != config.DefaultRanges.ResponseTime.Midpoint() {
		t.Errorf("Expected midpoint response time, got %v", out.Interaction.AvgResponseTime)
	}
	if out.Ops.FallbackCount != 1 {
		t.Errorf("Expected fallback count 1, got %d", out.Ops.FallbackCount)
	}
}

func TestLLMScorer_Score_GatesEscalation(t *testing.T) {
	client := &MockLLMClient{ResponseToReturn: &llm.LLMResponse{
		Content: `{"clarity": 4, "relevance": 4, "accuracy": 4, "completeness": 4.5, "sentiment": "positive", "empathy": 4, "resolved": true, "needs_escalation": true}`,
	}}
	s := newLLMScorer(t, client, false)

	out, err := s.Score(context.Background(), transcriptOf(user("thanks"), assistant("you're welcome")))
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	if client.UsedRetry {
		t.Error("Expected plain invoke when retry disabled")
	}
	if out.Resolution.NeedsEscalation {
		t.Error("Escalation must be suppressed for positive sentiment")
	}
}

func TestLLMScorer_Score_Errors(t *testing.T) {
	tests := []struct {
		name   string
		client *MockLLMClient
		tr     models.Transcript
		want   string
	}{
		{
			name:   "empty transcript",
			client: &MockLLMClient{},
			tr:     models.Transcript{ConversationID: "c"},
			want:   models.ErrEmptyTranscript.Error(),
		},
		{
			name:   "llm failure",
			client: &MockLLMClient{ErrorToReturn: errors.New("boom")},
			tr:     transcriptOf(user("hi")),
			want:   "llm scoring failed",
		},
		{
			name:   "invalid json",
			client: &MockLLMClient{ResponseToReturn: &llm.LLMResponse{Content: "not json"}},
			tr:     transcriptOf(user("hi")),
			want:   "failed to deserialize",
		},
		{
			name:   "unknown sentiment",
			client: &MockLLMClient{ResponseToReturn: &llm.LLMResponse{Content: `{"sentiment": "angry"}`}},
			tr:     transcriptOf(user("hi")),
			want:   "unknown sentiment",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newLLMScorer(t, tt.client, false).Score(context.Background(), tt.tr)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestNewLLMScorer_InvalidTemplate(t *testing.T) {
	logger := zerolog.Nop()
	cfg := config.Default().Scoring
	cfg.LLM.Prompt = "{{.Invalid"

	if _, err := NewLLMScorer(cfg, NewFallbackDetector(nil), &MockLLMClient{}, &logger); err == nil {
		t.Error("Expected error for invalid template")
	}
}

func TestStripMarkdownCodeBlock(t *testing.T) {
	if got := stripMarkdownCodeBlock("```json\n{\"a\":1}\n```"); got != `{"a":1}` {
		t.Errorf("unexpected %q", got)
	}
	if got := stripMarkdownCodeBlock(`  {"a":1} `); got != `{"a":1}` {
		t.Errorf("unexpected %q", got)
	}
}

package mcpadapter

import (
	"context"
	"errors"
	"testing"

	"github.com/povarna/generative-ai-agents/conversation-analyzer/internal/aggregator"
	"github.com/povarna/generative-ai-agents/conversation-analyzer/internal/config"
	"github.com/povarna/generative-ai-agents/conversation-analyzer/internal/ingest"
	"github.com/povarna/generative-ai-agents/conversation-analyzer/internal/models"
	"github.com/povarna/generative-ai-agents/conversation-analyzer/internal/pipeline"
	"github.com/povarna/generative-ai-agents/conversation-analyzer/internal/scorer"
	"github.com/povarna/generative-ai-agents/conversation-analyzer/internal/store"
	"github.com/rs/zerolog"
)

func newTestDeps(t *testing.T) (*pipeline.Pipeline, *ingest.Service) {
	t.Helper()
	logger := zerolog.Nop()
	cfg := config.Default()
	mem := store.NewMemoryStore()
	sc := scorer.NewStochasticScorer(3, cfg.Scoring.Ranges, scorer.NewFallbackDetector(cfg.Scoring.FallbackPhrases))
	agg := aggregator.NewAggregator(cfg.Scoring.Weights, &logger)
	return pipeline.NewPipeline(mem, sc, agg, mem, &logger), ingest.NewService(mem, &logger)
}

func TestTools_UploadAnalyzeAndList(t *testing.T) {
	ctx := context.Background()
	p, svc := newTestDeps(t)

	_, uploaded, err := NewUploadHandler(svc)(ctx, nil, UploadInput{Messages: []models.UploadMessage{
		{Sender: "user", Message: "Is my refund processed?"},
		{Sender: "ai", Message: "I'm not sure, let me check."},
	}})
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}

	_, analyzed, err := NewAnalyzeHandler(p)(ctx, nil, ConversationInput{ConversationID: uploaded.ConversationID})
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}
	if !analyzed.Created || analyzed.Report.FallbackFrequency != 1 {
		t.Errorf("unexpected analysis output: %+v", analyzed)
	}

	_, report, err := NewGetReportHandler(p)(ctx, nil, ConversationInput{ConversationID: uploaded.ConversationID})
	if err != nil {
		t.Fatalf("get report failed: %v", err)
	}
	if report.ID != analyzed.Report.ID || report.CreatedAt == "" {
		t.Errorf("unexpected report: %+v", report)
	}

	_, list, err := NewListReportsHandler(p)(ctx, nil, ListReportsInput{})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(list.Reports) != 1 {
		t.Errorf("expected 1 report, got %d", len(list.Reports))
	}
}

func TestTools_Errors(t *testing.T) {
	ctx := context.Background()
	p, svc := newTestDeps(t)

	if _, _, err := NewAnalyzeHandler(p)(ctx, nil, ConversationInput{ConversationID: "nope"}); !errors.Is(err, models.ErrConversationNotFound) {
		t.Errorf("expected ErrConversationNotFound, got %v", err)
	}
	if _, _, err := NewGetReportHandler(p)(ctx, nil, ConversationInput{ConversationID: "nope"}); !errors.Is(err, models.ErrReportNotFound) {
		t.Errorf("expected ErrReportNotFound, got %v", err)
	}
	if _, _, err := NewUploadHandler(svc)(ctx, nil, UploadInput{}); !errors.Is(err, models.ErrInvalidUpload) {
		t.Errorf("expected ErrInvalidUpload, got %v", err)
	}
}

func TestNewServer(t *testing.T) {
	p, svc := newTestDeps(t)
	if NewServer(p, svc) == nil {
		t.Fatal("expected server")
	}
}

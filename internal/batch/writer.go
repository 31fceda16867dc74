package batch

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/povarna/generative-ai-agents/conversation-analyzer/internal/aggregator"
	"github.com/povarna/generative-ai-agents/conversation-analyzer/internal/models"
	"github.com/rs/zerolog"
)

const (
	FormatJSONL   = "jsonl"
	FormatSummary = "summary"
)

type Summary struct {
	Total        int                      `json:"total"`
	Succeeded    int                      `json:"succeeded"`
	Failed       int                      `json:"failed"`
	AvgOverall   float64                  `json:"avg_overall_score"`
	Escalations  int                      `json:"escalations"`
	Fallbacks    int                      `json:"fallbacks"`
	BySentiment  map[models.Sentiment]int `json:"by_sentiment"`
	overallTotal float64
}

func (s *Summary) Add(r Result) {
	s.Total++
	if r.Report == nil {
		s.Failed++
		return
	}

	s.Succeeded++
	s.overallTotal += r.Report.OverallScore
	s.AvgOverall = aggregator.Round2(s.overallTotal / float64(s.Succeeded))
	s.Fallbacks += r.Report.FallbackFrequency
	if r.Report.EscalationNeed {
		s.Escalations++
	}
	s.BySentiment[r.Report.Sentiment]++
}

func NewSummary() *Summary {
	return &Summary{BySentiment: make(map[models.Sentiment]int)}
}

// Writer emits one JSON line per result, or a single summary on Close.
type Writer struct {
	out     io.Writer
	format  string
	encoder *json.Encoder
	summary *Summary
	logger  *zerolog.Logger
}

func NewWriter(out io.Writer, format string, logger *zerolog.Logger) (*Writer, error) {
	if format != FormatJSONL && format != FormatSummary {
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
	return &Writer{
		out:     out,
		format:  format,
		encoder: json.NewEncoder(out),
		summary: NewSummary(),
		logger:  logger,
	}, nil
}

func (w *Writer) Write(r Result) error {
	w.summary.Add(r)
	if w.format != FormatJSONL {
		return nil
	}
	if err := w.encoder.Encode(r); err != nil {
		return fmt.Errorf("failed to write result for line %d: %w", r.LineNumber, err)
	}
	return nil
}

func (w *Writer) Summary() *Summary {
	return w.summary
}

func (w *Writer) Close() error {
	if w.format != FormatSummary {
		return nil
	}

	enc := json.NewEncoder(w.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(w.summary); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	w.logger.Info().Int("total", w.summary.Total).Msg("Summary written")
	return nil
}

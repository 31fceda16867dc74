package batch

import (
	"context"
	"sync"

	"github.com/povarna/generative-ai-agents/conversation-analyzer/internal/models"
	"github.com/rs/zerolog"
)

type Uploader interface {
	Upload(ctx context.Context, messages []models.UploadMessage) (models.Conversation, error)
}

type Analyzer interface {
	Analyze(ctx context.Context, conversationID string) (models.AnalysisResult, error)
}

// Result is the outcome of one input line.
type Result struct {
	LineNumber     int            `json:"line"`
	ConversationID string         `json:"conversation_id,omitempty"`
	Report         *models.Report `json:"report,omitempty"`
	Error          string         `json:"error,omitempty"`
}

type Processor struct {
	uploader Uploader
	analyzer Analyzer
	workers  int
	logger   *zerolog.Logger
}

func NewProcessor(uploader Uploader, analyzer Analyzer, workers int, logger *zerolog.Logger) *Processor {
	if workers <= 0 {
		workers = 1
	}
	return &Processor{
		uploader: uploader,
		analyzer: analyzer,
		workers:  workers,
		logger:   logger,
	}
}

// Process ingests and analyzes records on a fixed pool of workers. Results
// arrive in completion order.
func (p *Processor) Process(ctx context.Context, records []InputRecord) <-chan Result {
	jobs := make(chan InputRecord)
	results := make(chan Result)

	var wg sync.WaitGroup
	for range p.workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for record := range jobs {
				select {
				case results <- p.processOne(ctx, record):
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, record := range records {
			select {
			case jobs <- record:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

func (p *Processor) processOne(ctx context.Context, record InputRecord) Result {
	result := Result{LineNumber: record.LineNumber}
	if record.Error != nil {
		result.Error = record.Error.Error()
		return result
	}

	conv, err := p.uploader.Upload(ctx, record.Line.Conversation)
	if err != nil {
		p.logger.Warn().Err(err).Int("line", record.LineNumber).Msg("Failed to store conversation")
		result.Error = err.Error()
		return result
	}
	result.ConversationID = conv.ID

	analysis, err := p.analyzer.Analyze(ctx, conv.ID)
	if err != nil {
		p.logger.Warn().Err(err).Int("line", record.LineNumber).Str("conversation_id", conv.ID).Msg("Analysis failed")
		result.Error = err.Error()
		return result
	}

	report := analysis.Report
	result.Report = &report
	return result
}

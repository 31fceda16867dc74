package batch

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/povarna/generative-ai-agents/conversation-analyzer/internal/ingest"
	"github.com/povarna/generative-ai-agents/conversation-analyzer/internal/models"
	"github.com/rs/zerolog"
)

const maxLineSize = 4 * 1024 * 1024

// ConversationLine is one JSONL input line.
type ConversationLine struct {
	Conversation []models.UploadMessage `json:"conversation"`
}

type InputRecord struct {
	LineNumber int
	Line       ConversationLine
	Error      error
}

type Reader struct {
	input  io.Reader
	logger *zerolog.Logger
}

func NewReader(input io.Reader, logger *zerolog.Logger) *Reader {
	return &Reader{input: input, logger: logger}
}

// ReadAll streams parsed lines until the input ends or ctx is canceled.
// Blank lines are skipped; malformed lines are emitted with Error set.
func (r *Reader) ReadAll(ctx context.Context) <-chan InputRecord {
	out := make(chan InputRecord)

	go func() {
		defer close(out)

		scanner := bufio.NewScanner(r.input)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

		lineNumber := 0
		for scanner.Scan() {
			lineNumber++
			text := strings.TrimSpace(scanner.Text())
			if text == "" {
				continue
			}

			record := InputRecord{LineNumber: lineNumber}
			if err := json.Unmarshal([]byte(text), &record.Line); err != nil {
				record.Error = fmt.Errorf("line %d: invalid JSON: %w", lineNumber, err)
			} else if _, err := ingest.ToTurns(record.Line.Conversation); err != nil {
				record.Error = fmt.Errorf("line %d: %w", lineNumber, err)
			}

			select {
			case out <- record:
			case <-ctx.Done():
				return
			}
		}

		if err := scanner.Err(); err != nil {
			r.logger.Error().Err(err).Int("line", lineNumber).Msg("Failed to read input")
			select {
			case out <- InputRecord{LineNumber: lineNumber + 1, Error: err}:
			case <-ctx.Done():
			}
		}
	}()

	return out
}

package ingest

import (
	"context"
	"fmt"
	"strings"

	"github.com/povarna/generative-ai-agents/conversation-analyzer/internal/models"
	"github.com/rs/zerolog"
)

const (
	titlePrefix   = "Chat on "
	titleMaxRunes = 50
	fallbackTitle = "Untitled chat"
)

// ConversationWriter persists a new conversation with its ordered turns.
type ConversationWriter interface {
	CreateConversation(ctx context.Context, title string, turns []models.Turn) (models.Conversation, error)
}

type Service struct {
	writer ConversationWriter
	logger *zerolog.Logger
}

func NewService(writer ConversationWriter, logger *zerolog.Logger) *Service {
	return &Service{writer: writer, logger: logger}
}

// Upload validates the submitted messages and stores them as a new
// conversation. Message order is kept as the turn order.
func (s *Service) Upload(ctx context.Context, messages []models.UploadMessage) (models.Conversation, error) {
	turns, err := ToTurns(messages)
	if err != nil {
		return models.Conversation{}, err
	}

	conv, err := s.writer.CreateConversation(ctx, Title(messages), turns)
	if err != nil {
		return models.Conversation{}, fmt.Errorf("failed to create conversation: %w", err)
	}

	s.logger.Info().
		Str("conversation_id", conv.ID).
		Int("turns", len(turns)).
		Msg("conversation uploaded")
	return conv, nil
}

// ToTurns converts upload messages into transcript turns.
func ToTurns(messages []models.UploadMessage) ([]models.Turn, error) {
	if len(messages) == 0 {
		return nil, fmt.Errorf("%w: at least one message is required", models.ErrInvalidUpload)
	}

	turns := make([]models.Turn, 0, len(messages))
	for i, m := range messages {
		role, ok := models.NormalizeSender(m.Sender)
		if !ok {
			return nil, fmt.Errorf("%w: message %d has unknown sender %q", models.ErrInvalidUpload, i, m.Sender)
		}
		if strings.TrimSpace(m.Message) == "" {
			return nil, fmt.Errorf("%w: message %d is empty", models.ErrInvalidUpload, i)
		}
		turns = append(turns, models.Turn{Role: role, Text: m.Message, SequenceIndex: i})
	}
	return turns, nil
}

// Title names a conversation after the first 50 characters of its opening
// message.
func Title(messages []models.UploadMessage) string {
	if len(messages) == 0 {
		return fallbackTitle
	}
	first := []rune(strings.TrimSpace(messages[0].Message))
	if len(first) == 0 {
		return fallbackTitle
	}
	if len(first) > titleMaxRunes {
		first = first[:titleMaxRunes]
	}
	return titlePrefix + string(first)
}

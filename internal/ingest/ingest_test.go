package ingest

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/povarna/generative-ai-agents/conversation-analyzer/internal/models"
	"github.com/povarna/generative-ai-agents/conversation-analyzer/internal/store"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}

func TestToTurns(t *testing.T) {
	tests := []struct {
		name     string
		messages []models.UploadMessage
		wantErr  string
	}{
		{name: "empty upload", messages: nil, wantErr: "at least one message"},
		{
			name:     "unknown sender",
			messages: []models.UploadMessage{{Sender: "bot", Message: "hi"}},
			wantErr:  "unknown sender",
		},
		{
			name:     "assistant is not an upload sender",
			messages: []models.UploadMessage{{Sender: "assistant", Message: "hi"}},
			wantErr:  "unknown sender",
		},
		{
			name:     "sender is case sensitive",
			messages: []models.UploadMessage{{Sender: "AI", Message: "hi"}},
			wantErr:  "unknown sender",
		},
		{
			name:     "sender is not trimmed",
			messages: []models.UploadMessage{{Sender: " User ", Message: "hi"}},
			wantErr:  "unknown sender",
		},
		{
			name:     "blank message",
			messages: []models.UploadMessage{{Sender: "user", Message: "  "}},
			wantErr:  "is empty",
		},
		{
			name: "valid upload",
			messages: []models.UploadMessage{
				{Sender: "user", Message: "where is my parcel?"},
				{Sender: "ai", Message: "It ships tomorrow."},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			turns, err := ToTurns(tt.messages)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.ErrorIs(t, err, models.ErrInvalidUpload)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Len(t, turns, 2)
			assert.Equal(t, models.RoleUser, turns[0].Role)
			assert.Equal(t, models.RoleAssistant, turns[1].Role)
			assert.Equal(t, 1, turns[1].SequenceIndex)
		})
	}
}

func TestTitle(t *testing.T) {
	long := strings.Repeat("é", 80)
	assert.Equal(t, "Chat on "+strings.Repeat("é", 50), Title([]models.UploadMessage{{Sender: "user", Message: long}}))
	assert.Equal(t, "Chat on hi", Title([]models.UploadMessage{{Sender: "user", Message: "hi"}}))
	assert.Equal(t, fallbackTitle, Title(nil))
}

func TestService_Upload(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	svc := NewService(mem, testLogger())

	conv, err := svc.Upload(ctx, []models.UploadMessage{
		{Sender: "user", Message: "why?"},
		{Sender: "ai", Message: "I don't know"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Chat on why?", conv.Title)

	transcript, err := mem.LoadTranscript(ctx, conv.ID)
	require.NoError(t, err)
	assert.Len(t, transcript.Turns, 2)

	_, err = svc.Upload(ctx, nil)
	assert.True(t, errors.Is(err, models.ErrInvalidUpload))
}

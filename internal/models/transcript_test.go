package models

import (
	"errors"
	"testing"
)

func TestTranscript_Validate(t *testing.T) {
	tests := []struct {
		name    string
		turns   []Turn
		wantErr error
	}{
		{
			name:    "empty transcript",
			turns:   nil,
			wantErr: ErrEmptyTranscript,
		},
		{
			name: "valid transcript",
			turns: []Turn{
				{Role: RoleUser, Text: "hi", SequenceIndex: 0},
				{Role: RoleAssistant, Text: "hello", SequenceIndex: 1},
			},
		},
		{
			name: "unknown role",
			turns: []Turn{
				{Role: "ai", Text: "hi", SequenceIndex: 0},
			},
			wantErr: ErrInvalidTranscript,
		},
		{
			name: "sequence not increasing",
			turns: []Turn{
				{Role: RoleUser, Text: "a", SequenceIndex: 2},
				{Role: RoleAssistant, Text: "b", SequenceIndex: 2},
			},
			wantErr: ErrInvalidTranscript,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Transcript{ConversationID: "c1", Turns: tt.turns}.Validate()
			if tt.wantErr == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestTranscript_AssistantTurns(t *testing.T) {
	tr := Transcript{Turns: []Turn{
		{Role: RoleUser, Text: "why?", SequenceIndex: 0},
		{Role: RoleAssistant, Text: "because", SequenceIndex: 1},
		{Role: RoleAssistant, Text: "ok", SequenceIndex: 2},
	}}

	if got := len(tr.AssistantTurns()); got != 2 {
		t.Errorf("expected 2 assistant turns, got %d", got)
	}
}

func TestNormalizeSender(t *testing.T) {
	for sender, want := range map[string]Role{"user": RoleUser, "ai": RoleAssistant} {
		got, ok := NormalizeSender(sender)
		if !ok || got != want {
			t.Errorf("NormalizeSender(%q) = %q, %v", sender, got, ok)
		}
	}
	for _, sender := range []string{"bot", "assistant", "AI", " User ", "user ", ""} {
		if _, ok := NormalizeSender(sender); ok {
			t.Errorf("expected %q to be rejected", sender)
		}
	}
}

package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/povarna/generative-ai-agents/conversation-analyzer/internal/models"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
		wantCode   string
	}{
		{fmt.Errorf("load: %w", models.ErrConversationNotFound), http.StatusNotFound, CodeConversationNotFound},
		{models.ErrEmptyTranscript, http.StatusUnprocessableEntity, CodeEmptyTranscript},
		{models.ErrReportNotFound, http.StatusNotFound, CodeReportNotFound},
		{fmt.Errorf("store: %w", models.ErrStoreConflict), http.StatusServiceUnavailable, CodeStoreConflict},
		{models.ErrInvalidUpload, http.StatusBadRequest, CodeInvalidUpload},
		{errors.New("boom"), http.StatusInternalServerError, CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.wantCode, func(t *testing.T) {
			status, code := StatusFor(tt.err)
			if status != tt.wantStatus || code != tt.wantCode {
				t.Errorf("StatusFor(%v) = %d %s, want %d %s", tt.err, status, code, tt.wantStatus, tt.wantCode)
			}
		})
	}
}

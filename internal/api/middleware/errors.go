package middleware

import (
	"errors"
	"net/http"

	"github.com/emicklei/go-restful/v3"
	"github.com/povarna/generative-ai-agents/conversation-analyzer/internal/models"
	"github.com/rs/zerolog/log"
)

// Stable error codes returned to API clients.
const (
	CodeConversationNotFound = "conversation_not_found"
	CodeEmptyTranscript      = "empty_transcript"
	CodeReportNotFound       = "report_not_found"
	CodeStoreConflict        = "store_conflict"
	CodeInvalidUpload        = "invalid_upload"
	CodeBadRequest           = "bad_request"
	CodeInternal             = "internal"
)

type ErrorResponse struct {
	Error   string `json:"error" description:"Error message"`
	Code    string `json:"code" description:"Stable error code"`
	Details string `json:"details,omitempty" description:"Additional error details"`
}

// StatusFor maps a domain error onto its HTTP status and error code.
func StatusFor(err error) (int, string) {
	switch {
	case errors.Is(err, models.ErrConversationNotFound):
		return http.StatusNotFound, CodeConversationNotFound
	case errors.Is(err, models.ErrEmptyTranscript):
		return http.StatusUnprocessableEntity, CodeEmptyTranscript
	case errors.Is(err, models.ErrReportNotFound):
		return http.StatusNotFound, CodeReportNotFound
	case errors.Is(err, models.ErrStoreConflict):
		return http.StatusServiceUnavailable, CodeStoreConflict
	case errors.Is(err, models.ErrInvalidUpload):
		return http.StatusBadRequest, CodeInvalidUpload
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}

// HandleError writes err with an explicit status.
func HandleError(resp *restful.Response, err error, status int) {
	code := CodeInternal
	if status == http.StatusBadRequest {
		code = CodeBadRequest
	}
	writeError(resp, err, status, code)
}

// HandleDomainError derives the status and code from err.
func HandleDomainError(resp *restful.Response, err error) {
	status, code := StatusFor(err)
	writeError(resp, err, status, code)
}

func writeError(resp *restful.Response, err error, status int, code string) {
	body := ErrorResponse{
		Error: http.StatusText(status),
		Code:  code,
	}
	if err != nil {
		body.Details = err.Error()
	}
	// internal details stay in the logs
	if status >= http.StatusInternalServerError && code == CodeInternal {
		body.Details = ""
	}

	if writeErr := resp.WriteHeaderAndEntity(status, body); writeErr != nil {
		log.Error().Err(writeErr).Msg("failed to write error response")
	}
}

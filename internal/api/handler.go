package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/emicklei/go-restful/v3"
	"github.com/povarna/generative-ai-agents/conversation-analyzer/internal/api/middleware"
	"github.com/povarna/generative-ai-agents/conversation-analyzer/internal/export"
	"github.com/povarna/generative-ai-agents/conversation-analyzer/internal/models"
	"github.com/rs/zerolog"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Analyzer interface {
	Analyze(ctx context.Context, conversationID string) (models.AnalysisResult, error)
	GetReport(ctx context.Context, conversationID string) (models.Report, error)
	ListReports(ctx context.Context) ([]models.Report, error)
}

type Uploader interface {
	Upload(ctx context.Context, messages []models.UploadMessage) (models.Conversation, error)
}

type ConversationDeleter interface {
	DeleteConversation(ctx context.Context, conversationID string) error
}

type Handler struct {
	analyzer Analyzer
	uploader Uploader
	deleter  ConversationDeleter
	logger   *zerolog.Logger
}

func NewHandler(analyzer Analyzer, uploader Uploader, deleter ConversationDeleter, logger *zerolog.Logger) *Handler {
	return &Handler{
		analyzer: analyzer,
		uploader: uploader,
		deleter:  deleter,
		logger:   logger,
	}
}

// POST /api/v1/conversations
// Body: [{"sender": "user|ai", "message": "..."}]
func (h *Handler) UploadConversation(req *restful.Request, resp *restful.Response) {
	var messages []models.UploadMessage
	if err := req.ReadEntity(&messages); err != nil {
		h.logger.Error().Err(err).Msg("Failed to parse request body")
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}

	conv, err := h.uploader.Upload(req.Request.Context(), messages)
	if err != nil {
		h.logger.Warn().Err(err).Msg("Upload rejected")
		middleware.HandleDomainError(resp, err)
		return
	}

	resp.WriteHeaderAndEntity(http.StatusCreated, UploadResponse{
		Message:        "Conversation uploaded successfully",
		ConversationID: conv.ID,
	})
}

// POST /api/v1/analyse/{conversation_id}
// Returns 201 when a report was created, 200 when it was replaced.
func (h *Handler) TriggerAnalysis(req *restful.Request, resp *restful.Response) {
	conversationID := req.PathParameter("conversation_id")

	result, err := h.analyzer.Analyze(req.Request.Context(), conversationID)
	if err != nil {
		middleware.HandleDomainError(resp, err)
		return
	}

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}

	resp.WriteHeaderAndEntity(status, AnalyseResponse{
		Message:    fmt.Sprintf("Analysis completed for conversation %s", conversationID),
		AnalysisID: result.Report.ID,
		Created:    result.Created,
	})
}

// GET /api/v1/reports
func (h *Handler) ListReports(req *restful.Request, resp *restful.Response) {
	reports, err := h.analyzer.ListReports(req.Request.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list reports")
		middleware.HandleDomainError(resp, err)
		return
	}

	resp.WriteHeaderAndEntity(http.StatusOK, reports)
}

// GET /api/v1/reports/{conversation_id}
func (h *Handler) GetReport(req *restful.Request, resp *restful.Response) {
	report, err := h.analyzer.GetReport(req.Request.Context(), req.PathParameter("conversation_id"))
	if err != nil {
		middleware.HandleDomainError(resp, err)
		return
	}

	resp.WriteHeaderAndEntity(http.StatusOK, report)
}

// GET /api/v1/reports/export.xlsx
func (h *Handler) ExportReports(req *restful.Request, resp *restful.Response) {
	reports, err := h.analyzer.ListReports(req.Request.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list reports for export")
		middleware.HandleDomainError(resp, err)
		return
	}

	resp.Header().Set("Content-Type", xlsxContentType)
	resp.Header().Set("Content-Disposition", `attachment; filename="reports.xlsx"`)
	resp.WriteHeader(http.StatusOK)
	if err := export.WriteReports(resp, reports); err != nil {
		h.logger.Error().Err(err).Msg("Failed to write report export")
	}
}

// DELETE /api/v1/conversations/{conversation_id}
func (h *Handler) DeleteConversation(req *restful.Request, resp *restful.Response) {
	conversationID := req.PathParameter("conversation_id")
	if err := h.deleter.DeleteConversation(req.Request.Context(), conversationID); err != nil {
		middleware.HandleDomainError(resp, err)
		return
	}

	h.logger.Info().Str("conversation_id", conversationID).Msg("Conversation deleted")
	resp.WriteHeader(http.StatusNoContent)
}

// Health handler GET API /api/v1/health
func (h *Handler) Health(req *restful.Request, resp *restful.Response) {
	resp.WriteHeaderAndEntity(http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: "1.0.0",
	})
}

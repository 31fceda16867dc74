package mcpadapter

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/povarna/generative-ai-agents/conversation-analyzer/internal/models"
)

type Analyzer interface {
	Analyze(ctx context.Context, conversationID string) (models.AnalysisResult, error)
	GetReport(ctx context.Context, conversationID string) (models.Report, error)
	ListReports(ctx context.Context) ([]models.Report, error)
}

type Uploader interface {
	Upload(ctx context.Context, messages []models.UploadMessage) (models.Conversation, error)
}

type UploadInput struct {
	Messages []models.UploadMessage `json:"messages" jsonschema:"ordered chat messages, sender is user or ai"`
}

type UploadOutput struct {
	ConversationID string `json:"conversation_id"`
	Title          string `json:"title"`
}

type ConversationInput struct {
	ConversationID string `json:"conversation_id" jsonschema:"conversation identifier"`
}

type ListReportsInput struct{}

// ReportView is the tool-facing shape of a report.
type ReportView struct {
	ID                string  `json:"id"`
	ConversationID    string  `json:"conversation"`
	ClarityScore      float64 `json:"clarity_score"`
	RelevanceScore    float64 `json:"relevance_score"`
	AccuracyScore     float64 `json:"accuracy_score"`
	CompletenessScore float64 `json:"completeness_score"`
	Sentiment         string  `json:"sentiment"`
	EmpathyScore      float64 `json:"empathy_score"`
	ResponseTimeAvg   float64 `json:"response_time_avg"`
	Resolution        bool    `json:"resolution"`
	EscalationNeed    bool    `json:"escalation_need"`
	FallbackFrequency int     `json:"fallback_frequency"`
	OverallScore      float64 `json:"overall_score"`
	CreatedAt         string  `json:"created_at"`
}

type AnalyzeOutput struct {
	Report  ReportView `json:"report"`
	Created bool       `json:"created"`
}

type ReportList struct {
	Reports []ReportView `json:"reports"`
}

func toView(r models.Report) ReportView {
	return ReportView{
		ID:                r.ID,
		ConversationID:    r.ConversationID,
		ClarityScore:      r.ClarityScore,
		RelevanceScore:    r.RelevanceScore,
		AccuracyScore:     r.AccuracyScore,
		CompletenessScore: r.CompletenessScore,
		Sentiment:         string(r.Sentiment),
		EmpathyScore:      r.EmpathyScore,
		ResponseTimeAvg:   r.ResponseTimeAvg,
		Resolution:        r.Resolution,
		EscalationNeed:    r.EscalationNeed,
		FallbackFrequency: r.FallbackFrequency,
		OverallScore:      r.OverallScore,
		CreatedAt:         r.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// NewUploadHandler returns a tool handler that stores a conversation.
// Pass the returned function to mcp.AddTool.
func NewUploadHandler(uploader Uploader) func(context.Context, *mcp.CallToolRequest, UploadInput) (*mcp.CallToolResult, UploadOutput, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input UploadInput) (*mcp.CallToolResult, UploadOutput, error) {
		conv, err := uploader.Upload(ctx, input.Messages)
		if err != nil {
			return nil, UploadOutput{}, err
		}
		return nil, UploadOutput{ConversationID: conv.ID, Title: conv.Title}, nil
	}
}

func NewAnalyzeHandler(analyzer Analyzer) func(context.Context, *mcp.CallToolRequest, ConversationInput) (*mcp.CallToolResult, AnalyzeOutput, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ConversationInput) (*mcp.CallToolResult, AnalyzeOutput, error) {
		result, err := analyzer.Analyze(ctx, input.ConversationID)
		if err != nil {
			return nil, AnalyzeOutput{}, err
		}
		return nil, AnalyzeOutput{Report: toView(result.Report), Created: result.Created}, nil
	}
}

func NewGetReportHandler(analyzer Analyzer) func(context.Context, *mcp.CallToolRequest, ConversationInput) (*mcp.CallToolResult, ReportView, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ConversationInput) (*mcp.CallToolResult, ReportView, error) {
		report, err := analyzer.GetReport(ctx, input.ConversationID)
		if err != nil {
			return nil, ReportView{}, err
		}
		return nil, toView(report), nil
	}
}

func NewListReportsHandler(analyzer Analyzer) func(context.Context, *mcp.CallToolRequest, ListReportsInput) (*mcp.CallToolResult, ReportList, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ ListReportsInput) (*mcp.CallToolResult, ReportList, error) {
		reports, err := analyzer.ListReports(ctx)
		if err != nil {
			return nil, ReportList{}, err
		}
		views := make([]ReportView, 0, len(reports))
		for _, r := range reports {
			views = append(views, toView(r))
		}
		return nil, ReportList{Reports: views}, nil
	}
}

// NewServer registers every analyzer tool on a fresh MCP server.
func NewServer(analyzer Analyzer, uploader Uploader) *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "conversation-analyzer",
			Version: "1.0.0",
		}, nil,
	)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "upload_conversation",
		Description: "Store a chat conversation given as an ordered list of {sender, message} objects",
	}, NewUploadHandler(uploader))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "analyze_conversation",
		Description: "Score a stored conversation and save its quality report, replacing any previous report",
	}, NewAnalyzeHandler(analyzer))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_report",
		Description: "Fetch the quality report of a conversation",
	}, NewGetReportHandler(analyzer))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_reports",
		Description: "List all quality reports, newest first",
	}, NewListReportsHandler(analyzer))

	return server
}

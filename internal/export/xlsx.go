package export

import (
	"fmt"
	"io"
	"time"

	"github.com/povarna/generative-ai-agents/conversation-analyzer/internal/models"
	"github.com/xuri/excelize/v2"
)

const SheetName = "Reports"

var header = []any{
	"id", "conversation", "clarity_score", "relevance_score", "accuracy_score",
	"completeness_score", "sentiment", "empathy_score", "response_time_avg",
	"resolution", "escalation_need", "fallback_frequency", "overall_score", "created_at",
}

// WriteReports renders reports as a single-sheet workbook, one row per report
// in the given order.
func WriteReports(w io.Writer, reports []models.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, r := range reports {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("cell name: %w", err)
		}
		row := []any{
			r.ID, r.ConversationID, r.ClarityScore, r.RelevanceScore, r.AccuracyScore,
			r.CompletenessScore, string(r.Sentiment), r.EmpathyScore, r.ResponseTimeAvg,
			r.Resolution, r.EscalationNeed, r.FallbackFrequency, r.OverallScore,
			r.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	if err := f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freeze header: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

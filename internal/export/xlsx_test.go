package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/povarna/generative-ai-agents/conversation-analyzer/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteReports(t *testing.T) {
	reports := []models.Report{
		{
			ID: "r2", ConversationID: "c2", ClarityScore: 4.25, Sentiment: models.SentimentNegative,
			EscalationNeed: true, FallbackFrequency: 2, OverallScore: 3.9,
			CreatedAt: time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC),
		},
		{
			ID: "r1", ConversationID: "c1", Sentiment: models.SentimentPositive,
			CreatedAt: time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteReports(&buf, reports))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "conversation", rows[0][1])
	assert.Equal(t, "r2", rows[1][0])
	assert.Equal(t, "negative", rows[1][6])
	assert.Equal(t, "TRUE", rows[1][10])
	assert.Equal(t, "2024-01-02T10:00:00Z", rows[1][13])
	assert.Equal(t, "c1", rows[2][1])
}

func TestWriteReports_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteReports(&buf, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

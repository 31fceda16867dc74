package models

import (
	"time"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

var Sentiments = []Sentiment{SentimentPositive, SentimentNeutral, SentimentNegative}

func (s Sentiment) Valid() bool {
	switch s {
	case SentimentPositive, SentimentNeutral, SentimentNegative:
		return true
	}
	return false
}

// Upload message, as submitted by clients of the ingestion boundary
type UploadMessage struct {
	Sender  string `json:"sender" description:"user or ai"`
	Message string `json:"message"`
}

type Conversation struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

type Turn struct {
	Role          Role   `json:"role"`
	Text          string `json:"text"`
	SequenceIndex int    `json:"sequence_index"`
}

// Transcript is the ordered turn sequence of one conversation.
type Transcript struct {
	ConversationID string `json:"conversation_id"`
	Turns          []Turn `json:"turns"`
}

type QualityScores struct {
	Clarity      float64 `json:"clarity"`
	Relevance    float64 `json:"relevance"`
	Accuracy     float64 `json:"accuracy"`
	Completeness float64 `json:"completeness"`
}

type InteractionScores struct {
	Sentiment       Sentiment `json:"sentiment"`
	Empathy         float64   `json:"empathy"`
	AvgResponseTime float64   `json:"avg_response_time"`
}

type ResolutionScores struct {
	Resolved        bool `json:"resolved"`
	NeedsEscalation bool `json:"needs_escalation"`
}

type OpsMetrics struct {
	FallbackCount int `json:"fallback_count"`
}

// SubScores is one scorer's output for a transcript.
type SubScores struct {
	Quality     QualityScores     `json:"quality"`
	Interaction InteractionScores `json:"interaction"`
	Resolution  ResolutionScores  `json:"resolution"`
	Ops         OpsMetrics        `json:"ops"`
}

// Report is the persisted analysis of a conversation. Field names follow the
// public report format.
type Report struct {
	ID                string    `json:"id"`
	ConversationID    string    `json:"conversation"`
	ClarityScore      float64   `json:"clarity_score"`
	RelevanceScore    float64   `json:"relevance_score"`
	AccuracyScore     float64   `json:"accuracy_score"`
	CompletenessScore float64   `json:"completeness_score"`
	Sentiment         Sentiment `json:"sentiment"`
	EmpathyScore      float64   `json:"empathy_score"`
	ResponseTimeAvg   float64   `json:"response_time_avg"`
	Resolution        bool      `json:"resolution"`
	EscalationNeed    bool      `json:"escalation_need"`
	FallbackFrequency int       `json:"fallback_frequency"`
	OverallScore      float64   `json:"overall_score"`
	CreatedAt         time.Time `json:"created_at"`
}

// AnalysisResult is returned by the pipeline; Created is false when an
// existing report was replaced.
type AnalysisResult struct {
	Report  Report `json:"report"`
	Created bool   `json:"created"`
}

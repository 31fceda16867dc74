package scorer

import (
	"strings"

	"github.com/povarna/generative-ai-agents/conversation-analyzer/internal/models"
)

// FallbackDetector counts assistant turns that admit not knowing the answer.
type FallbackDetector struct {
	phrases []string
}

func NewFallbackDetector(phrases []string) *FallbackDetector {
	lowered := make([]string, 0, len(phrases))
	for _, p := range phrases {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			lowered = append(lowered, p)
		}
	}
	return &FallbackDetector{phrases: lowered}
}

// Count returns the number of assistant turns containing at least one phrase.
// A turn matching several phrases counts once.
func (d *FallbackDetector) Count(transcript models.Transcript) int {
	count := 0
	for _, turn := range transcript.AssistantTurns() {
		if d.matches(turn.Text) {
			count++
		}
	}
	return count
}

func (d *FallbackDetector) matches(text string) bool {
	lower := strings.ToLower(text)
	for _, p := range d.phrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

package models

import "fmt"

// Validate checks the transcript invariants: at least one turn, known roles
// and strictly increasing sequence indexes.
func (t Transcript) Validate() error {
	if len(t.Turns) == 0 {
		return ErrEmptyTranscript
	}

	for i, turn := range t.Turns {
		if turn.Role != RoleUser && turn.Role != RoleAssistant {
			return fmt.Errorf("%w: turn %d has unknown role %q", ErrInvalidTranscript, i, turn.Role)
		}
		if i > 0 && turn.SequenceIndex <= t.Turns[i-1].SequenceIndex {
			return fmt.Errorf("%w: sequence index %d does not follow %d", ErrInvalidTranscript, turn.SequenceIndex, t.Turns[i-1].SequenceIndex)
		}
	}
	return nil
}

func (t Transcript) AssistantTurns() []Turn {
	var turns []Turn
	for _, turn := range t.Turns {
		if turn.Role == RoleAssistant {
			turns = append(turns, turn)
		}
	}
	return turns
}

// NormalizeSender maps an upload sender onto a transcript role. Only the exact
// values "user" and "ai" are accepted.
func NormalizeSender(sender string) (Role, bool) {
	switch sender {
	case "user":
		return RoleUser, true
	case "ai":
		return RoleAssistant, true
	}
	return "", false
}

package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/povarna/generative-ai-agents/conversation-analyzer/internal/models"
)

type conversationRecord struct {
	conversation models.Conversation
	turns        []models.Turn
}

// MemoryStore keeps conversations and reports in process memory. A single
// lock serializes every upsert, which is enough to keep one report per
// conversation.
type MemoryStore struct {
	mu            sync.RWMutex
	conversations map[string]*conversationRecord
	reports       map[string]models.Report
	now           func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		conversations: make(map[string]*conversationRecord),
		reports:       make(map[string]models.Report),
		now:           time.Now,
	}
}

func (s *MemoryStore) CreateConversation(_ context.Context, title string, turns []models.Turn) (models.Conversation, error) {
	conv := models.Conversation{
		ID:        uuid.NewString(),
		Title:     title,
		CreatedAt: s.now().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.conversations[conv.ID] = &conversationRecord{
		conversation: conv,
		turns:        append([]models.Turn(nil), turns...),
	}
	return conv, nil
}

// DeleteConversation removes the conversation together with its report.
func (s *MemoryStore) DeleteConversation(_ context.Context, conversationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.conversations[conversationID]; !ok {
		return models.ErrConversationNotFound
	}
	delete(s.conversations, conversationID)
	delete(s.reports, conversationID)
	return nil
}

func (s *MemoryStore) LoadTranscript(_ context.Context, conversationID string) (models.Transcript, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.conversations[conversationID]
	if !ok {
		return models.Transcript{}, models.ErrConversationNotFound
	}
	return models.Transcript{
		ConversationID: conversationID,
		Turns:          append([]models.Turn(nil), rec.turns...),
	}, nil
}

// Upsert stores the report for its conversation, replacing any previous one
// while keeping the previous report identifier.
func (s *MemoryStore) Upsert(_ context.Context, report models.Report) (models.Report, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.conversations[report.ConversationID]; !ok {
		return models.Report{}, false, fmt.Errorf("%w: %s", models.ErrConversationNotFound, report.ConversationID)
	}

	existing, found := s.reports[report.ConversationID]
	if found {
		report.ID = existing.ID
	} else {
		report.ID = uuid.NewString()
	}
	s.reports[report.ConversationID] = report
	return report, !found, nil
}

func (s *MemoryStore) Get(_ context.Context, conversationID string) (models.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	report, ok := s.reports[conversationID]
	if !ok {
		return models.Report{}, models.ErrReportNotFound
	}
	return report, nil
}

func (s *MemoryStore) List(_ context.Context) ([]models.Report, error) {
	s.mu.RLock()
	reports := make([]models.Report, 0, len(s.reports))
	for _, r := range s.reports {
		reports = append(reports, r)
	}
	s.mu.RUnlock()

	SortByRecency(reports)
	return reports, nil
}

// SortByRecency orders reports newest first, breaking ties by report id.
func SortByRecency(reports []models.Report) {
	sort.SliceStable(reports, func(i, j int) bool {
		if !reports[i].CreatedAt.Equal(reports[j].CreatedAt) {
			return reports[i].CreatedAt.After(reports[j].CreatedAt)
		}
		return reports[i].ID < reports[j].ID
	})
}

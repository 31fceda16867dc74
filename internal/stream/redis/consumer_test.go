package redis

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/povarna/generative-ai-agents/conversation-analyzer/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

type fakeStreamClient struct {
	acked    []string
	added    []*redis.XAddArgs
	groupErr error

	// pending is returned for history reads (any id other than ">")
	pending []redis.XMessage
	// stale is handed out by the next XAutoClaim call
	stale     []redis.XMessage
	claimArgs []*redis.XAutoClaimArgs
}

func (f *fakeStreamClient) XGroupCreateMkStream(ctx context.Context, _, _, _ string) *redis.StatusCmd {
	return redis.NewStatusResult("OK", f.groupErr)
}

func (f *fakeStreamClient) XReadGroup(ctx context.Context, a *redis.XReadGroupArgs) *redis.XStreamSliceCmd {
	start := a.Streams[1]
	if start == ">" {
		return redis.NewXStreamSliceCmdResult(nil, redis.Nil)
	}

	var msgs []redis.XMessage
	for _, m := range f.pending {
		if start == "0" || m.ID > start {
			msgs = append(msgs, m)
		}
	}
	return redis.NewXStreamSliceCmdResult([]redis.XStream{{Stream: a.Streams[0], Messages: msgs}}, nil)
}

func (f *fakeStreamClient) XAutoClaim(ctx context.Context, a *redis.XAutoClaimArgs) *redis.XAutoClaimCmd {
	f.claimArgs = append(f.claimArgs, a)
	cmd := redis.NewXAutoClaimCmd(ctx)
	cmd.SetVal(f.stale, "0-0")
	f.stale = nil
	return cmd
}

func (f *fakeStreamClient) XAck(ctx context.Context, _, _ string, ids ...string) *redis.IntCmd {
	f.acked = append(f.acked, ids...)
	return redis.NewIntResult(int64(len(ids)), nil)
}

func (f *fakeStreamClient) XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd {
	f.added = append(f.added, a)
	return redis.NewStringResult("1-0", nil)
}

type fakeAnalyzer struct {
	calls []string
	err   error
	// errs, when set, is consumed one entry per call before err applies
	errs []error
}

func (f *fakeAnalyzer) Analyze(_ context.Context, conversationID string) (models.AnalysisResult, error) {
	f.calls = append(f.calls, conversationID)
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		if err != nil {
			return models.AnalysisResult{}, err
		}
	} else if f.err != nil {
		return models.AnalysisResult{}, f.err
	}
	return models.AnalysisResult{Report: models.Report{ID: "r1", ConversationID: conversationID}, Created: true}, nil
}

func TestConsumer_Process(t *testing.T) {
	tests := []struct {
		name        string
		values      map[string]any
		analyzeErr  error
		expectCalls int
		expectAck   bool
	}{
		{
			name:        "valid request",
			values:      map[string]any{"payload": `{"conversation_id":"c1"}`},
			expectCalls: 1,
			expectAck:   true,
		},
		{
			name:      "missing payload",
			values:    map[string]any{"other": "x"},
			expectAck: true,
		},
		{
			name:      "malformed json",
			values:    map[string]any{"payload": `{not json`},
			expectAck: true,
		},
		{
			name:      "missing conversation id",
			values:    map[string]any{"payload": `{}`},
			expectAck: true,
		},
		{
			name:        "unknown conversation is acked",
			values:      map[string]any{"payload": `{"conversation_id":"c1"}`},
			analyzeErr:  fmt.Errorf("load: %w", models.ErrConversationNotFound),
			expectCalls: 1,
			expectAck:   true,
		},
		{
			name:        "empty transcript is acked",
			values:      map[string]any{"payload": `{"conversation_id":"c1"}`},
			analyzeErr:  models.ErrEmptyTranscript,
			expectCalls: 1,
			expectAck:   true,
		},
		{
			name:        "store conflict stays pending",
			values:      map[string]any{"payload": `{"conversation_id":"c1"}`},
			analyzeErr:  models.ErrStoreConflict,
			expectCalls: 1,
			expectAck:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := zerolog.Nop()
			client := &fakeStreamClient{}
			analyzer := &fakeAnalyzer{err: tt.analyzeErr}
			c := NewConsumer(client, DefaultStream, DefaultGroup, "test", analyzer, &logger)

			c.process(context.Background(), redis.XMessage{ID: "1-0", Values: tt.values})

			if len(analyzer.calls) != tt.expectCalls {
				t.Errorf("expected %d analyze calls, got %d", tt.expectCalls, len(analyzer.calls))
			}
			if acked := len(client.acked) == 1; acked != tt.expectAck {
				t.Errorf("expected ack=%v, got acks %v", tt.expectAck, client.acked)
			}
		})
	}
}

func TestConsumer_Setup(t *testing.T) {
	logger := zerolog.Nop()

	c := NewConsumer(&fakeStreamClient{groupErr: errors.New("BUSYGROUP Consumer Group name already exists")}, "s", "g", "c", &fakeAnalyzer{}, &logger)
	if err := c.Setup(context.Background()); err != nil {
		t.Errorf("existing group should not fail setup: %v", err)
	}

	c = NewConsumer(&fakeStreamClient{groupErr: errors.New("NOAUTH")}, "s", "g", "c", &fakeAnalyzer{}, &logger)
	if err := c.Setup(context.Background()); err == nil {
		t.Error("expected setup error")
	}
}

func TestConsumer_StartStopsOnCancel(t *testing.T) {
	logger := zerolog.Nop()
	c := NewConsumer(&fakeStreamClient{}, "s", "g", "c", &fakeAnalyzer{}, &logger)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := c.Start(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func entry(id, conversationID string) redis.XMessage {
	return redis.XMessage{ID: id, Values: map[string]any{"payload": `{"conversation_id":"` + conversationID + `"}`}}
}

func TestConsumer_DrainPending(t *testing.T) {
	logger := zerolog.Nop()
	client := &fakeStreamClient{pending: []redis.XMessage{entry("1-0", "c1"), entry("2-0", "c2")}}
	analyzer := &fakeAnalyzer{errs: []error{models.ErrStoreConflict, nil}}
	c := NewConsumer(client, DefaultStream, DefaultGroup, "test", analyzer, &logger)

	c.drainPending(context.Background())

	if len(analyzer.calls) != 2 || analyzer.calls[0] != "c1" || analyzer.calls[1] != "c2" {
		t.Fatalf("expected both pending entries to be analyzed once, got %v", analyzer.calls)
	}
	if len(client.acked) != 1 || client.acked[0] != "2-0" {
		t.Errorf("expected only 2-0 to be acked, got %v", client.acked)
	}
}

func TestConsumer_FailedEntryIsRetried(t *testing.T) {
	logger := zerolog.Nop()
	client := &fakeStreamClient{}
	analyzer := &fakeAnalyzer{errs: []error{models.ErrStoreConflict, nil}}
	c := NewConsumer(client, DefaultStream, DefaultGroup, "test", analyzer, &logger)
	ctx := context.Background()

	msg := entry("5-0", "c5")
	c.process(ctx, msg)
	if len(client.acked) != 0 {
		t.Fatalf("conflicting entry should stay pending, acked %v", client.acked)
	}

	client.stale = []redis.XMessage{msg}
	c.claimStale(ctx)

	if len(analyzer.calls) != 2 || analyzer.calls[1] != "c5" {
		t.Fatalf("expected the pending entry to be analyzed again, got %v", analyzer.calls)
	}
	if len(client.acked) != 1 || client.acked[0] != "5-0" {
		t.Errorf("expected 5-0 to be acked after the retry, got %v", client.acked)
	}
	if len(client.claimArgs) != 1 || client.claimArgs[0].MinIdle != DefaultClaimMinIdle || client.claimArgs[0].Consumer != "test" {
		t.Errorf("unexpected claim arguments %+v", client.claimArgs)
	}
}

func TestConsumer_StartReplaysPendingFirst(t *testing.T) {
	logger := zerolog.Nop()
	client := &fakeStreamClient{pending: []redis.XMessage{entry("1-0", "c1")}}
	analyzer := &fakeAnalyzer{}
	c := NewConsumer(client, DefaultStream, DefaultGroup, "test", analyzer, &logger)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := c.Start(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}

	if len(analyzer.calls) == 0 || analyzer.calls[0] != "c1" {
		t.Errorf("expected pending entry c1 to be replayed, got %v", analyzer.calls)
	}
}

func TestPublish(t *testing.T) {
	client := &fakeStreamClient{}
	id, err := Publish(context.Background(), client, "", "c42")
	if err != nil {
		t.Fatalf("Publish() failed: %v", err)
	}
	if id != "1-0" {
		t.Errorf("unexpected id %q", id)
	}
	if len(client.added) != 1 || client.added[0].Stream != DefaultStream {
		t.Fatalf("expected one entry on %s, got %+v", DefaultStream, client.added)
	}
	values := client.added[0].Values.(map[string]any)
	if values["payload"] != `{"conversation_id":"c42"}` {
		t.Errorf("unexpected payload %v", values["payload"])
	}
}

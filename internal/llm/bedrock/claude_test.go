package bedrock

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/povarna/generative-ai-agents/conversation-analyzer/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRuntime struct {
	errs  []error
	body  []byte
	calls int
}

func (f *fakeRuntime) InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error) {
	f.calls++
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		if err != nil {
			return nil, err
		}
	}
	return &bedrockruntime.InvokeModelOutput{Body: f.body}, nil
}

func newTestClient(rt runtimeAPI) *Client {
	return &Client{
		Client:       rt,
		ModelID:      "test-model",
		MaxRetries:   3,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
	}
}

func TestInvokeModel_ParsesContent(t *testing.T) {
	rt := &fakeRuntime{body: []byte(`{"content":[{"type":"text","text":"hello"}],"stop_reason":"end_turn"}`)}

	resp, err := newTestClient(rt).InvokeModel(context.Background(), llm.LLMRequest{Prompt: "hi", MaxTokens: 10})
	require.NoError(t, err)
	assert.Equal(t, "hello", resp.Content)
	assert.Equal(t, "end_turn", resp.StopReason)
}

func TestInvokeModelWithRetry_RetriesThrottling(t *testing.T) {
	rt := &fakeRuntime{
		errs: []error{errors.New("ThrottlingException: slow down"), nil},
		body: []byte(`{"content":[{"type":"text","text":"ok"}]}`),
	}

	resp, err := newTestClient(rt).InvokeModelWithRetry(context.Background(), llm.LLMRequest{Prompt: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Content)
	assert.Equal(t, 2, rt.calls)
}

func TestInvokeModelWithRetry_StopsOnClientError(t *testing.T) {
	rt := &fakeRuntime{errs: []error{errors.New("ValidationException: bad input")}}

	_, err := newTestClient(rt).InvokeModelWithRetry(context.Background(), llm.LLMRequest{Prompt: "hi"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "non-retryable")
	assert.Equal(t, 1, rt.calls)
}

func TestInvokeModelWithRetry_ExhaustsBudget(t *testing.T) {
	rt := &fakeRuntime{errs: []error{
		errors.New("503 ServiceUnavailableException"),
		errors.New("503 ServiceUnavailableException"),
		errors.New("503 ServiceUnavailableException"),
		errors.New("503 ServiceUnavailableException"),
	}}

	_, err := newTestClient(rt).InvokeModelWithRetry(context.Background(), llm.LLMRequest{Prompt: "hi"})
	require.Error(t, err)
	assert.Equal(t, 3, rt.calls)
}

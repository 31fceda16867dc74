package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

type streamWriter interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
}

// Publish queues an analysis request and returns the stream entry id.
func Publish(ctx context.Context, client streamWriter, stream, conversationID string) (string, error) {
	if stream == "" {
		stream = DefaultStream
	}

	payload, err := json.Marshal(AnalysisRequest{ConversationID: conversationID})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	id, err := client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: map[string]any{"payload": string(payload)},
	}).Result()
	if err != nil {
		return "", fmt.Errorf("failed to publish to stream %s: %w", stream, err)
	}
	return id, nil
}

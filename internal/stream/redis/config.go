package redis

import "time"

const (
	DefaultStream = "analysis-requests"
	DefaultGroup  = "analysis-group"

	// Pending entries idle this long are claimed and retried.
	DefaultClaimMinIdle  = 30 * time.Second
	DefaultClaimInterval = 10 * time.Second
)

type RedisStreamConfig struct {
	RedisAddr     string
	RedisPassword string
	Stream        string
	Group         string
	ConsumerName  string
}

func NewRedisStreamConfig(redisAddr string, redisPassword string, stream string, group string, consumerName string) *RedisStreamConfig {
	if stream == "" {
		stream = DefaultStream
	}
	if group == "" {
		group = DefaultGroup
	}
	return &RedisStreamConfig{
		RedisAddr:     redisAddr,
		RedisPassword: redisPassword,
		Stream:        stream,
		Group:         group,
		ConsumerName:  consumerName,
	}
}

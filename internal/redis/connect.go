package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Addr       string
	Password   string
	DB         int
	MaxRetries int
}

func newClient(cfg Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:            cfg.Addr,
		Password:        cfg.Password,
		DB:              cfg.DB,
		MaxRetries:      3,
		MinRetryBackoff: 8 * time.Millisecond,
		MaxRetryBackoff: 512 * time.Millisecond,
		DialTimeout:     5 * time.Second,
		ReadTimeout:     3 * time.Second,
		WriteTimeout:    3 * time.Second,
	})
}

// Connect pings Redis until it answers, backing off exponentially between
// attempts, and gives up after cfg.MaxRetries attempts.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 1
	}
	client := newClient(cfg)

	attempt := 0
	ping := func() error {
		attempt++
		log.Info().Int("attempt", attempt).Int("max_retries", cfg.MaxRetries).Str("addr", cfg.Addr).Msg("Connecting to Redis")
		return client.Ping(ctx).Err()
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = time.Second
	b.MaxInterval = 8 * time.Second
	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(cfg.MaxRetries-1)), ctx)

	notify := func(err error, wait time.Duration) {
		log.Warn().Err(err).Int("attempt", attempt).Dur("backoff", wait).Msg("Redis ping failed")
	}

	if err := backoff.RetryNotify(ping, policy, notify); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis after %d attempts: %w", attempt, err)
	}

	log.Info().Int("attempts_needed", attempt).Msg("Redis connected")
	return client, nil
}

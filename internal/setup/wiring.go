package setup

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/povarna/generative-ai-agents/conversation-analyzer/internal/aggregator"
	"github.com/povarna/generative-ai-agents/conversation-analyzer/internal/config"
	"github.com/povarna/generative-ai-agents/conversation-analyzer/internal/database"
	"github.com/povarna/generative-ai-agents/conversation-analyzer/internal/ingest"
	"github.com/povarna/generative-ai-agents/conversation-analyzer/internal/llm/bedrock"
	"github.com/povarna/generative-ai-agents/conversation-analyzer/internal/metrics"
	"github.com/povarna/generative-ai-agents/conversation-analyzer/internal/notify"
	"github.com/povarna/generative-ai-agents/conversation-analyzer/internal/pipeline"
	"github.com/povarna/generative-ai-agents/conversation-analyzer/internal/redis"
	"github.com/povarna/generative-ai-agents/conversation-analyzer/internal/scorer"
	"github.com/povarna/generative-ai-agents/conversation-analyzer/internal/store"
	"github.com/rs/zerolog"
)

type Config struct {
	APIPort         string
	LogLevel        string
	StoreBackend    string
	StoreMaxRetries int
	RedisAddr       string
	RedisPassword   string
	Postgres        database.Config
	Scorer          string
	ScorerSeed      uint64
	AWSRegion       string
	ClaudeModelID   string
	AMQPURL         string
	AMQPExchange    string
	Stream          string
	StreamGroup     string
	ConsumerName    string
}

// Repository is what every storage backend provides.
type Repository interface {
	pipeline.TranscriptProvider
	pipeline.ReportStore
	ingest.ConversationWriter
	DeleteConversation(ctx context.Context, conversationID string) error
}

type Dependencies struct {
	Pipeline   *pipeline.Pipeline
	Ingest     *ingest.Service
	Repository Repository
	Metrics    *metrics.Metrics
	Logger     *zerolog.Logger

	closers []func()
}

// Close releases connections opened by Wire.
func (d *Dependencies) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		d.closers[i]()
	}
}

func LoadConfig() *Config {
	return &Config{
		APIPort:         getEnv("API_PORT", "18082"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		StoreBackend:    getEnv("STORE_BACKEND", "memory"),
		StoreMaxRetries: getEnvInt("STORE_MAX_RETRIES", store.DefaultMaxRetries),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		Postgres: database.Config{
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnv("POSTGRES_PORT", "5432"),
			User:     getEnv("POSTGRES_USER", "postgres"),
			Password: getEnv("POSTGRES_PASSWORD", ""),
			Database: getEnv("POSTGRES_DB", "conversations"),
			SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		},
		Scorer:        getEnv("SCORER", "stochastic"),
		ScorerSeed:    uint64(getEnvInt("SCORER_SEED", 0)),
		AWSRegion:     getEnv("AWS_REGION", "us-east-1"),
		ClaudeModelID: getEnv("CLAUDE_MODEL_ID", ""),
		AMQPURL:       getEnv("AMQP_URL", ""),
		AMQPExchange:  getEnv("AMQP_EXCHANGE", notify.DefaultExchange),
		Stream:        getEnv("ANALYSIS_STREAM", "analysis-requests"),
		StreamGroup:   getEnv("ANALYSIS_GROUP", "analysis-group"),
		ConsumerName:  getEnv("CONSUMER_NAME", "analyzer-1"),
	}
}

func Wire(ctx context.Context, cfg *Config, logger *zerolog.Logger) (*Dependencies, error) {
	scoringConfig, err := config.LoadScoringConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load scoring config: %w", err)
	}

	deps := &Dependencies{
		Metrics: metrics.New(),
		Logger:  logger,
	}

	repo, err := createRepository(ctx, cfg, deps, logger)
	if err != nil {
		deps.Close()
		return nil, err
	}
	deps.Repository = repo

	sc, err := createScorer(ctx, cfg, scoringConfig.Scoring, logger)
	if err != nil {
		deps.Close()
		return nil, err
	}

	agg := aggregator.NewAggregator(scoringConfig.Scoring.Weights, logger)

	opts := []pipeline.Option{pipeline.WithMetrics(deps.Metrics)}
	if cfg.AMQPURL != "" {
		notifier, err := notify.Dial(cfg.AMQPURL, cfg.AMQPExchange, logger)
		if err != nil {
			// escalations are still stored on the report
			logger.Warn().Err(err).Msg("escalation notifier disabled")
		} else {
			opts = append(opts, pipeline.WithNotifier(notifier))
			deps.closers = append(deps.closers, func() { notifier.Close() })
		}
	}

	deps.Pipeline = pipeline.NewPipeline(repo, sc, agg, repo, logger, opts...)
	deps.Ingest = ingest.NewService(repo, logger)

	logger.Info().
		Str("store", cfg.StoreBackend).
		Str("scorer", cfg.Scorer).
		Msg("dependencies wired")
	return deps, nil
}

func createRepository(ctx context.Context, cfg *Config, deps *Dependencies, logger *zerolog.Logger) (Repository, error) {
	switch cfg.StoreBackend {
	case "", "memory":
		return store.NewMemoryStore(), nil
	case "redis":
		client, err := redis.Connect(ctx, redis.Config{
			Addr:       cfg.RedisAddr,
			Password:   cfg.RedisPassword,
			MaxRetries: 5,
		})
		if err != nil {
			return nil, err
		}
		deps.closers = append(deps.closers, func() { client.Close() })
		return store.NewRedisStore(client, store.DefaultKeyPrefix, cfg.StoreMaxRetries, deps.Metrics, logger), nil
	case "postgres":
		db, err := database.New(ctx, cfg.Postgres)
		if err != nil {
			return nil, err
		}
		deps.closers = append(deps.closers, db.Close)
		if err := db.Ping(ctx); err != nil {
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}
		if err := db.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		return database.NewRepository(db, cfg.StoreMaxRetries, deps.Metrics, logger), nil
	default:
		return nil, fmt.Errorf("unsupported store backend: %s", cfg.StoreBackend)
	}
}

func createScorer(ctx context.Context, cfg *Config, scoring config.Scoring, logger *zerolog.Logger) (pipeline.Scorer, error) {
	fallback := scorer.NewFallbackDetector(scoring.FallbackPhrases)

	switch cfg.Scorer {
	case "", "stochastic":
		return scorer.NewStochasticScorer(cfg.ScorerSeed, scoring.Ranges, fallback), nil
	case "llm":
		client, err := bedrock.NewClient(ctx, cfg.AWSRegion, cfg.ClaudeModelID)
		if err != nil {
			return nil, fmt.Errorf("failed to create Bedrock client: %w", err)
		}
		return scorer.NewLLMScorer(scoring, fallback, client, logger)
	default:
		return nil, fmt.Errorf("unsupported scorer: %s", cfg.Scorer)
	}
}

func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		value = defaultValue
	}

	return value
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

package setup

import (
	"context"
	"testing"

	"github.com/povarna/generative-ai-agents/conversation-analyzer/internal/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, key := range []string{"API_PORT", "STORE_BACKEND", "STORE_MAX_RETRIES", "SCORER", "SCORER_SEED"} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()
	assert.Equal(t, "18082", cfg.APIPort)
	assert.Equal(t, "memory", cfg.StoreBackend)
	assert.Equal(t, 5, cfg.StoreMaxRetries)
	assert.Equal(t, "stochastic", cfg.Scorer)
	assert.Zero(t, cfg.ScorerSeed)
}

func TestLoadConfig_FromEnv(t *testing.T) {
	t.Setenv("STORE_BACKEND", "postgres")
	t.Setenv("STORE_MAX_RETRIES", "9")
	t.Setenv("SCORER_SEED", "42")
	t.Setenv("POSTGRES_HOST", "db")

	cfg := LoadConfig()
	assert.Equal(t, "postgres", cfg.StoreBackend)
	assert.Equal(t, 9, cfg.StoreMaxRetries)
	assert.Equal(t, uint64(42), cfg.ScorerSeed)
	assert.Equal(t, "db", cfg.Postgres.Host)
}

func TestWire_MemoryBackend(t *testing.T) {
	t.Setenv("SCORING_CONFIG_PATH", "")
	t.Chdir(t.TempDir())

	logger := zerolog.Nop()
	cfg := &Config{StoreBackend: "memory", Scorer: "stochastic", ScorerSeed: 1}
	deps, err := Wire(context.Background(), cfg, &logger)
	require.NoError(t, err)
	defer deps.Close()

	ctx := context.Background()
	conv, err := deps.Ingest.Upload(ctx, []models.UploadMessage{
		{Sender: "user", Message: "hello"},
		{Sender: "ai", Message: "I'm not sure"},
	})
	require.NoError(t, err)

	result, err := deps.Pipeline.Analyze(ctx, conv.ID)
	require.NoError(t, err)
	assert.True(t, result.Created)
	assert.Equal(t, 1, result.Report.FallbackFrequency)
}

func TestWire_UnsupportedOptions(t *testing.T) {
	t.Setenv("SCORING_CONFIG_PATH", "")
	t.Chdir(t.TempDir())
	logger := zerolog.Nop()

	_, err := Wire(context.Background(), &Config{StoreBackend: "cassandra"}, &logger)
	assert.ErrorContains(t, err, "unsupported store backend")

	_, err = Wire(context.Background(), &Config{StoreBackend: "memory", Scorer: "oracle"}, &logger)
	assert.ErrorContains(t, err, "unsupported scorer")
}

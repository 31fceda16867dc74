package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Config struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	SSLMode  string
}

type DB struct {
	Pool *pgxpool.Pool
}

func New(ctx context.Context, config Config) (*DB, error) {
	pgPool, err := pgxpool.New(ctx, config.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &DB{
		Pool: pgPool,
	}, nil
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=%s", c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode)
}

func (db *DB) Ping(ctx context.Context) error {
	return db.Pool.Ping(ctx)
}

func (db *DB) Close() {
	db.Pool.Close()
}

const schema = `
CREATE TABLE IF NOT EXISTS conversations (
	id         UUID PRIMARY KEY,
	title      TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS messages (
	id              BIGSERIAL PRIMARY KEY,
	conversation_id UUID NOT NULL REFERENCES conversations(id) ON DELETE CASCADE,
	sequence_index  INT NOT NULL,
	sender          TEXT NOT NULL CHECK (sender IN ('user', 'ai')),
	text            TEXT NOT NULL,
	UNIQUE (conversation_id, sequence_index)
);

CREATE TABLE IF NOT EXISTS conversation_analyses (
	id                 UUID PRIMARY KEY,
	conversation_id    UUID NOT NULL UNIQUE REFERENCES conversations(id) ON DELETE CASCADE,
	clarity_score      DOUBLE PRECISION NOT NULL,
	relevance_score    DOUBLE PRECISION NOT NULL,
	accuracy_score     DOUBLE PRECISION NOT NULL,
	completeness_score DOUBLE PRECISION NOT NULL,
	sentiment          TEXT NOT NULL,
	empathy_score      DOUBLE PRECISION NOT NULL,
	response_time_avg  DOUBLE PRECISION NOT NULL,
	resolution         BOOLEAN NOT NULL,
	escalation_need    BOOLEAN NOT NULL,
	fallback_frequency INT NOT NULL,
	overall_score      DOUBLE PRECISION NOT NULL,
	created_at         TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS conversation_analyses_created_at_idx
	ON conversation_analyses (created_at DESC);
`

// EnsureSchema creates the tables the repository needs when they are missing.
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.Pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

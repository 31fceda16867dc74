package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	red "github.com/povarna/generative-ai-agents/conversation-analyzer/internal/redis"
	streamredis "github.com/povarna/generative-ai-agents/conversation-analyzer/internal/stream/redis"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	ids := flag.String("conversation-id", "", "Conversation id to analyze; comma separated for several")
	stream := flag.String("stream", streamredis.DefaultStream, "Stream name")
	flag.Parse()

	if *ids == "" {
		fmt.Fprintln(os.Stderr, "Usage: producer -conversation-id <id>[,<id>...]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if err := run(strings.Split(*ids, ","), *stream); err != nil {
		log.Error().Err(err).Msg("producer failed")
		os.Exit(1)
	}
}

func run(ids []string, stream string) error {
	_ = godotenv.Load()

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	ctx := context.Background()
	client, err := red.Connect(ctx, red.Config{
		Addr:       addr,
		Password:   os.Getenv("REDIS_PASSWORD"),
		MaxRetries: 3,
	})
	if err != nil {
		return err
	}
	defer client.Close()

	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		entryID, err := streamredis.Publish(ctx, client, stream, id)
		if err != nil {
			return err
		}
		log.Info().Str("stream", stream).Str("id", entryID).Str("conversation_id", id).Msg("Published successfully!")
	}
	return nil
}

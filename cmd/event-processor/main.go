package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/bitthal/Deals-Agent/internal/archive"
	"github.com/bitthal/Deals-Agent/internal/config"
	"github.com/bitthal/Deals-Agent/internal/db"
	"github.com/bitthal/Deals-Agent/internal/events"
	"github.com/bitthal/Deals-Agent/internal/inventory"
	"github.com/bitthal/Deals-Agent/internal/llm"
	"github.com/bitthal/Deals-Agent/internal/processor"
	"github.com/bitthal/Deals-Agent/internal/suggestions"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: No .env file found, using environment variables")
	}

	cfg := config.Load()
	if cfg.GeminiAPIKey == "" {
		log.Fatal("GEMINI_API_KEY is not set")
	}

	pool := db.ConnectPostgres()
	defer pool.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	arc, err := archive.NewFromEnv(ctx)
	if err != nil {
		log.Fatal("archive init failed:", err)
	}
	if arc == nil {
		log.Println("payload archive disabled (R2 not configured)")
	}

	agent := processor.NewAgent(
		events.NewPostgresRepository(pool),
		inventory.NewPostgresRepository(pool),
		suggestions.NewPostgresRepository(pool),
		llm.NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.CallTimeout),
		arc,
		cfg.ProcessBatch,
		cfg.ProcessInterval,
	)

	agent.Run(ctx)
}

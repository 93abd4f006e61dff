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
	"github.com/bitthal/Deals-Agent/internal/publisher"
	"github.com/bitthal/Deals-Agent/internal/suggestions"
	"github.com/bitthal/Deals-Agent/internal/upswap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: No .env file found, using environment variables")
	}

	cfg := config.Load()

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

	agent := publisher.NewAgent(
		suggestions.NewPostgresRepository(pool),
		events.NewPostgresRepository(pool),
		upswap.NewClient(cfg.UpswapBaseURL, cfg.CallTimeout),
		arc,
		cfg.PublishBatch,
		cfg.PublishInterval,
		cfg.ValidityWindow,
	)

	agent.Run(ctx)
}

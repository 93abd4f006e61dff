package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/bitthal/Deals-Agent/internal/config"
	"github.com/bitthal/Deals-Agent/internal/db"
	"github.com/bitthal/Deals-Agent/internal/events"
	"github.com/bitthal/Deals-Agent/internal/sourcing"
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

	agent := sourcing.NewAgent(
		upswap.NewClient(cfg.UpswapBaseURL, cfg.CallTimeout),
		events.NewPostgresRepository(pool),
		cfg.SourceRadiusKM,
		cfg.SourceInterval,
	)

	agent.Run(ctx)
}

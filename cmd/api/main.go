package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/bitthal/Deals-Agent/internal/config"
	"github.com/bitthal/Deals-Agent/internal/db"
	"github.com/bitthal/Deals-Agent/internal/events"
	"github.com/bitthal/Deals-Agent/internal/router"
	"github.com/bitthal/Deals-Agent/internal/suggestions"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: No .env file found, using environment variables")
	}

	if os.Getenv("JWT_SECRET") == "" {
		log.Fatal("JWT_SECRET is not set")
	}

	cfg := config.Load()

	pool := db.ConnectPostgres()
	defer pool.Close()

	eventRepo := events.NewPostgresRepository(pool)
	suggestionRepo := suggestions.NewPostgresRepository(pool)

	r := router.NewRouter(pool, eventRepo, suggestionRepo)

	log.Printf("admin api listening on %s", cfg.ListenAddr)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

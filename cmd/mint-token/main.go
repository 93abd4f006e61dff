package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/bitthal/Deals-Agent/internal/auth"
)

// mint-token issues an operator bearer token for the admin API.
//
//	mint-token -operator ops-anita -ttl 720h
func main() {
	operator := flag.String("operator", "", "operator id to embed in the token")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("Note: No .env file found, using environment variables")
	}

	if *operator == "" {
		log.Fatal("-operator is required")
	}
	if os.Getenv("JWT_SECRET") == "" {
		log.Fatal("JWT_SECRET is not set")
	}

	token, err := auth.GenerateToken(*operator, *ttl)
	if err != nil {
		log.Fatal("minting token failed:", err)
	}
	fmt.Println(token)
}

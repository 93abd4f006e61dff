package config

import (
	"os"
	"strconv"
	"time"
)

// Config carries the runtime knobs shared by the agents and the api binary.
// Everything comes from environment variables with dev-friendly defaults;
// DATABASE_URL is validated by the db package itself.
type Config struct {
	// Event processing agent
	ProcessInterval time.Duration
	ProcessBatch    int

	// Deal publishing agent
	PublishInterval time.Duration
	PublishBatch    int
	ValidityWindow  time.Duration

	// Event sourcing agent
	SourceInterval time.Duration
	SourceRadiusKM float64

	// External calls
	GeminiAPIKey  string
	GeminiModel   string
	UpswapBaseURL string
	CallTimeout   time.Duration

	// Admin API
	ListenAddr string
	JWTSecret  string
}

func Load() Config {
	return Config{
		ProcessInterval: durationEnv("PROCESS_INTERVAL_SECONDS", 120),
		ProcessBatch:    intEnv("PROCESS_BATCH_SIZE", 10),

		PublishInterval: durationEnv("PUBLISH_INTERVAL_SECONDS", 300),
		PublishBatch:    intEnv("PUBLISH_BATCH_SIZE", 10),
		ValidityWindow:  durationEnv("SUGGESTION_VALIDITY_SECONDS", 7*24*3600),

		SourceInterval: durationEnv("SOURCE_INTERVAL_SECONDS", 1800),
		SourceRadiusKM: floatEnv("SOURCE_RADIUS_KM", 25),

		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		GeminiModel:   stringEnv("GEMINI_MODEL", "gemini-1.5-flash-latest"),
		UpswapBaseURL: stringEnv("UPSWAP_BASE_URL", "https://api.upswap.app/api"),
		CallTimeout:   durationEnv("EXTERNAL_CALL_TIMEOUT_SECONDS", 30),

		ListenAddr: stringEnv("LISTEN_ADDR", ":8080"),
		JWTSecret:  os.Getenv("JWT_SECRET"),
	}
}

func stringEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func intEnv(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func floatEnv(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			return f
		}
	}
	return fallback
}

func durationEnv(key string, fallbackSeconds int) time.Duration {
	return time.Duration(intEnv(key, fallbackSeconds)) * time.Second
}

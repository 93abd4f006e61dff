package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PROCESS_INTERVAL_SECONDS", "PROCESS_BATCH_SIZE",
		"PUBLISH_INTERVAL_SECONDS", "PUBLISH_BATCH_SIZE",
		"SUGGESTION_VALIDITY_SECONDS",
		"SOURCE_INTERVAL_SECONDS", "SOURCE_RADIUS_KM",
		"GEMINI_MODEL", "UPSWAP_BASE_URL", "LISTEN_ADDR",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.ProcessInterval != 2*time.Minute {
		t.Errorf("ProcessInterval = %s, want 2m", cfg.ProcessInterval)
	}
	if cfg.ProcessBatch != 10 {
		t.Errorf("ProcessBatch = %d, want 10", cfg.ProcessBatch)
	}
	if cfg.PublishInterval != 5*time.Minute {
		t.Errorf("PublishInterval = %s, want 5m", cfg.PublishInterval)
	}
	if cfg.ValidityWindow != 7*24*time.Hour {
		t.Errorf("ValidityWindow = %s, want 168h", cfg.ValidityWindow)
	}
	if cfg.SourceInterval != 30*time.Minute {
		t.Errorf("SourceInterval = %s, want 30m", cfg.SourceInterval)
	}
	if cfg.SourceRadiusKM != 25 {
		t.Errorf("SourceRadiusKM = %.1f, want 25", cfg.SourceRadiusKM)
	}
	if cfg.GeminiModel != "gemini-1.5-flash-latest" {
		t.Errorf("GeminiModel = %s", cfg.GeminiModel)
	}
	if cfg.ListenAddr != ":8080" {
		t.Errorf("ListenAddr = %s, want :8080", cfg.ListenAddr)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PROCESS_INTERVAL_SECONDS", "30")
	t.Setenv("PROCESS_BATCH_SIZE", "5")
	t.Setenv("SOURCE_RADIUS_KM", "10.5")
	t.Setenv("UPSWAP_BASE_URL", "http://localhost:9000/api")

	cfg := Load()

	if cfg.ProcessInterval != 30*time.Second {
		t.Errorf("ProcessInterval = %s, want 30s", cfg.ProcessInterval)
	}
	if cfg.ProcessBatch != 5 {
		t.Errorf("ProcessBatch = %d, want 5", cfg.ProcessBatch)
	}
	if cfg.SourceRadiusKM != 10.5 {
		t.Errorf("SourceRadiusKM = %.1f, want 10.5", cfg.SourceRadiusKM)
	}
	if cfg.UpswapBaseURL != "http://localhost:9000/api" {
		t.Errorf("UpswapBaseURL = %s", cfg.UpswapBaseURL)
	}
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("PROCESS_BATCH_SIZE", "not-a-number")
	t.Setenv("SOURCE_RADIUS_KM", "-3")

	cfg := Load()

	if cfg.ProcessBatch != 10 {
		t.Errorf("ProcessBatch = %d, want default 10", cfg.ProcessBatch)
	}
	if cfg.SourceRadiusKM != 25 {
		t.Errorf("SourceRadiusKM = %.1f, want default 25", cfg.SourceRadiusKM)
	}
}

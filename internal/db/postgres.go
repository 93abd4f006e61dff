package db

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

func ConnectPostgres() *pgxpool.Pool {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL not set")
	}

	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		log.Fatal(err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour

	pool, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		log.Fatal(err)
	}

	if err := pool.Ping(context.Background()); err != nil {
		log.Fatal("Postgres connection failed:", err)
	}

	if err := initSchema(pool); err != nil {
		log.Fatal("Failed to initialize schema:", err)
	}

	return pool
}

// initSchema creates the pipeline tables. Every statement is idempotent so
// the api and the agents can race on startup.
func initSchema(pool *pgxpool.Pool) error {
	ctx := context.Background()

	// -------------------------------
	// INVENTORY (read-mostly reference data, owned by the inventory service)
	// -------------------------------
	inventorySQL := `
		CREATE TABLE IF NOT EXISTS inventory (
			sku VARCHAR(100) PRIMARY KEY,
			product_name VARCHAR(255) NOT NULL,
			description TEXT,
			price NUMERIC(12,2) NOT NULL,
			quantity_on_hand INT NOT NULL DEFAULT 0,
			category VARCHAR(100),
			supplier VARCHAR(255),
			vendor_id VARCHAR(100) NOT NULL,
			created_at TIMESTAMPTZ DEFAULT now(),
			updated_at TIMESTAMPTZ DEFAULT now()
		)
	`
	if _, err := pool.Exec(ctx, inventorySQL); err != nil {
		return err
	}

	// -------------------------------
	// EVENTS
	// -------------------------------
	eventsSQL := `
		CREATE TABLE IF NOT EXISTS events (
			id BIGSERIAL PRIMARY KEY,
			vendor_id VARCHAR(100) NOT NULL,
			location_uuid UUID NOT NULL,
			activity_id VARCHAR(100) UNIQUE,
			event_trigger_point VARCHAR(50) NOT NULL CHECK (event_trigger_point IN (
				'weather', 'product_expiry', 'holiday_special',
				'local_event', 'competitor_action', 'stock_level'
			)),
			event_details_text JSONB NOT NULL DEFAULT '{}',
			event_location_latitude DOUBLE PRECISION NOT NULL,
			event_location_longitude DOUBLE PRECISION NOT NULL,
			event_timestamp TIMESTAMPTZ NOT NULL,
			processed_for_suggestion BOOLEAN NOT NULL DEFAULT FALSE,
			claimed_at TIMESTAMPTZ,
			suggestion_id BIGINT,
			created_at TIMESTAMPTZ DEFAULT now(),
			updated_at TIMESTAMPTZ DEFAULT now()
		)
	`
	if _, err := pool.Exec(ctx, eventsSQL); err != nil {
		return err
	}

	eventIndexSQL := `
		CREATE INDEX IF NOT EXISTS idx_events_unprocessed
		ON events (created_at)
		WHERE processed_for_suggestion = FALSE
	`
	if _, err := pool.Exec(ctx, eventIndexSQL); err != nil {
		return err
	}

	// -------------------------------
	// DEAL SUGGESTIONS
	// -------------------------------
	suggestionsSQL := `
		CREATE TABLE IF NOT EXISTS deal_suggestions (
			id BIGSERIAL PRIMARY KEY,
			vendor_id VARCHAR(100) NOT NULL,
			event_id BIGINT NOT NULL REFERENCES events(id),
			suggested_product_sku VARCHAR(100) NOT NULL REFERENCES inventory(sku),
			generation_prompt TEXT,
			deal_details_suggestion_text TEXT NOT NULL,
			suggested_discount_type VARCHAR(20) NOT NULL CHECK (
				suggested_discount_type IN ('percentage', 'fixed_amount')
			),
			suggested_discount_value NUMERIC(12,2) NOT NULL,
			original_price NUMERIC(12,2) NOT NULL,
			suggested_price NUMERIC(12,2) NOT NULL CHECK (suggested_price >= 0),
			model_name VARCHAR(100),
			raw_ai_response JSONB,
			vendor_feedback VARCHAR(20) NOT NULL DEFAULT 'pending' CHECK (
				vendor_feedback IN ('pending', 'accepted', 'rejected')
			),
			status VARCHAR(30) NOT NULL DEFAULT 'generated' CHECK (status IN (
				'generated', 'notified_vendor', 'feedback_received',
				'deal_posted', 'deal_post_failed', 'expired'
			)),
			publish_claimed_at TIMESTAMPTZ,
			publish_request JSONB,
			publish_response JSONB,
			publish_error TEXT,
			created_at TIMESTAMPTZ DEFAULT now(),
			updated_at TIMESTAMPTZ DEFAULT now()
		)
	`
	if _, err := pool.Exec(ctx, suggestionsSQL); err != nil {
		return err
	}

	suggestionIndexSQL := `
		CREATE INDEX IF NOT EXISTS idx_suggestions_publishable
		ON deal_suggestions (created_at)
		WHERE status = 'feedback_received' AND vendor_feedback = 'accepted'
	`
	if _, err := pool.Exec(ctx, suggestionIndexSQL); err != nil {
		return err
	}

	log.Println("schema initialized")
	return nil
}

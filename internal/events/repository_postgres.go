package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const eventColumns = `
	id, vendor_id, location_uuid, activity_id, event_trigger_point,
	event_details_text, event_location_latitude, event_location_longitude,
	event_timestamp, processed_for_suggestion, claimed_at, suggestion_id,
	created_at, updated_at
`

func (r *PostgresRepository) Insert(ctx context.Context, e *Event) (bool, error) {
	details, err := json.Marshal(e.Details)
	if err != nil {
		return false, err
	}

	// ON CONFLICT on activity_id dedups re-sourced activities; the RETURNING
	// clause yields no row for duplicates.
	err = r.db.QueryRow(ctx, `
		INSERT INTO events (
			vendor_id, location_uuid, activity_id, event_trigger_point,
			event_details_text, event_location_latitude, event_location_longitude,
			event_timestamp
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (activity_id) DO NOTHING
		RETURNING id, created_at, updated_at
	`,
		e.VendorID,
		e.LocationUUID,
		e.ActivityID,
		e.TriggerPoint,
		details,
		e.Latitude,
		e.Longitude,
		e.Timestamp,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)

	if err == pgx.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ClaimBatch is the claim protocol: the eligibility check and the claim
// marker are one statement, and FOR UPDATE SKIP LOCKED lets concurrent
// agents race over the table without ever double-claiming a row. The claim
// is durable before any external call happens on the returned events.
func (r *PostgresRepository) ClaimBatch(ctx context.Context, limit int) ([]*Event, error) {
	rows, err := r.db.Query(ctx, `
		UPDATE events
		SET processed_for_suggestion = TRUE,
		    claimed_at = now(),
		    updated_at = now()
		WHERE id IN (
			SELECT id FROM events
			WHERE processed_for_suggestion = FALSE
			ORDER BY created_at
			LIMIT $1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING `+eventColumns,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEvents(rows)
}

func (r *PostgresRepository) AttachSuggestion(ctx context.Context, eventID, suggestionID int64) error {
	_, err := r.db.Exec(ctx, `
		UPDATE events
		SET suggestion_id = $1,
		    updated_at = now()
		WHERE id = $2
	`, suggestionID, eventID)
	return err
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*Event, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+eventColumns+`
		FROM events
		WHERE id = $1
	`, id)

	e, err := scanEvent(row)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	return e, err
}

func (r *PostgresRepository) List(ctx context.Context, processed *bool, limit int) ([]*Event, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+eventColumns+`
		FROM events
		WHERE ($1::boolean IS NULL OR processed_for_suggestion = $1)
		ORDER BY created_at DESC
		LIMIT $2
	`, processed, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEvents(rows)
}

func (r *PostgresRepository) ListStuck(ctx context.Context, olderThan time.Duration) ([]*Event, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+eventColumns+`
		FROM events
		WHERE processed_for_suggestion = TRUE
		  AND suggestion_id IS NULL
		  AND claimed_at < now() - $1::interval
		ORDER BY claimed_at
	`, olderThan)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEvents(rows)
}

func scanEvent(row pgx.Row) (*Event, error) {
	var e Event
	var details []byte

	if err := row.Scan(
		&e.ID,
		&e.VendorID,
		&e.LocationUUID,
		&e.ActivityID,
		&e.TriggerPoint,
		&details,
		&e.Latitude,
		&e.Longitude,
		&e.Timestamp,
		&e.ProcessedForSuggestion,
		&e.ClaimedAt,
		&e.SuggestionID,
		&e.CreatedAt,
		&e.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if len(details) > 0 {
		if err := json.Unmarshal(details, &e.Details); err != nil {
			e.Details = map[string]any{}
		}
	}
	return &e, nil
}

func scanEvents(rows pgx.Rows) ([]*Event, error) {
	var out []*Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

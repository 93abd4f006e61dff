package suggestions

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

const suggestionColumns = `
	id, vendor_id, event_id, suggested_product_sku,
	generation_prompt, deal_details_suggestion_text,
	suggested_discount_type, suggested_discount_value,
	original_price, suggested_price,
	model_name, raw_ai_response,
	vendor_feedback, status,
	publish_claimed_at, publish_request, publish_response, publish_error,
	created_at, updated_at
`

func (r *PostgresRepository) Create(ctx context.Context, s *Suggestion) error {
	if s.Status == "" {
		s.Status = StatusGenerated
	}
	if s.VendorFeedback == "" {
		s.VendorFeedback = FeedbackPending
	}

	return r.db.QueryRow(ctx, `
		INSERT INTO deal_suggestions (
			vendor_id, event_id, suggested_product_sku,
			generation_prompt, deal_details_suggestion_text,
			suggested_discount_type, suggested_discount_value,
			original_price, suggested_price,
			model_name, raw_ai_response,
			vendor_feedback, status
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		RETURNING id, created_at, updated_at
	`,
		s.VendorID,
		s.EventID,
		s.SKU,
		s.GenerationPrompt,
		s.DealText,
		s.DiscountType,
		s.DiscountValue,
		s.OriginalPrice,
		s.SuggestedPrice,
		s.ModelName,
		s.RawAIResponse,
		s.VendorFeedback,
		s.Status,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*Suggestion, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+suggestionColumns+`
		FROM deal_suggestions
		WHERE id = $1
	`, id)

	s, err := scanSuggestion(row)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	return s, err
}

func (r *PostgresRepository) List(ctx context.Context, status *Status, limit int) ([]*Suggestion, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+suggestionColumns+`
		FROM deal_suggestions
		WHERE ($1::text IS NULL OR status = $1)
		ORDER BY created_at DESC
		LIMIT $2
	`, status, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSuggestions(rows)
}

// SubmitFeedback guards on non-terminal pre-feedback statuses in the WHERE
// clause; a zero rowcount means the row was already terminal (or missing)
// and the write is rejected rather than applied.
func (r *PostgresRepository) SubmitFeedback(ctx context.Context, id int64, fb Feedback) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE deal_suggestions
		SET vendor_feedback = $1,
		    status = $2,
		    updated_at = now()
		WHERE id = $3
		  AND status IN ($4, $5)
	`, fb, StatusFeedbackReceived, id, StatusGenerated, StatusNotifiedVendor)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrIllegalTransition
	}
	return nil
}

// ClaimForPublish is the claim protocol on the suggestions side: eligibility
// predicate and in-flight marker in one statement, SKIP LOCKED against
// concurrent publishers. The marker is durable before the publish call.
func (r *PostgresRepository) ClaimForPublish(ctx context.Context, limit int) ([]*Suggestion, error) {
	rows, err := r.db.Query(ctx, `
		UPDATE deal_suggestions
		SET publish_claimed_at = now(),
		    updated_at = now()
		WHERE id IN (
			SELECT id FROM deal_suggestions
			WHERE status = $1
			  AND vendor_feedback = $2
			  AND publish_claimed_at IS NULL
			ORDER BY created_at
			LIMIT $3
			FOR UPDATE SKIP LOCKED
		)
		RETURNING `+suggestionColumns,
		StatusFeedbackReceived, FeedbackAccepted, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSuggestions(rows)
}

func (r *PostgresRepository) MarkPosted(ctx context.Context, id int64, request, response json.RawMessage) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE deal_suggestions
		SET status = $1,
		    publish_request = $2,
		    publish_response = $3,
		    publish_error = NULL,
		    updated_at = now()
		WHERE id = $4
		  AND status = $5
	`, StatusDealPosted, request, response, id, StatusFeedbackReceived)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrIllegalTransition
	}
	return nil
}

func (r *PostgresRepository) MarkPostFailed(ctx context.Context, id int64, request json.RawMessage, publishErr string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE deal_suggestions
		SET status = $1,
		    publish_request = $2,
		    publish_error = $3,
		    updated_at = now()
		WHERE id = $4
		  AND status = $5
	`, StatusDealPostFailed, request, publishErr, id, StatusFeedbackReceived)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrIllegalTransition
	}
	return nil
}

func (r *PostgresRepository) ResetFailed(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE deal_suggestions
		SET status = $1,
		    publish_claimed_at = NULL,
		    publish_error = NULL,
		    updated_at = now()
		WHERE id = $2
		  AND status = $3
	`, StatusFeedbackReceived, id, StatusDealPostFailed)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrIllegalTransition
	}
	return nil
}

func (r *PostgresRepository) ExpireRejected(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE deal_suggestions
		SET status = $1,
		    updated_at = now()
		WHERE status = $2
		  AND vendor_feedback = $3
	`, StatusExpired, StatusFeedbackReceived, FeedbackRejected)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *PostgresRepository) ExpireStale(ctx context.Context, window time.Duration) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE deal_suggestions
		SET status = $1,
		    updated_at = now()
		WHERE status IN ($2, $3, $4)
		  AND publish_claimed_at IS NULL
		  AND created_at < now() - $5::interval
	`, StatusExpired, StatusGenerated, StatusNotifiedVendor, StatusFeedbackReceived, window)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *PostgresRepository) ListStuck(ctx context.Context, olderThan time.Duration) ([]*Suggestion, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+suggestionColumns+`
		FROM deal_suggestions
		WHERE publish_claimed_at < now() - $1::interval
		  AND status NOT IN ($2, $3, $4)
		ORDER BY publish_claimed_at
	`, olderThan, StatusDealPosted, StatusDealPostFailed, StatusExpired)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSuggestions(rows)
}

func scanSuggestion(row pgx.Row) (*Suggestion, error) {
	var s Suggestion
	if err := row.Scan(
		&s.ID,
		&s.VendorID,
		&s.EventID,
		&s.SKU,
		&s.GenerationPrompt,
		&s.DealText,
		&s.DiscountType,
		&s.DiscountValue,
		&s.OriginalPrice,
		&s.SuggestedPrice,
		&s.ModelName,
		&s.RawAIResponse,
		&s.VendorFeedback,
		&s.Status,
		&s.PublishClaimedAt,
		&s.PublishRequest,
		&s.PublishResponse,
		&s.PublishError,
		&s.CreatedAt,
		&s.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &s, nil
}

func scanSuggestions(rows pgx.Rows) ([]*Suggestion, error) {
	var out []*Suggestion
	for rows.Next() {
		s, err := scanSuggestion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

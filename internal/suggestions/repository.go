package suggestions

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

var ErrNotFound = errors.New("suggestion not found")

type Repository interface {
	// Create persists a freshly generated suggestion in StatusGenerated.
	Create(ctx context.Context, s *Suggestion) error

	GetByID(ctx context.Context, id int64) (*Suggestion, error)
	List(ctx context.Context, status *Status, limit int) ([]*Suggestion, error)

	// SubmitFeedback records the vendor's verdict and advances the status to
	// feedback_received. Only suggestions still awaiting feedback qualify;
	// terminal rows return ErrIllegalTransition.
	SubmitFeedback(ctx context.Context, id int64, fb Feedback) error

	// ClaimForPublish atomically claims up to limit accepted suggestions in
	// feedback_received, stamping publish_claimed_at as the in-flight
	// marker. Concurrent publishers never receive the same row.
	ClaimForPublish(ctx context.Context, limit int) ([]*Suggestion, error)

	// MarkPosted ends a claimed suggestion in deal_posted, retaining the
	// publish request/response verbatim.
	MarkPosted(ctx context.Context, id int64, request, response json.RawMessage) error

	// MarkPostFailed ends a claimed suggestion in deal_post_failed with
	// whatever error context was available. Terminal for the pipeline.
	MarkPostFailed(ctx context.Context, id int64, request json.RawMessage, publishErr string) error

	// ResetFailed is the operator re-enqueue: deal_post_failed back to
	// feedback_received with the in-flight marker cleared. It is the one
	// deliberate exception to forward-only and is never called by agents.
	ResetFailed(ctx context.Context, id int64) error

	// ExpireRejected moves rejected-feedback suggestions to expired so they
	// drop out of every future publish claim.
	ExpireRejected(ctx context.Context) (int64, error)

	// ExpireStale moves non-terminal suggestions older than the validity
	// window to expired.
	ExpireStale(ctx context.Context, window time.Duration) (int64, error)

	// ListStuck returns suggestions claimed for publishing longer than
	// olderThan ago that never reached a terminal status.
	ListStuck(ctx context.Context, olderThan time.Duration) ([]*Suggestion, error)
}

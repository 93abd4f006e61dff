package events

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("event not found")

type Repository interface {
	// Insert stores a new event. When the event carries an ActivityID that
	// already exists the insert is a silent no-op (dedup for the sourcing
	// agent) and inserted is false.
	Insert(ctx context.Context, e *Event) (inserted bool, err error)

	// ClaimBatch atomically claims up to limit unclaimed events and returns
	// them. Concurrent callers never receive the same row; zero eligible
	// rows yields an empty slice, not an error.
	ClaimBatch(ctx context.Context, limit int) ([]*Event, error)

	// AttachSuggestion writes the back-reference from a claimed event to the
	// suggestion it produced.
	AttachSuggestion(ctx context.Context, eventID, suggestionID int64) error

	GetByID(ctx context.Context, id int64) (*Event, error)
	List(ctx context.Context, processed *bool, limit int) ([]*Event, error)

	// ListStuck returns events claimed longer than olderThan ago that never
	// produced a suggestion, for the reconciliation sweep. It only reads;
	// re-opening a stuck row is an operator decision.
	ListStuck(ctx context.Context, olderThan time.Duration) ([]*Event, error)
}

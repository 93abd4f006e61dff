package events

import (
	"context"
	"sync"
	"time"
)

// InMemoryRepository mirrors the claim semantics of the Postgres repository
// for tests: claims are atomic under the mutex, so concurrent ClaimBatch
// calls never hand out the same event.
type InMemoryRepository struct {
	mu     sync.Mutex
	nextID int64
	events map[int64]*Event
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		nextID: 1,
		events: make(map[int64]*Event),
	}
}

func (r *InMemoryRepository) Insert(_ context.Context, e *Event) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e.ActivityID != nil {
		for _, existing := range r.events {
			if existing.ActivityID != nil && *existing.ActivityID == *e.ActivityID {
				return false, nil
			}
		}
	}

	e.ID = r.nextID
	r.nextID++
	e.CreatedAt = time.Now()
	e.UpdatedAt = e.CreatedAt
	copied := *e
	r.events[e.ID] = &copied
	return true, nil
}

func (r *InMemoryRepository) ClaimBatch(_ context.Context, limit int) ([]*Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var claimed []*Event
	for id := int64(1); id < r.nextID && len(claimed) < limit; id++ {
		e, ok := r.events[id]
		if !ok || e.ProcessedForSuggestion {
			continue
		}
		now := time.Now()
		e.ProcessedForSuggestion = true
		e.ClaimedAt = &now
		e.UpdatedAt = now
		copied := *e
		claimed = append(claimed, &copied)
	}
	return claimed, nil
}

func (r *InMemoryRepository) AttachSuggestion(_ context.Context, eventID, suggestionID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.events[eventID]
	if !ok {
		return ErrNotFound
	}
	e.SuggestionID = &suggestionID
	e.UpdatedAt = time.Now()
	return nil
}

func (r *InMemoryRepository) GetByID(_ context.Context, id int64) (*Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.events[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *e
	return &copied, nil
}

func (r *InMemoryRepository) List(_ context.Context, processed *bool, limit int) ([]*Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*Event
	for id := int64(1); id < r.nextID && len(out) < limit; id++ {
		e, ok := r.events[id]
		if !ok {
			continue
		}
		if processed != nil && e.ProcessedForSuggestion != *processed {
			continue
		}
		copied := *e
		out = append(out, &copied)
	}
	return out, nil
}

func (r *InMemoryRepository) ListStuck(_ context.Context, olderThan time.Duration) ([]*Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := time.Now().Add(-olderThan)
	var out []*Event
	for id := int64(1); id < r.nextID; id++ {
		e, ok := r.events[id]
		if !ok {
			continue
		}
		if e.ProcessedForSuggestion && e.SuggestionID == nil &&
			e.ClaimedAt != nil && e.ClaimedAt.Before(cutoff) {
			copied := *e
			out = append(out, &copied)
		}
	}
	return out, nil
}

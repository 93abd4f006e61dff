package suggestions

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// InMemoryRepository mirrors the Postgres repository's guards for tests:
// status updates only apply when the row is in the expected state, and
// claims are atomic under the mutex.
type InMemoryRepository struct {
	mu          sync.Mutex
	nextID      int64
	suggestions map[int64]*Suggestion
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		nextID:      1,
		suggestions: make(map[int64]*Suggestion),
	}
}

func (r *InMemoryRepository) Create(_ context.Context, s *Suggestion) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s.Status == "" {
		s.Status = StatusGenerated
	}
	if s.VendorFeedback == "" {
		s.VendorFeedback = FeedbackPending
	}
	s.ID = r.nextID
	r.nextID++
	s.CreatedAt = time.Now()
	s.UpdatedAt = s.CreatedAt

	copied := *s
	r.suggestions[s.ID] = &copied
	return nil
}

func (r *InMemoryRepository) GetByID(_ context.Context, id int64) (*Suggestion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.suggestions[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *s
	return &copied, nil
}

func (r *InMemoryRepository) List(_ context.Context, status *Status, limit int) ([]*Suggestion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*Suggestion
	for id := int64(1); id < r.nextID && len(out) < limit; id++ {
		s, ok := r.suggestions[id]
		if !ok {
			continue
		}
		if status != nil && s.Status != *status {
			continue
		}
		copied := *s
		out = append(out, &copied)
	}
	return out, nil
}

func (r *InMemoryRepository) SubmitFeedback(_ context.Context, id int64, fb Feedback) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.suggestions[id]
	if !ok {
		return ErrIllegalTransition
	}
	if s.Status != StatusGenerated && s.Status != StatusNotifiedVendor {
		return ErrIllegalTransition
	}
	s.VendorFeedback = fb
	s.Status = StatusFeedbackReceived
	s.UpdatedAt = time.Now()
	return nil
}

func (r *InMemoryRepository) ClaimForPublish(_ context.Context, limit int) ([]*Suggestion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var claimed []*Suggestion
	for id := int64(1); id < r.nextID && len(claimed) < limit; id++ {
		s, ok := r.suggestions[id]
		if !ok {
			continue
		}
		if s.Status != StatusFeedbackReceived ||
			s.VendorFeedback != FeedbackAccepted ||
			s.PublishClaimedAt != nil {
			continue
		}
		now := time.Now()
		s.PublishClaimedAt = &now
		s.UpdatedAt = now
		copied := *s
		claimed = append(claimed, &copied)
	}
	return claimed, nil
}

func (r *InMemoryRepository) MarkPosted(_ context.Context, id int64, request, response json.RawMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.suggestions[id]
	if !ok || s.Status != StatusFeedbackReceived {
		return ErrIllegalTransition
	}
	s.Status = StatusDealPosted
	s.PublishRequest = request
	s.PublishResponse = response
	s.PublishError = nil
	s.UpdatedAt = time.Now()
	return nil
}

func (r *InMemoryRepository) MarkPostFailed(_ context.Context, id int64, request json.RawMessage, publishErr string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.suggestions[id]
	if !ok || s.Status != StatusFeedbackReceived {
		return ErrIllegalTransition
	}
	s.Status = StatusDealPostFailed
	s.PublishRequest = request
	s.PublishError = &publishErr
	s.UpdatedAt = time.Now()
	return nil
}

func (r *InMemoryRepository) ResetFailed(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.suggestions[id]
	if !ok || s.Status != StatusDealPostFailed {
		return ErrIllegalTransition
	}
	s.Status = StatusFeedbackReceived
	s.PublishClaimedAt = nil
	s.PublishError = nil
	s.UpdatedAt = time.Now()
	return nil
}

func (r *InMemoryRepository) ExpireRejected(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for _, s := range r.suggestions {
		if s.Status == StatusFeedbackReceived && s.VendorFeedback == FeedbackRejected {
			s.Status = StatusExpired
			s.UpdatedAt = time.Now()
			n++
		}
	}
	return n, nil
}

func (r *InMemoryRepository) ExpireStale(_ context.Context, window time.Duration) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := time.Now().Add(-window)
	var n int64
	for _, s := range r.suggestions {
		if !s.Status.Terminal() && s.PublishClaimedAt == nil && s.CreatedAt.Before(cutoff) {
			s.Status = StatusExpired
			s.UpdatedAt = time.Now()
			n++
		}
	}
	return n, nil
}

func (r *InMemoryRepository) ListStuck(_ context.Context, olderThan time.Duration) ([]*Suggestion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := time.Now().Add(-olderThan)
	var out []*Suggestion
	for id := int64(1); id < r.nextID; id++ {
		s, ok := r.suggestions[id]
		if !ok {
			continue
		}
		if s.PublishClaimedAt != nil && s.PublishClaimedAt.Before(cutoff) && !s.Status.Terminal() {
			copied := *s
			out = append(out, &copied)
		}
	}
	return out, nil
}

package suggestions

import (
	"context"
	"testing"
	"time"
)

func newGenerated(t *testing.T, repo *InMemoryRepository) *Suggestion {
	t.Helper()

	s := &Suggestion{
		VendorID:       "vendor-1",
		EventID:        1,
		SKU:            "SKU-1",
		DealText:       "20% off everything",
		DiscountType:   DiscountPercentage,
		DiscountValue:  20,
		OriginalPrice:  100,
		SuggestedPrice: 80,
	}
	if err := repo.Create(context.Background(), s); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	return s
}

func TestSubmitFeedbackAdvancesStatus(t *testing.T) {
	repo := NewInMemoryRepository()
	s := newGenerated(t, repo)

	if err := repo.SubmitFeedback(context.Background(), s.ID, FeedbackAccepted); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, _ := repo.GetByID(context.Background(), s.ID)
	if got.Status != StatusFeedbackReceived {
		t.Fatalf("expected feedback_received, got %s", got.Status)
	}
	if got.VendorFeedback != FeedbackAccepted {
		t.Fatalf("expected accepted, got %s", got.VendorFeedback)
	}
}

func TestSubmitFeedbackRejectsTerminalRows(t *testing.T) {
	repo := NewInMemoryRepository()
	s := newGenerated(t, repo)

	repo.SubmitFeedback(context.Background(), s.ID, FeedbackAccepted)
	repo.ClaimForPublish(context.Background(), 1)
	repo.MarkPosted(context.Background(), s.ID, nil, nil)

	if err := repo.SubmitFeedback(context.Background(), s.ID, FeedbackRejected); err != ErrIllegalTransition {
		t.Fatalf("expected ErrIllegalTransition, got %v", err)
	}
}

func TestClaimForPublishOnlyTakesAcceptedFeedback(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	accepted := newGenerated(t, repo)
	rejected := newGenerated(t, repo)
	pending := newGenerated(t, repo)

	repo.SubmitFeedback(ctx, accepted.ID, FeedbackAccepted)
	repo.SubmitFeedback(ctx, rejected.ID, FeedbackRejected)
	_ = pending

	claimed, err := repo.ClaimForPublish(ctx, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(claimed) != 1 || claimed[0].ID != accepted.ID {
		t.Fatalf("expected only the accepted suggestion, got %d rows", len(claimed))
	}

	// Already claimed rows are not handed out twice.
	again, _ := repo.ClaimForPublish(ctx, 10)
	if len(again) != 0 {
		t.Fatalf("expected no rows on second claim, got %d", len(again))
	}
}

func TestResetFailedOnlyFromDealPostFailed(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()
	s := newGenerated(t, repo)

	if err := repo.ResetFailed(ctx, s.ID); err != ErrIllegalTransition {
		t.Fatalf("expected ErrIllegalTransition for generated row, got %v", err)
	}

	repo.SubmitFeedback(ctx, s.ID, FeedbackAccepted)
	repo.ClaimForPublish(ctx, 1)
	repo.MarkPostFailed(ctx, s.ID, nil, "timeout")

	if err := repo.ResetFailed(ctx, s.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, _ := repo.GetByID(ctx, s.ID)
	if got.Status != StatusFeedbackReceived {
		t.Fatalf("expected feedback_received after reset, got %s", got.Status)
	}
	if got.PublishClaimedAt != nil {
		t.Fatal("expected publish claim marker cleared after reset")
	}

	// The reset row is claimable again.
	claimed, _ := repo.ClaimForPublish(ctx, 1)
	if len(claimed) != 1 {
		t.Fatalf("expected reset row to be claimable, got %d rows", len(claimed))
	}
}

func TestExpireRejectedRemovesFromClaims(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()
	s := newGenerated(t, repo)

	repo.SubmitFeedback(ctx, s.ID, FeedbackRejected)

	n, err := repo.ExpireRejected(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 expired, got %d", n)
	}

	got, _ := repo.GetByID(ctx, s.ID)
	if got.Status != StatusExpired {
		t.Fatalf("expected expired, got %s", got.Status)
	}

	claimed, _ := repo.ClaimForPublish(ctx, 10)
	if len(claimed) != 0 {
		t.Fatal("expired suggestion must not be claimable")
	}
}

// backdate ages a stored suggestion's creation time for window tests.
func backdate(repo *InMemoryRepository, id int64, age time.Duration) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	repo.suggestions[id].CreatedAt = time.Now().Add(-age)
}

func TestExpireStaleSweepsPastValidityWindow(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()
	window := 7 * 24 * time.Hour

	stale := newGenerated(t, repo)
	backdate(repo, stale.ID, window+time.Hour)

	staleAwaiting := newGenerated(t, repo)
	repo.SubmitFeedback(ctx, staleAwaiting.ID, FeedbackAccepted)
	backdate(repo, staleAwaiting.ID, window+time.Hour)

	fresh := newGenerated(t, repo)

	n, err := repo.ExpireStale(ctx, window)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 expirations, got %d", n)
	}

	for _, id := range []int64{stale.ID, staleAwaiting.ID} {
		got, _ := repo.GetByID(ctx, id)
		if got.Status != StatusExpired {
			t.Fatalf("suggestion %d: expected expired, got %s", id, got.Status)
		}
	}
	got, _ := repo.GetByID(ctx, fresh.ID)
	if got.Status != StatusGenerated {
		t.Fatalf("fresh suggestion swept: %s", got.Status)
	}
}

func TestExpireStaleSkipsClaimedAndTerminalRows(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()
	window := 7 * 24 * time.Hour

	// Claimed for publishing: the publish outcome decides its fate, not the
	// validity window.
	claimed := newGenerated(t, repo)
	repo.SubmitFeedback(ctx, claimed.ID, FeedbackAccepted)
	repo.ClaimForPublish(ctx, 1)
	backdate(repo, claimed.ID, window+time.Hour)

	posted := newGenerated(t, repo)
	repo.SubmitFeedback(ctx, posted.ID, FeedbackAccepted)
	repo.ClaimForPublish(ctx, 1)
	repo.MarkPosted(ctx, posted.ID, nil, nil)
	backdate(repo, posted.ID, window+time.Hour)

	n, err := repo.ExpireStale(ctx, window)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected no expirations, got %d", n)
	}

	got, _ := repo.GetByID(ctx, claimed.ID)
	if got.Status != StatusFeedbackReceived {
		t.Fatalf("claimed row swept: %s", got.Status)
	}
	got, _ = repo.GetByID(ctx, posted.ID)
	if got.Status != StatusDealPosted {
		t.Fatalf("terminal row rewritten: %s", got.Status)
	}
}

func TestListStuckFindsOldClaimsWithoutOutcome(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	stuck := newGenerated(t, repo)
	repo.SubmitFeedback(ctx, stuck.ID, FeedbackAccepted)
	repo.ClaimForPublish(ctx, 1)

	finished := newGenerated(t, repo)
	repo.SubmitFeedback(ctx, finished.ID, FeedbackAccepted)
	repo.ClaimForPublish(ctx, 1)
	repo.MarkPosted(ctx, finished.ID, nil, nil)

	unclaimed := newGenerated(t, repo)
	_ = unclaimed

	// Age both claims past the threshold.
	repo.mu.Lock()
	past := time.Now().Add(-time.Hour)
	repo.suggestions[stuck.ID].PublishClaimedAt = &past
	repo.suggestions[finished.ID].PublishClaimedAt = &past
	repo.mu.Unlock()

	got, err := repo.ListStuck(ctx, 30*time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ID != stuck.ID {
		t.Fatalf("expected only the unfinished claim, got %d rows", len(got))
	}
}

func TestListStuckIgnoresFreshClaims(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	s := newGenerated(t, repo)
	repo.SubmitFeedback(ctx, s.ID, FeedbackAccepted)
	repo.ClaimForPublish(ctx, 1)

	got, err := repo.ListStuck(ctx, 30*time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("fresh claim reported stuck: %d rows", len(got))
	}
}

package events

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
)

func seedEvents(t *testing.T, repo *InMemoryRepository, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		_, err := repo.Insert(context.Background(), &Event{
			VendorID:     "vendor-1",
			LocationUUID: uuid.New(),
			TriggerPoint: TriggerStockLevel,
			Details:      map[string]any{"note": "low stock"},
		})
		if err != nil {
			t.Fatalf("insert failed: %v", err)
		}
	}
}

func TestClaimBatchMarksEventsProcessed(t *testing.T) {
	repo := NewInMemoryRepository()
	seedEvents(t, repo, 3)

	claimed, err := repo.ClaimBatch(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(claimed) != 3 {
		t.Fatalf("expected 3 claimed, got %d", len(claimed))
	}
	for _, e := range claimed {
		if !e.ProcessedForSuggestion {
			t.Errorf("event %d not marked processed", e.ID)
		}
		if e.ClaimedAt == nil {
			t.Errorf("event %d missing claim timestamp", e.ID)
		}
	}

	// Nothing left to claim.
	again, _ := repo.ClaimBatch(context.Background(), 10)
	if len(again) != 0 {
		t.Fatalf("expected empty second claim, got %d", len(again))
	}
}

func TestClaimBatchEmptyTableIsNotAnError(t *testing.T) {
	repo := NewInMemoryRepository()

	claimed, err := repo.ClaimBatch(context.Background(), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(claimed) != 0 {
		t.Fatalf("expected no claims, got %d", len(claimed))
	}
}

// Two concurrent claimers racing over 5 events with batch size 3 must end
// with all 5 claimed exactly once between them.
func TestConcurrentClaimersAreDisjointAndExhaustive(t *testing.T) {
	repo := NewInMemoryRepository()
	seedEvents(t, repo, 5)

	var mu sync.Mutex
	seen := make(map[int64]int)

	var wg sync.WaitGroup
	for w := 0; w < 2; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				claimed, err := repo.ClaimBatch(context.Background(), 3)
				if err != nil {
					t.Errorf("claim failed: %v", err)
					return
				}
				if len(claimed) == 0 {
					return
				}
				mu.Lock()
				for _, e := range claimed {
					seen[e.ID]++
				}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if len(seen) != 5 {
		t.Fatalf("expected all 5 events claimed, got %d", len(seen))
	}
	for id, count := range seen {
		if count != 1 {
			t.Errorf("event %d claimed %d times", id, count)
		}
	}
}

func TestInsertDeduplicatesOnActivityID(t *testing.T) {
	repo := NewInMemoryRepository()
	activityID := "act-1"

	first := &Event{
		VendorID:     "vendor-1",
		LocationUUID: uuid.New(),
		ActivityID:   &activityID,
		TriggerPoint: TriggerLocalEvent,
	}
	inserted, err := repo.Insert(context.Background(), first)
	if err != nil || !inserted {
		t.Fatalf("expected first insert to succeed, inserted=%v err=%v", inserted, err)
	}

	dup := &Event{
		VendorID:     "vendor-2",
		LocationUUID: uuid.New(),
		ActivityID:   &activityID,
		TriggerPoint: TriggerLocalEvent,
	}
	inserted, err = repo.Insert(context.Background(), dup)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inserted {
		t.Fatal("expected duplicate activity to be skipped")
	}
}

func TestListStuckFindsClaimedWithoutSuggestion(t *testing.T) {
	repo := NewInMemoryRepository()
	seedEvents(t, repo, 2)

	claimed, _ := repo.ClaimBatch(context.Background(), 2)
	if err := repo.AttachSuggestion(context.Background(), claimed[0].ID, 42); err != nil {
		t.Fatalf("attach failed: %v", err)
	}

	stuck, err := repo.ListStuck(context.Background(), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stuck) != 1 || stuck[0].ID != claimed[1].ID {
		t.Fatalf("expected only the fruitless claim to be stuck, got %d rows", len(stuck))
	}
}

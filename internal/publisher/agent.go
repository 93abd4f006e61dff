package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/bitthal/Deals-Agent/internal/archive"
	"github.com/bitthal/Deals-Agent/internal/events"
	"github.com/bitthal/Deals-Agent/internal/suggestions"
	"github.com/bitthal/Deals-Agent/internal/upswap"
)

// DealPublisher is the outbound publish call. Satisfied by *upswap.Client.
type DealPublisher interface {
	CreateDeal(ctx context.Context, req upswap.CreateDealRequest) (json.RawMessage, error)
}

// Agent is the deal publishing worker. It claims accepted suggestions,
// publishes them, and moves each row to a terminal status. A failed publish
// is terminal too: the call may have taken effect remotely, so blind
// retries risk duplicate public deals. Re-opening a failed row is an
// explicit operator action on the admin API.
type Agent struct {
	suggestions suggestions.Repository
	events      events.Repository
	publisher   DealPublisher
	archive     *archive.Archive

	batchSize      int
	interval       time.Duration
	validityWindow time.Duration
}

func NewAgent(
	sug suggestions.Repository,
	ev events.Repository,
	pub DealPublisher,
	arc *archive.Archive,
	batchSize int,
	interval time.Duration,
	validityWindow time.Duration,
) *Agent {
	return &Agent{
		suggestions:    sug,
		events:         ev,
		publisher:      pub,
		archive:        arc,
		batchSize:      batchSize,
		interval:       interval,
		validityWindow: validityWindow,
	}
}

func (a *Agent) Run(ctx context.Context) {
	log.Printf("deal publisher started interval=%s batch=%d", a.interval, a.batchSize)

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	a.RunOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			log.Println("deal publisher stopped")
			return
		case <-ticker.C:
			a.RunOnce(ctx)
		}
	}
}

// RunOnce sweeps expirations first, then claims and publishes one batch.
func (a *Agent) RunOnce(ctx context.Context) {
	if n, err := a.suggestions.ExpireRejected(ctx); err != nil {
		log.Printf("expiring rejected suggestions failed: %v", err)
	} else if n > 0 {
		log.Printf("expired %d rejected suggestions", n)
	}

	if n, err := a.suggestions.ExpireStale(ctx, a.validityWindow); err != nil {
		log.Printf("expiring stale suggestions failed: %v", err)
	} else if n > 0 {
		log.Printf("expired %d stale suggestions", n)
	}

	claimed, err := a.suggestions.ClaimForPublish(ctx, a.batchSize)
	if err != nil {
		log.Printf("claim for publish failed: %v", err)
		return
	}
	if len(claimed) == 0 {
		return
	}
	log.Printf("claimed %d suggestions for publishing", len(claimed))

	for _, s := range claimed {
		a.publishSuggestion(ctx, s)
	}
}

// publishSuggestion sends exactly one publish call for a claimed suggestion
// and records the outcome. There is no retry path here under any failure.
func (a *Agent) publishSuggestion(ctx context.Context, s *suggestions.Suggestion) {
	req, err := a.buildRequest(ctx, s)
	if err != nil {
		log.Printf("suggestion=%d building publish request failed: %v", s.ID, err)
		if markErr := a.suggestions.MarkPostFailed(ctx, s.ID, nil, err.Error()); markErr != nil {
			log.Printf("suggestion=%d marking post failed: %v", s.ID, markErr)
		}
		return
	}

	reqJSON, err := json.Marshal(req)
	if err != nil {
		log.Printf("suggestion=%d marshalling publish request failed: %v", s.ID, err)
		return
	}

	raw, err := a.publisher.CreateDeal(ctx, req)
	if err != nil {
		log.Printf("suggestion=%d publish failed: %v", s.ID, err)
		if markErr := a.suggestions.MarkPostFailed(ctx, s.ID, reqJSON, err.Error()); markErr != nil {
			log.Printf("suggestion=%d marking post failed: %v", s.ID, markErr)
		}
		return
	}

	if err := a.suggestions.MarkPosted(ctx, s.ID, reqJSON, raw); err != nil {
		log.Printf("suggestion=%d marking posted failed: %v", s.ID, err)
		return
	}

	if a.archive != nil {
		if _, err := a.archive.StorePayload(ctx, "publish", s.ID, raw); err != nil {
			log.Printf("suggestion=%d archiving publish response failed: %v", s.ID, err)
		}
	}

	log.Printf("suggestion=%d published sku=%s deal price %.2f", s.ID, s.SKU, s.SuggestedPrice)
}

func (a *Agent) buildRequest(ctx context.Context, s *suggestions.Suggestion) (upswap.CreateDealRequest, error) {
	e, err := a.events.GetByID(ctx, s.EventID)
	if err != nil {
		return upswap.CreateDealRequest{}, fmt.Errorf("source event %d: %w", s.EventID, err)
	}

	now := time.Now().UTC()
	end := now.Add(a.validityWindow)

	// Rune-wise so a multibyte character in the deal text is never split.
	title := s.DealText
	if runes := []rune(title); len(runes) > 80 {
		title = string(runes[:77]) + "..."
	}

	return upswap.CreateDealRequest{
		DealTitle:       title,
		DealDescription: s.DealText,
		SelectService:   "retail",
		UploadedImages:  []string{},
		StartDate:       now.Format("2006-01-02"),
		EndDate:         end.Format("2006-01-02"),
		StartTime:       now.Format("15:04:05"),
		EndTime:         end.Format("15:04:05"),
		StartNow:        "true",
		ActualPrice:     fmt.Sprintf("%.2f", s.OriginalPrice),
		DealPrice:       fmt.Sprintf("%.2f", s.SuggestedPrice),
		AvailableDeals:  "10",
		VendorKYC:       s.VendorID,
		Latitude:        e.Latitude,
		Longitude:       e.Longitude,
	}, nil
}

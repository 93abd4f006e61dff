package processor

import (
	"context"
	"log"
	"time"

	"github.com/bitthal/Deals-Agent/internal/archive"
	"github.com/bitthal/Deals-Agent/internal/events"
	"github.com/bitthal/Deals-Agent/internal/inventory"
	"github.com/bitthal/Deals-Agent/internal/llm"
	"github.com/bitthal/Deals-Agent/internal/suggestions"
)

// maxGenerationAttempts bounds the in-tick retry of transient generation
// failures.
const maxGenerationAttempts = 3

// Agent is the event processing worker: claim a batch of unprocessed
// events, build inventory context, call the generator, persist suggestions.
// Multiple instances may run against the same database; the claim query is
// the only coordination between them.
type Agent struct {
	events      events.Repository
	inventory   inventory.Repository
	suggestions suggestions.Repository
	generator   llm.Client
	archive     *archive.Archive

	batchSize    int
	interval     time.Duration
	retryBackoff time.Duration
}

func NewAgent(
	ev events.Repository,
	inv inventory.Repository,
	sug suggestions.Repository,
	generator llm.Client,
	arc *archive.Archive,
	batchSize int,
	interval time.Duration,
) *Agent {
	return &Agent{
		events:       ev,
		inventory:    inv,
		suggestions:  sug,
		generator:    generator,
		archive:      arc,
		batchSize:    batchSize,
		interval:     interval,
		retryBackoff: time.Second,
	}
}

// Run polls until the context is cancelled. One batch per tick; nothing a
// single row does can break the loop.
func (a *Agent) Run(ctx context.Context) {
	log.Printf("event processor started interval=%s batch=%d", a.interval, a.batchSize)

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	a.RunOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			log.Println("event processor stopped")
			return
		case <-ticker.C:
			a.RunOnce(ctx)
		}
	}
}

// RunOnce claims and processes one batch.
func (a *Agent) RunOnce(ctx context.Context) {
	claimed, err := a.events.ClaimBatch(ctx, a.batchSize)
	if err != nil {
		log.Printf("claim batch failed: %v", err)
		return
	}
	if len(claimed) == 0 {
		return
	}
	log.Printf("claimed %d events for processing", len(claimed))

	for _, e := range claimed {
		a.processEvent(ctx, e)
	}
}

// processEvent runs one claimed event to its outcome. The claim is already
// durable, so every failure path below leaves a claimed event with no
// suggestion behind: terminal and inspectable, never retried, never lost.
func (a *Agent) processEvent(ctx context.Context, e *events.Event) {
	items, err := a.inventory.CandidatesForEvent(ctx, e.VendorID, e.TriggerPoint)
	if err != nil {
		log.Printf("event=%d inventory lookup failed: %v", e.ID, err)
		return
	}
	if len(items) == 0 {
		log.Printf("event=%d vendor=%s has no inventory, skipping generation", e.ID, e.VendorID)
		return
	}

	result, err := a.generateWithRetry(ctx, buildRequest(e, items))
	if err != nil {
		log.Printf("event=%d generation failed, event stays claimed: %v", e.ID, err)
		return
	}

	s := &suggestions.Suggestion{
		VendorID:         e.VendorID,
		EventID:          e.ID,
		SKU:              result.Suggestion.SKU,
		GenerationPrompt: result.Prompt,
		DealText:         result.Suggestion.DealText,
		DiscountType:     suggestions.DiscountType(result.Suggestion.DiscountType),
		DiscountValue:    result.Suggestion.DiscountValue,
		OriginalPrice:    result.Suggestion.OriginalPrice,
		SuggestedPrice:   result.Suggestion.SuggestedPrice,
		ModelName:        result.ModelName,
		RawAIResponse:    result.Raw,
		Status:           suggestions.StatusGenerated,
		VendorFeedback:   suggestions.FeedbackPending,
	}
	if err := a.suggestions.Create(ctx, s); err != nil {
		log.Printf("event=%d persisting suggestion failed: %v", e.ID, err)
		return
	}

	if err := a.events.AttachSuggestion(ctx, e.ID, s.ID); err != nil {
		log.Printf("event=%d attaching suggestion=%d failed: %v", e.ID, s.ID, err)
	}

	if a.archive != nil {
		if _, err := a.archive.StorePayload(ctx, "generation", s.ID, result.Raw); err != nil {
			log.Printf("suggestion=%d archiving raw response failed: %v", s.ID, err)
		}
	}

	log.Printf("event=%d suggestion=%d sku=%s price %.2f -> %.2f",
		e.ID, s.ID, s.SKU, s.OriginalPrice, s.SuggestedPrice)
}

// generateWithRetry retries transient failures with exponential backoff,
// all within the current tick. Permanent failures abort immediately.
func (a *Agent) generateWithRetry(ctx context.Context, req llm.SuggestionRequest) (*llm.Result, error) {
	backoff := a.retryBackoff
	var lastErr error

	for attempt := 1; attempt <= maxGenerationAttempts; attempt++ {
		result, err := a.generator.SuggestDeal(ctx, req)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !llm.IsTransient(err) {
			return nil, err
		}
		if attempt == maxGenerationAttempts {
			break
		}

		log.Printf("transient generation failure (attempt %d/%d), retrying in %s: %v",
			attempt, maxGenerationAttempts, backoff, err)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return nil, lastErr
}

func buildRequest(e *events.Event, items []*inventory.Item) llm.SuggestionRequest {
	req := llm.SuggestionRequest{
		EventData: llm.EventData{
			VendorID:     e.VendorID,
			LocationUUID: e.LocationUUID.String(),
			TriggerPoint: string(e.TriggerPoint),
			Details:      e.Details,
			Latitude:     e.Latitude,
			Longitude:    e.Longitude,
			Timestamp:    e.Timestamp,
		},
	}
	for _, item := range items {
		req.InventoryItems = append(req.InventoryItems, llm.InventoryItem{
			SKU:            item.SKU,
			ProductName:    item.ProductName,
			Description:    item.Description,
			Price:          item.Price,
			QuantityOnHand: item.QuantityOnHand,
			Category:       item.Category,
			Supplier:       item.Supplier,
		})
	}
	return req
}

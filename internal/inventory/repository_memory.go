package inventory

import (
	"context"
	"sort"
	"sync"

	"github.com/bitthal/Deals-Agent/internal/events"
)

type InMemoryRepository struct {
	mu    sync.Mutex
	items map[string]*Item
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{items: make(map[string]*Item)}
}

func (r *InMemoryRepository) Put(item *Item) {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *item
	r.items[item.SKU] = &copied
}

func (r *InMemoryRepository) CandidatesForEvent(
	_ context.Context,
	vendorID string,
	_ events.TriggerPoint,
) ([]*Item, error) {

	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*Item
	for _, item := range r.items {
		if item.VendorID == vendorID && item.QuantityOnHand > 0 {
			copied := *item
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].QuantityOnHand > out[j].QuantityOnHand
	})
	if len(out) > candidateLimit {
		out = out[:candidateLimit]
	}
	return out, nil
}

func (r *InMemoryRepository) GetBySKU(_ context.Context, sku string) (*Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[sku]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *item
	return &copied, nil
}

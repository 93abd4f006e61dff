package inventory

import (
	"context"
	"errors"

	"github.com/bitthal/Deals-Agent/internal/events"
)

var ErrNotFound = errors.New("inventory item not found")

// candidateLimit caps how many items go into a generation prompt.
const candidateLimit = 20

type Repository interface {
	// CandidatesForEvent returns the vendor's items ordered by relevance to
	// the trigger: stock_level surfaces overstocked items first,
	// product_expiry surfaces perishable categories, everything else falls
	// back to highest stock first.
	CandidatesForEvent(ctx context.Context, vendorID string, trigger events.TriggerPoint) ([]*Item, error)

	GetBySKU(ctx context.Context, sku string) (*Item, error)
}

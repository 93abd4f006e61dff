package llm

import (
	"context"
	"encoding/json"
	"time"
)

// EventData is the event context handed to the generator.
type EventData struct {
	VendorID     string         `json:"vendor_id"`
	LocationUUID string         `json:"location_uuid"`
	TriggerPoint string         `json:"event_trigger_point"`
	Details      map[string]any `json:"event_details_text"`
	Latitude     float64        `json:"event_location_latitude"`
	Longitude    float64        `json:"event_location_longitude"`
	Timestamp    time.Time      `json:"event_timestamp"`
}

// InventoryItem is one candidate product for the deal.
type InventoryItem struct {
	SKU            string  `json:"sku"`
	ProductName    string  `json:"product_name"`
	Description    string  `json:"description"`
	Price          float64 `json:"price"`
	QuantityOnHand int     `json:"quantity_on_hand"`
	Category       string  `json:"category"`
	Supplier       string  `json:"supplier"`
}

type SuggestionRequest struct {
	EventData      EventData       `json:"event_data"`
	InventoryItems []InventoryItem `json:"inventory_items"`
}

// DealSuggestion is the validated generator output.
type DealSuggestion struct {
	SKU            string  `json:"suggested_product_sku"`
	DealText       string  `json:"deal_details_suggestion_text"`
	DiscountType   string  `json:"suggested_discount_type"`
	DiscountValue  float64 `json:"suggested_discount_value"`
	OriginalPrice  float64 `json:"original_price"`
	SuggestedPrice float64 `json:"suggested_price"`
}

// Result bundles the validated suggestion with the audit material: the
// prompt that was sent, the model that answered and its raw response
// retained verbatim.
type Result struct {
	Suggestion DealSuggestion
	ModelName  string
	Prompt     string
	Raw        json.RawMessage
}

type Client interface {
	SuggestDeal(ctx context.Context, req SuggestionRequest) (*Result, error)
}

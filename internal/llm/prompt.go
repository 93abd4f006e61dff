package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// BuildDealPrompt renders the generation request into a prompt that demands
// strict JSON-only output matching the DealSuggestion schema.
func BuildDealPrompt(req SuggestionRequest) string {
	eventJSON, _ := json.MarshalIndent(req.EventData, "", "  ")

	var inv strings.Builder
	for _, item := range req.InventoryItems {
		fmt.Fprintf(&inv, "- %s: %s (%s) - %.2f - %d available\n",
			item.SKU, item.ProductName, item.Category, item.Price, item.QuantityOnHand)
	}

	return fmt.Sprintf(`You are an expert marketing assistant. Analyze the event details and the
inventory below and suggest ONE compelling product deal.

Event:
%s

Inventory:
%s
Rules:
- Select exactly ONE product; 'suggested_product_sku' MUST be a SKU from the inventory above.
- Use that product's price as 'original_price'.
- 'suggested_discount_type' is 'percentage' or 'fixed_amount'. Nothing else.
- If 'percentage', 'suggested_discount_value' is the percent number (e.g. 20 for 20%%).
- If 'fixed_amount', 'suggested_discount_value' is the currency amount (e.g. 80.00).
- Discounts should be 10-30%% or a meaningful fixed amount.
- Calculate 'suggested_price' from the discount.
- 'deal_details_suggestion_text' should be catchy, concise and highlight the savings.

Output MUST be a single valid JSON object and NOTHING else:
{
  "suggested_product_sku": "string",
  "deal_details_suggestion_text": "string",
  "suggested_discount_type": "string",
  "suggested_discount_value": 0.0,
  "original_price": 0.0,
  "suggested_price": 0.0
}`, string(eventJSON), inv.String())
}

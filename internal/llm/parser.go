package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bitthal/Deals-Agent/internal/suggestions"
)

// ParseSuggestion validates the generator's text output against the
// inventory that was offered. Models occasionally wrap JSON in markdown
// fences or invent SKUs and prices; everything not derivable from the
// inventory is overruled or rejected. Rejections are permanent errors.
func ParseSuggestion(output string, items []InventoryItem) (*DealSuggestion, error) {
	cleaned := stripFences(output)

	var ds DealSuggestion
	if err := json.Unmarshal([]byte(cleaned), &ds); err != nil {
		return nil, Permanent(fmt.Errorf("generator returned non-JSON output: %w", err))
	}

	var selected *InventoryItem
	for i := range items {
		if items[i].SKU == ds.SKU {
			selected = &items[i]
			break
		}
	}
	if selected == nil {
		return nil, Permanent(fmt.Errorf("suggested SKU %q not in offered inventory", ds.SKU))
	}

	if ds.DealText == "" {
		return nil, Permanent(fmt.Errorf("empty deal text for SKU %q", ds.SKU))
	}

	dt := suggestions.DiscountType(ds.DiscountType)
	if !dt.Valid() {
		return nil, Permanent(fmt.Errorf("unknown discount type %q", ds.DiscountType))
	}

	// The inventory price is authoritative; the suggested price is always
	// recomputed rather than trusted.
	ds.OriginalPrice = selected.Price
	price, err := suggestions.SuggestedPrice(ds.OriginalPrice, dt, ds.DiscountValue)
	if err != nil {
		return nil, Permanent(err)
	}
	ds.SuggestedPrice = price

	return &ds, nil
}

// stripFences removes a surrounding ```json ... ``` (or plain ```) block.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

package inventory

import (
	"testing"
	"time"
)

// stubRow feeds scanItem a row without a database. nil marks a NULL column.
type stubRow struct {
	values []any
}

func (r stubRow) Scan(dest ...any) error {
	for idx, d := range dest {
		v := r.values[idx]
		switch d := d.(type) {
		case *string:
			*d = v.(string)
		case **string:
			if v == nil {
				*d = nil
			} else {
				s := v.(string)
				*d = &s
			}
		case *float64:
			*d = v.(float64)
		case *int:
			*d = v.(int)
		case *time.Time:
			*d = v.(time.Time)
		}
	}
	return nil
}

func TestScanItemToleratesNullColumns(t *testing.T) {
	now := time.Now()
	item, err := scanItem(stubRow{values: []any{
		"SKU-1", "Widget", nil, 200.0, 5, nil, nil, "vendor-1", now, now,
	}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.SKU != "SKU-1" || item.ProductName != "Widget" {
		t.Fatalf("wrong item: %+v", item)
	}
	if item.Description != "" || item.Category != "" || item.Supplier != "" {
		t.Fatalf("expected empty strings for NULL columns, got %+v", item)
	}
}

func TestScanItemKeepsPresentColumns(t *testing.T) {
	now := time.Now()
	item, err := scanItem(stubRow{values: []any{
		"SKU-2", "Cheese", "aged gouda", 80.0, 12, "dairy", "Acme Farms", "vendor-1", now, now,
	}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.Description != "aged gouda" || item.Category != "dairy" || item.Supplier != "Acme Farms" {
		t.Fatalf("nullable columns lost: %+v", item)
	}
}

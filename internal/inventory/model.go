package inventory

import "time"

// Item is read-only reference data owned by the inventory service. The
// pipeline only reads it to build generation context and to pin the
// original price of a suggested deal.
type Item struct {
	SKU            string    `json:"sku"`
	ProductName    string    `json:"product_name"`
	Description    string    `json:"description,omitempty"`
	Price          float64   `json:"price"`
	QuantityOnHand int       `json:"quantity_on_hand"`
	Category       string    `json:"category,omitempty"`
	Supplier       string    `json:"supplier,omitempty"`
	VendorID       string    `json:"vendor_id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

package inventory

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bitthal/Deals-Agent/internal/events"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const itemColumns = `
	sku, product_name, description, price, quantity_on_hand,
	category, supplier, vendor_id, created_at, updated_at
`

func (r *PostgresRepository) CandidatesForEvent(
	ctx context.Context,
	vendorID string,
	trigger events.TriggerPoint,
) ([]*Item, error) {

	orderBy := "quantity_on_hand DESC"
	switch trigger {
	case events.TriggerProductExpiry:
		// Perishables first, then whatever is most stocked.
		orderBy = `(category IN ('food', 'dairy', 'bakery', 'produce')) DESC, quantity_on_hand DESC`
	case events.TriggerStockLevel:
		orderBy = "quantity_on_hand DESC"
	}

	rows, err := r.db.Query(ctx, `
		SELECT `+itemColumns+`
		FROM inventory
		WHERE vendor_id = $1
		  AND quantity_on_hand > 0
		ORDER BY `+orderBy+`
		LIMIT $2
	`, vendorID, candidateLimit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *PostgresRepository) GetBySKU(ctx context.Context, sku string) (*Item, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+itemColumns+`
		FROM inventory
		WHERE sku = $1
	`, sku)

	item, err := scanItem(row)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	return item, err
}

func scanItem(row pgx.Row) (*Item, error) {
	var i Item
	// description, category and supplier are nullable; the table is written
	// by the inventory service, not us.
	var description, category, supplier *string
	if err := row.Scan(
		&i.SKU,
		&i.ProductName,
		&description,
		&i.Price,
		&i.QuantityOnHand,
		&category,
		&supplier,
		&i.VendorID,
		&i.CreatedAt,
		&i.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if description != nil {
		i.Description = *description
	}
	if category != nil {
		i.Category = *category
	}
	if supplier != nil {
		i.Supplier = *supplier
	}
	return &i, nil
}

package catalog

import (
	"context"
	"fmt"

	"github.com/bakudeals/deal-scout/internal/database"
	"github.com/bakudeals/deal-scout/internal/models"
)

// TableProvider reads the product feed from the products table, for
// deployments where the feed is imported with the seeder instead of shipped
// as a file.
type TableProvider struct {
	db *database.DB
}

// NewTableProvider creates a provider backed by the given database.
func NewTableProvider(db *database.DB) *TableProvider {
	return &TableProvider{db: db}
}

// LoadAll queries the full products table and maps each row.
func (p *TableProvider) LoadAll(ctx context.Context) ([]models.Product, error) {
	rows, err := p.db.Pool.Query(ctx, `
		SELECT id::text, market, product_name, brand, category,
			COALESCE(previous_price, 0)::text,
			COALESCE(current_price, 0)::text,
			COALESCE(discount_percent, 0)::text,
			COALESCE(unit, ''),
			COALESCE(image_url, '')
		FROM products
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var raw rawRow
		if err := rows.Scan(
			&raw.ID, &raw.Market, &raw.ProductName, &raw.Brand, &raw.Category,
			&raw.PreviousPrice, &raw.CurrentPrice, &raw.DiscountPercent,
			&raw.Unit, &raw.ImageURL,
		); err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		products = append(products, mapRow(raw))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}

	return products, nil
}

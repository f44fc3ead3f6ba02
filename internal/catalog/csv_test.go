package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bakudeals/deal-scout/internal/models"
)

const testFeed = `id,market,journal_date,discount_start_date,discount_end_date,product_name,brand,category,previous_price,current_price,discount_percent,unit,image_url
1,BRAVO KOROGLU,2024-01-10,2024-01-10,2024-01-17,Azercay qara cay,Azercay,Cay,"3,50","3,00",,100 paket,https://cdn.example.com/cay.jpg
2,ARAZ SUPERMARKET,2024-01-10,2024-01-10,2024-01-17,Sevimli Dad kere yagi,,Kərə yağı,8.00,6.50,19,82.5% / kq,
3,OBA MARKET,2024-01-10,2024-01-10,2024-01-17,Mystery item,Generic,,2.00,2.00,,,
`

func writeFeed(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "feed.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCSVProviderLoadAll(t *testing.T) {
	provider := NewCSVProvider(writeFeed(t, testFeed))

	products, err := provider.LoadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 3)

	t.Run("maps feed conventions", func(t *testing.T) {
		p := products[0]
		assert.Equal(t, "1", p.ID)
		assert.Equal(t, "BRAVO KOROGLU", p.Store)
		assert.Equal(t, "Cay", p.Name)
		assert.Equal(t, "Azercay", p.Brand)
		assert.Equal(t, "Azercay qara cay", p.Description)
		assert.Equal(t, "100 paket", p.Details)
		assert.InDelta(t, 3.00, p.Price, 1e-9)
		assert.InDelta(t, 3.50, p.OriginalPrice, 1e-9)
	})

	t.Run("derives discount when the feed omits it", func(t *testing.T) {
		// (3.50 - 3.00) / 3.50 rounds to 14.
		assert.Equal(t, 14, products[0].DiscountPercent)
		// Explicit feed value is kept as-is.
		assert.Equal(t, 19, products[1].DiscountPercent)
	})

	t.Run("fills sentinel fallbacks", func(t *testing.T) {
		assert.Equal(t, "Generic", products[1].Brand)
		assert.Equal(t, models.PlaceholderImageURL, products[1].ImageURL)
		assert.Equal(t, models.UnknownProductName, products[2].Name)
	})
}

func TestCSVProviderMissingFile(t *testing.T) {
	provider := NewCSVProvider(filepath.Join(t.TempDir(), "nope.csv"))

	products, err := provider.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestCSVProviderCancelledContext(t *testing.T) {
	provider := NewCSVProvider(writeFeed(t, testFeed))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := provider.LoadAll(ctx)
	assert.Error(t, err)
}

func TestMapRowFallbackID(t *testing.T) {
	p := mapRow(rawRow{
		Market:       "BRAVO",
		ProductName:  "Azercay qara cay",
		Brand:        "Azercay",
		Unit:         "100 paket",
		CurrentPrice: "3.00",
	})
	assert.Len(t, p.ID, 32)

	// Same inputs reproduce the same id.
	again := mapRow(rawRow{
		Market:       "BRAVO",
		ProductName:  "Azercay qara cay",
		Brand:        "Azercay",
		Unit:         "100 paket",
		CurrentPrice: "3.00",
	})
	assert.Equal(t, p.ID, again.ID)
}

func TestFilterUsable(t *testing.T) {
	products := []models.Product{
		{ID: "1", Name: "Cay"},
		{ID: "2", Name: models.UnknownProductName},
		{ID: "3", Name: "Un"},
	}

	usable := FilterUsable(products)
	require.Len(t, usable, 2)
	assert.Equal(t, "1", usable[0].ID)
	assert.Equal(t, "3", usable[1].ID)
}

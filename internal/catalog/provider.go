package catalog

import (
	"context"
	"crypto/md5"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/bakudeals/deal-scout/internal/models"
)

// Provider loads the full product/price snapshot from one catalog source.
// The rest of the system is source-agnostic.
type Provider interface {
	LoadAll(ctx context.Context) ([]models.Product, error)
}

// rawRow is one source row before domain mapping, shared by the CSV and
// Postgres providers.
type rawRow struct {
	ID              string
	Market          string
	ProductName     string
	Brand           string
	Category        string
	PreviousPrice   string
	CurrentPrice    string
	DiscountPercent string
	Unit            string
	ImageURL        string
}

// mapRow transforms a source row into a Product, applying the feed
// conventions: category becomes the generic name, product_name the
// description, missing brand falls back to "Generic", the discount percent
// is derived from prices when the source omits it.
func mapRow(row rawRow) models.Product {
	id := strings.TrimSpace(row.ID)
	if id == "" {
		// Stable fallback for sources without row ids.
		sum := md5.Sum([]byte(strings.Join([]string{row.Market, row.ProductName, row.Brand, row.Unit, row.CurrentPrice}, "-")))
		id = fmt.Sprintf("%x", sum)
	}

	oldPrice := parsePrice(row.PreviousPrice)
	newPrice := parsePrice(row.CurrentPrice)

	discount := 0
	if v, err := strconv.Atoi(strings.TrimSpace(row.DiscountPercent)); err == nil {
		discount = v
	}
	if discount == 0 && oldPrice > 0 && newPrice > 0 && oldPrice > newPrice {
		discount = int(math.Round((oldPrice - newPrice) / oldPrice * 100))
	}

	store := strings.TrimSpace(row.Market)
	if store == "" {
		store = "Unknown Store"
	}
	name := strings.TrimSpace(row.Category)
	if name == "" {
		name = models.UnknownProductName
	}
	brand := strings.TrimSpace(row.Brand)
	if brand == "" {
		brand = "Generic"
	}
	image := strings.TrimSpace(row.ImageURL)
	if image == "" {
		image = models.PlaceholderImageURL
	}

	return models.Product{
		ID:              id,
		Store:           store,
		Name:            name,
		Brand:           brand,
		Description:     strings.TrimSpace(row.ProductName),
		Price:           newPrice,
		OriginalPrice:   oldPrice,
		DiscountPercent: discount,
		Details:         strings.TrimSpace(row.Unit),
		ImageURL:        image,
	}
}

func parsePrice(s string) float64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// FilterUsable drops the "Unknown Product" sentinel rows that carry no
// category.
func FilterUsable(products []models.Product) []models.Product {
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if p.Name == models.UnknownProductName {
			continue
		}
		out = append(out, p)
	}
	return out
}

package models

// PlaceholderImageURL marks products whose feed row carried no image.
const PlaceholderImageURL = "https://cdn.deal-scout.app/static/product-placeholder.png"

// UnknownProductName is the sentinel used for feed rows with a missing
// category. Products carrying it are excluded from every downstream
// operation.
const UnknownProductName = "Unknown Product"

// Product is one catalog row: a single product offer at a single store.
// The catalog is read-only and refreshed per load.
type Product struct {
	ID              string  `json:"id"`
	Store           string  `json:"store"`
	Name            string  `json:"name"`
	Brand           string  `json:"brand"`
	Description     string  `json:"description"`
	Price           float64 `json:"price"`
	OriginalPrice   float64 `json:"originalPrice"`
	DiscountPercent int     `json:"discountPercent"`
	Details         string  `json:"details,omitempty"`
	ImageURL        string  `json:"imageUrl"`
}

// Savings is the per-unit discount amount, floored at zero.
func (p Product) Savings() float64 {
	if s := p.OriginalPrice - p.Price; s > 0 {
		return s
	}
	return 0
}

// HasUsableImage reports whether the product carries a real (non-placeholder)
// image URL, which qualifies it as a home-feed hero candidate.
func (p Product) HasUsableImage() bool {
	return p.ImageURL != "" && p.ImageURL != PlaceholderImageURL
}

// DisplayName is the specific product text shown to users, falling back to
// the generic name when the feed row had no description.
func (p Product) DisplayName() string {
	if p.Description != "" {
		return p.Description
	}
	return p.Name
}

package handlers

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/bakudeals/deal-scout/internal/middleware"
	"github.com/bakudeals/deal-scout/internal/models"
	"github.com/bakudeals/deal-scout/internal/services"
)

const (
	defaultFeedLimit = 50
	maxFeedLimit     = 100
)

// Localized hero section copy.
var heroTitles = map[string]struct{ title, subtitle string }{
	middleware.LocaleEnglish:     {"Deal of the Day ⚡️", "Ends soon"},
	middleware.LocaleAzerbaijani: {"Günün Təklifi ⚡️", "Tezliklə bitir"},
}

// GetHomeFeed handles GET /home/feed
func (h *Handler) GetHomeFeed(c *fiber.Ctx) error {
	geo := h.parseGeoQuery(c)

	deals, err := h.deals.TopDeals(c.Context(), geo, 0, 0)
	if err != nil {
		return upstream("Home", err, "Failed to load home feed")
	}

	if store := c.Query("store"); store != "" {
		normStore := services.Normalize(store)
		filtered := []models.Product{}
		for _, p := range deals {
			if strings.Contains(services.Normalize(p.Store), normStore) {
				filtered = append(filtered, p)
			}
		}
		deals = filtered
	}

	switch c.Query("sort") {
	case "price_asc":
		sort.SliceStable(deals, func(i, j int) bool { return deals[i].Price < deals[j].Price })
	case "price_desc":
		sort.SliceStable(deals, func(i, j int) bool { return deals[i].Price > deals[j].Price })
	default:
		// TopDeals already orders by discount.
	}

	hero := pickHero(deals, middleware.LocaleFrom(c))

	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	limit := c.QueryInt("limit", defaultFeedLimit)
	if limit < 1 || limit > maxFeedLimit {
		limit = defaultFeedLimit
	}

	total := len(deals)
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	products := make([]models.HomeProduct, 0, end-start)
	for _, p := range deals[start:end] {
		products = append(products, homeProduct(p))
	}

	return c.JSON(models.HomeFeedResponse{
		Hero: hero,
		Categories: []models.HomeCategory{
			{ID: "cat_all", Name: "All Deals", Selected: true},
			{ID: "cat_food", Name: "Food"},
			{ID: "cat_home", Name: "Home"},
		},
		Products: products,
		Page:     page,
		Limit:    limit,
		Total:    total,
	})
}

// GetStores handles GET /stores
func (h *Handler) GetStores(c *fiber.Ctx) error {
	stores, err := h.deals.Stores(c.Context(), h.parseGeoQuery(c))
	if err != nil {
		return upstream("Stores", err, "Failed to load stores")
	}
	return c.JSON(fiber.Map{"stores": stores})
}

// pickHero promotes the first deal carrying a real product image.
func pickHero(deals []models.Product, locale string) *models.HeroSection {
	titles, ok := heroTitles[locale]
	if !ok {
		titles = heroTitles[middleware.LocaleEnglish]
	}

	for _, p := range deals {
		if !p.HasUsableImage() {
			continue
		}
		product := homeProduct(p)
		product.Badge = fmt.Sprintf("-%d%% OFF", p.DiscountPercent)
		return &models.HeroSection{
			Title:    titles.title,
			Subtitle: titles.subtitle,
			Product:  product,
		}
	}
	return nil
}

func homeProduct(p models.Product) models.HomeProduct {
	name := p.DisplayName()
	if p.Details != "" && !strings.Contains(strings.ToLower(name), strings.ToLower(p.Details)) {
		name = fmt.Sprintf("%s (%s)", name, p.Details)
	}

	badge := ""
	if p.DiscountPercent > 20 {
		badge = "Great Deal"
	}

	return models.HomeProduct{
		ID:              p.ID,
		Name:            name,
		Brand:           p.Brand,
		Category:        p.Name,
		Store:           services.FormatStoreName(p.Store),
		ImageURL:        p.ImageURL,
		Price:           p.Price,
		OriginalPrice:   p.OriginalPrice,
		DiscountPercent: p.DiscountPercent,
		Badge:           badge,
		InStock:         true,
	}
}

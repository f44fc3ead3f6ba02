package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/bakudeals/deal-scout/internal/models"
)

// Search handles GET /search
func (h *Handler) Search(c *fiber.Ctx) error {
	query := c.Query("q")
	if query == "" {
		return badRequest("Query parameter 'q' is required")
	}

	results, err := h.deals.Search(c.Context(), query, h.parseGeoQuery(c))
	if err != nil {
		return upstream("Search", err, "Search failed")
	}

	return c.JSON(models.SearchResponse{
		Query:   query,
		Count:   len(results),
		Results: results,
	})
}

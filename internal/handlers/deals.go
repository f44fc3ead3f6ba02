package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"
)

// GetBrandDeals handles GET /deals/brands. With a scanId resolving to
// confirmed items, one group is built per scanned item; otherwise the
// whole catalog is grouped.
func (h *Handler) GetBrandDeals(c *fiber.Ctx) error {
	geo := h.parseGeoQuery(c)
	scanID := c.Query("scanId")

	if scanID != "" {
		if items, ok := h.scans.Get(scanID); ok && len(items) > 0 {
			names := make([]string, 0, len(items))
			for _, item := range items {
				names = append(names, item.Name)
			}

			response, err := h.deals.GroupsForItems(c.Context(), names, geo)
			if err != nil {
				return upstream("BrandSelection", err, "Failed to load brand deals")
			}
			return c.JSON(response)
		}
		// Unknown or expired scan falls back to the global view.
		log.Printf("[BrandSelection] Scan %s not found, using global grouping", scanID)
	}

	response, err := h.deals.GroupedBrandDeals(c.Context(), geo)
	if err != nil {
		return upstream("BrandSelection", err, "Failed to load brand deals")
	}
	return c.JSON(response)
}

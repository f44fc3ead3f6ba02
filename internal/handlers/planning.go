package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/bakudeals/deal-scout/internal/models"
	"github.com/bakudeals/deal-scout/internal/services"
)

// OptimizePlan handles POST /planning/optimize. Both strategies are
// computed up front and cached under a fresh plan session; the detail
// endpoint requires the returned session token.
func (h *Handler) OptimizePlan(c *fiber.Ctx) error {
	var req models.OptimizeRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest("Invalid optimize request body")
	}

	catalog, err := h.deals.Products(c.Context(), services.GeoQuery{})
	if err != nil {
		return upstream("Planning", err, "Optimization failed")
	}

	// An empty request drops back to the most recent scan's confirmed
	// items, then to the default list.
	var fallbackNames []string
	if _, items, ok := h.scans.MostRecent(); ok {
		for _, item := range items {
			fallbackNames = append(fallbackNames, item.Name)
		}
	}

	list := h.optimizer.BuildShoppingList(&req, catalog, fallbackNames)
	log.Printf("[Planning] Optimizing %d item(s)", len(list))

	maxSavings, oneStop := h.optimizer.Optimize(list, catalog)

	token, err := h.planSessions.Save(map[string]models.RouteDetails{
		models.OptionIDMaxSavings: maxSavings,
		models.OptionIDOneStop:    oneStop,
	})
	if err != nil {
		return upstream("Planning", err, "Optimization failed")
	}

	return c.JSON(models.OptimizeResponse{
		PlanSession: token,
		Options:     h.optimizer.Options(list, maxSavings, oneStop),
	})
}

// GetRouteDetails handles GET /planning/route/:optionId. The plan session
// token travels in the planSession query param or X-Plan-Session header.
// A missing or expired session yields the zeroed empty route rather than
// an error, matching what clients expect after a server restart.
func (h *Handler) GetRouteDetails(c *fiber.Ctx) error {
	optionID := c.Params("optionId")

	token := c.Query("planSession")
	if token == "" {
		token = c.Get("X-Plan-Session")
	}

	details, err := h.planSessions.Route(token, optionID)
	if err != nil {
		if errors.Is(err, services.ErrSessionInvalid) || errors.Is(err, services.ErrRouteNotFound) {
			return c.JSON(models.RouteDetails{
				TotalSavings: 0,
				EstTime:      "0 mins",
				Stops:        []models.RouteStop{},
			})
		}
		return upstream("Planning", err, "Failed to get route details")
	}

	return c.JSON(details)
}

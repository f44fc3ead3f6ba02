package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/bakudeals/deal-scout/internal/models"
	"github.com/bakudeals/deal-scout/internal/services"
)

// SaveTrip handles POST /trips
func (h *Handler) SaveTrip(c *fiber.Ctx) error {
	var req models.SaveTripRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest("Invalid trip body")
	}

	tripID := h.trips.Save(&req)
	return c.JSON(models.SaveTripResponse{Success: true, TripID: tripID})
}

// GetLastTrip handles GET /trips/last. Without a saved trip, savings are
// recomputed from the most recent scan's confirmed items so the client
// still gets a meaningful summary.
func (h *Handler) GetLastTrip(c *fiber.Ctx) error {
	if last, ok := h.trips.Last(); ok {
		return c.JSON(last)
	}

	response := &models.LastTripResponse{
		TimeSpent:    "0 mins",
		ChartData:    []float64{0.3, 0.45, 0.25, 0.6, 0.4, 0.75, 0.5, 0.9},
		DealsScouted: 1240,
		WagePerHour:  35.00,
	}

	scanID, items, ok := h.scans.MostRecent()
	if ok && len(items) > 0 {
		products, err := h.deals.Products(c.Context(), services.GeoQuery{})
		if err != nil {
			return upstream("Trip", err, "Failed to load last trip")
		}

		savings := 0.0
		dealsFound := 0
		for _, item := range items {
			for _, p := range products {
				if !strings.EqualFold(p.DisplayName(), item.Name) && !strings.EqualFold(p.Name, item.Name) {
					continue
				}
				if s := p.Savings(); s > 0 {
					savings += s
					dealsFound++
				}
				break
			}
		}

		response.TotalSavings = savings
		response.LifetimeEarnings = savings
		response.TimeSpent = "12 mins"
		response.DealsScouted += dealsFound
		response.TripID = scanID
	}
	if response.TripID == "" {
		response.TripID = "trip_" + uuid.New().String()
	}

	return c.JSON(response)
}

// GetWatchlist handles GET /watchlist
func (h *Handler) GetWatchlist(c *fiber.Ctx) error {
	return c.JSON(models.WatchlistResponse{
		Items:             []string{},
		PopularEssentials: []string{"Milk", "Bread", "Eggs", "Bananas", "Coffee"},
	})
}

package handlers

import (
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/bakudeals/deal-scout/internal/config"
	"github.com/bakudeals/deal-scout/internal/database"
	"github.com/bakudeals/deal-scout/internal/services"
)

// Handler holds all handler dependencies
type Handler struct {
	db           *database.DB
	cfg          *config.Config
	deals        *services.DealService
	optimizer    *services.Optimizer
	scans        *services.ScanStore
	planSessions *services.PlanSessionStore
	trips        *services.TripStore
	ocr          *services.OCRService
	storage      *services.StorageService
}

// Deps wires the services a Handler needs. OCR and Storage may be nil;
// the scan flow degrades to catalog sampling without them.
type Deps struct {
	DB           *database.DB
	Cfg          *config.Config
	Deals        *services.DealService
	Optimizer    *services.Optimizer
	Scans        *services.ScanStore
	PlanSessions *services.PlanSessionStore
	Trips        *services.TripStore
	OCR          *services.OCRService
	Storage      *services.StorageService
}

// New creates a new Handler instance
func New(deps Deps) *Handler {
	return &Handler{
		db:           deps.DB,
		cfg:          deps.Cfg,
		deals:        deps.Deals,
		optimizer:    deps.Optimizer,
		scans:        deps.Scans,
		planSessions: deps.PlanSessions,
		trips:        deps.Trips,
		ocr:          deps.OCR,
		storage:      deps.Storage,
	}
}

// ErrorHandler is a custom error handler for Fiber. All error responses
// share the {error: message} shape.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"error": message,
	})
}

// badRequest is a 400 with the validation message surfaced verbatim.
func badRequest(message string) error {
	return fiber.NewError(fiber.StatusBadRequest, message)
}

// notFound is a 404 for unknown plan/option/user ids.
func notFound(message string) error {
	return fiber.NewError(fiber.StatusNotFound, message)
}

// upstream logs the real failure and returns a 500 with a generic message;
// internal detail never reaches the client.
func upstream(subsystem string, err error, message string) error {
	log.Printf("[%s] %v", subsystem, err)
	return fiber.NewError(fiber.StatusInternalServerError, message)
}

// parseGeoQuery reads the optional lat/lon/range params shared by the
// catalog read endpoints. The filter activates only when both coordinates
// parse.
func (h *Handler) parseGeoQuery(c *fiber.Ctx) services.GeoQuery {
	latStr := c.Query("lat")
	lonStr := c.Query("lon")
	if latStr == "" || lonStr == "" {
		return services.GeoQuery{}
	}

	lat, errLat := strconv.ParseFloat(latStr, 64)
	lon, errLon := strconv.ParseFloat(lonStr, 64)
	if errLat != nil || errLon != nil {
		return services.GeoQuery{}
	}

	rangeKm := h.cfg.DefaultRangeKm
	if r, err := strconv.ParseFloat(c.Query("range"), 64); err == nil && r > 0 {
		rangeKm = r
	}

	return services.GeoQuery{Active: true, Lat: lat, Lon: lon, RangeKm: rangeKm}
}

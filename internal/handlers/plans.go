package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/bakudeals/deal-scout/internal/database"
	"github.com/bakudeals/deal-scout/internal/models"
)

// SavePlan handles POST /plans
func (h *Handler) SavePlan(c *fiber.Ctx) error {
	var req models.SavePlanRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest("Invalid plan body")
	}
	if req.UserID == 0 {
		return badRequest("User ID is required")
	}
	if len(req.RouteDetails) == 0 {
		return badRequest("Route details are required")
	}

	plan, err := h.db.CreatePlan(c.Context(), &req)
	if err != nil {
		return upstream("Plan", err, "Failed to save plan")
	}
	return c.Status(fiber.StatusCreated).JSON(plan)
}

// GetPlans handles GET /plans/:userId
func (h *Handler) GetPlans(c *fiber.Ctx) error {
	userID, err := c.ParamsInt("userId")
	if err != nil || userID < 1 {
		return badRequest("User ID is required")
	}

	plans, err := h.db.ListPlans(c.Context(), userID)
	if err != nil {
		return upstream("Plan", err, "Failed to load plans")
	}
	return c.JSON(fiber.Map{"plans": plans})
}

// AddPlanItem handles POST /plans/:planId/items
func (h *Handler) AddPlanItem(c *fiber.Ctx) error {
	planID, err := c.ParamsInt("planId")
	if err != nil || planID < 1 {
		return badRequest("Plan ID is required")
	}

	var req models.AddPlanItemRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest("Invalid item body")
	}
	if req.Item.Name == "" {
		return badRequest("Item name is required")
	}

	plan, err := h.db.AddPlanItem(c.Context(), planID, &req)
	if errors.Is(err, database.ErrPlanNotFound) {
		return notFound("Plan not found")
	}
	if err != nil {
		return upstream("Plan", err, "Failed to add item")
	}
	return c.JSON(plan)
}

// CompletePlan handles PUT /plans/:planId/complete
func (h *Handler) CompletePlan(c *fiber.Ctx) error {
	planID, err := c.ParamsInt("planId")
	if err != nil || planID < 1 {
		return badRequest("Plan ID is required")
	}

	var req models.CompletePlanRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return badRequest("Invalid completion body")
	}

	plan, err := h.db.CompletePlan(c.Context(), planID, req.RouteDetails)
	if errors.Is(err, database.ErrPlanNotFound) {
		return notFound("Plan not found")
	}
	if err != nil {
		return upstream("Plan", err, "Failed to complete plan")
	}
	return c.JSON(plan)
}

// DeletePlan handles DELETE /plans/:planId. Soft delete: the plan stays
// in completed-trip stats.
func (h *Handler) DeletePlan(c *fiber.Ctx) error {
	planID, err := c.ParamsInt("planId")
	if err != nil || planID < 1 {
		return badRequest("Plan ID is required")
	}

	err = h.db.HidePlan(c.Context(), planID)
	if errors.Is(err, database.ErrPlanNotFound) {
		return notFound("Plan not found")
	}
	if err != nil {
		return upstream("Plan", err, "Failed to delete plan")
	}
	return c.JSON(fiber.Map{"success": true})
}

// GetPlanStats handles GET /plans/:userId/stats
func (h *Handler) GetPlanStats(c *fiber.Ctx) error {
	userID, err := c.ParamsInt("userId")
	if err != nil || userID < 1 {
		return badRequest("User ID is required")
	}

	stats, err := h.db.GetPlanStats(c.Context(), userID)
	if err != nil {
		return upstream("Plan", err, "Failed to load stats")
	}
	return c.JSON(stats)
}

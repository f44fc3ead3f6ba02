package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/bakudeals/deal-scout/internal/database"
	"github.com/bakudeals/deal-scout/internal/models"
)

// DeviceLogin handles POST /auth/device-login
func (h *Handler) DeviceLogin(c *fiber.Ctx) error {
	var req models.DeviceLoginRequest
	if err := c.BodyParser(&req); err != nil || req.DeviceID == "" {
		return badRequest("Device ID is required")
	}

	user, isNew, err := h.db.GetOrCreateUserByDevice(c.Context(), req.DeviceID)
	if err != nil {
		return upstream("Auth", err, "Authentication failed")
	}
	if isNew {
		log.Printf("[Auth] Created new user for device: %s", req.DeviceID)
	}

	return c.JSON(models.DeviceLoginResponse{User: *user, IsNewUser: isNew})
}

// UpdateProfile handles PUT /auth/profile
func (h *Handler) UpdateProfile(c *fiber.Ctx) error {
	var req models.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil || req.UserID == 0 {
		return badRequest("User ID is required")
	}

	user, err := h.db.UpdateUserProfile(c.Context(), &req)
	if errors.Is(err, database.ErrUserNotFound) {
		return notFound("User not found")
	}
	if err != nil {
		return upstream("Auth", err, "Update failed")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"user":    user,
	})
}

package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pagocadm-web/redimi-loyalty/internal/middleware"
	"github.com/pagocadm-web/redimi-loyalty/internal/service"
)

type UpdateSettingsRequest struct {
	Rate      *float64 `json:"rate,omitempty"`
	Franchise *string  `json:"franchise,omitempty"`
	Password  *string  `json:"password,omitempty"`
}

type AddBranchRequest struct {
	Name string `json:"name"`
}

func (h *Handler) GetSettings(c *fiber.Ctx) error {
	vendorID := middleware.GetVendorID(c)

	settings, err := h.settingsSvc.GetSettings(c.Context(), vendorID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(settings)
}

func (h *Handler) UpdateSettings(c *fiber.Ctx) error {
	vendorID := middleware.GetVendorID(c)

	var req UpdateSettingsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	// Password changes belong to the auth collaborator, not the resolver.
	if req.Password != nil {
		if err := h.vendorSvc.ChangePassword(c.Context(), vendorID, *req.Password); err != nil {
			return h.fail(c, err)
		}
	}

	settings, err := h.settingsSvc.UpdateSettings(c.Context(), vendorID, service.SettingsUpdate{
		Rate:       req.Rate,
		BranchName: req.Franchise,
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(settings)
}

func (h *Handler) AddBranch(c *fiber.Ctx) error {
	vendorID := middleware.GetVendorID(c)

	var req AddBranchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	if _, err := h.settingsSvc.AddBranch(c.Context(), vendorID, req.Name); err != nil {
		return h.fail(c, err)
	}

	branches, err := h.settingsSvc.BranchNames(c.Context(), vendorID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"branches": branches,
	})
}

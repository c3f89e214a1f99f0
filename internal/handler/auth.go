package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pagocadm-web/redimi-loyalty/internal/middleware"
)

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	vendor, err := h.vendorSvc.Authenticate(c.Context(), req.Username, req.Password)
	if err != nil {
		return h.fail(c, err)
	}

	token, err := middleware.SignToken(h.cfg, vendor.ID, vendor.Username)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"token":   token,
		"user": fiber.Map{
			"id":       vendor.ID,
			"username": vendor.Username,
			"email":    vendor.Email,
		},
	})
}

func (h *Handler) Me(c *fiber.Ctx) error {
	vendorID := middleware.GetVendorID(c)

	vendor, err := h.vendorSvc.GetVendor(c.Context(), vendorID)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(fiber.Map{
		"id":       vendor.ID,
		"username": vendor.Username,
		"email":    vendor.Email,
	})
}

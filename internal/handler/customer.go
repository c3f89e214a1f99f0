package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pagocadm-web/redimi-loyalty/internal/middleware"
)

type CreateCustomerRequest struct {
	Name     string  `json:"name"`
	WhatsApp string  `json:"whatsapp"`
	Birthday *string `json:"birthday,omitempty"`
}

func (h *Handler) GetCustomers(c *fiber.Ctx) error {
	vendorID := middleware.GetVendorID(c)

	customers, err := h.customerSvc.GetCustomers(c.Context(), vendorID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(customers)
}

func (h *Handler) CreateCustomer(c *fiber.Ctx) error {
	vendorID := middleware.GetVendorID(c)

	var req CreateCustomerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	customer, err := h.customerSvc.CreateCustomer(c.Context(), vendorID, req.Name, req.WhatsApp, req.Birthday)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(customer)
}

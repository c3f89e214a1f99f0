package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/pagocadm-web/redimi-loyalty/internal/middleware"
)

type EarnRequest struct {
	CustomerID string  `json:"customer_id"`
	Amount     float64 `json:"amount"`
}

type RedeemRequest struct {
	CustomerID string `json:"customer_id"`
	Points     int    `json:"points"`
}

func (h *Handler) GetTransactions(c *fiber.Ctx) error {
	vendorID := middleware.GetVendorID(c)

	limit, _ := strconv.Atoi(c.Query("limit", "100"))

	transactions, err := h.ledgerSvc.GetTransactions(c.Context(), vendorID, limit)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(transactions)
}

func (h *Handler) Earn(c *fiber.Ctx) error {
	vendorID := middleware.GetVendorID(c)

	var req EarnRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid customer id",
		})
	}

	txn, err := h.ledgerSvc.Earn(c.Context(), vendorID, customerID, req.Amount)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(txn)
}

func (h *Handler) Redeem(c *fiber.Ctx) error {
	vendorID := middleware.GetVendorID(c)

	var req RedeemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid customer id",
		})
	}

	txn, err := h.ledgerSvc.Redeem(c.Context(), vendorID, customerID, req.Points)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(txn)
}

func (h *Handler) GetStats(c *fiber.Ctx) error {
	vendorID := middleware.GetVendorID(c)

	stats, err := h.ledgerSvc.GetStats(c.Context(), vendorID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(stats)
}

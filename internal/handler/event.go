package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/pagocadm-web/redimi-loyalty/internal/middleware"
)

func (h *Handler) GetEvents(c *fiber.Ctx) error {
	vendorID := middleware.GetVendorID(c)

	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	if limit <= 0 {
		limit = 50
	}

	events, err := h.store.GetEventLogs(c.Context(), vendorID, limit)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(events)
}

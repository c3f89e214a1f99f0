package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/pagocadm-web/redimi-loyalty/internal/config"
	"github.com/pagocadm-web/redimi-loyalty/internal/repository"
	"github.com/pagocadm-web/redimi-loyalty/internal/service"
)

type Handler struct {
	cfg         *config.Config
	vendorSvc   *service.VendorService
	customerSvc *service.CustomerService
	ledgerSvc   *service.LedgerService
	settingsSvc *service.SettingsService
	store       repository.Store
	log         *zap.Logger
}

func New(
	cfg *config.Config,
	vendorSvc *service.VendorService,
	customerSvc *service.CustomerService,
	ledgerSvc *service.LedgerService,
	settingsSvc *service.SettingsService,
	store repository.Store,
	log *zap.Logger,
) *Handler {
	return &Handler{
		cfg:         cfg,
		vendorSvc:   vendorSvc,
		customerSvc: customerSvc,
		ledgerSvc:   ledgerSvc,
		settingsSvc: settingsSvc,
		store:       store,
		log:         log,
	}
}

func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ok",
	})
}

// fail maps service errors onto HTTP statuses. Business-rule outcomes keep
// their message; store failures surface as opaque 500s.
func (h *Handler) fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidArgument),
		errors.Is(err, repository.ErrInsufficientBalance):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrCustomerNotFound),
		errors.Is(err, repository.ErrVendorNotFound),
		errors.Is(err, repository.ErrSettingsNotFound),
		errors.Is(err, service.ErrBranchNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	default:
		h.log.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
	}
}

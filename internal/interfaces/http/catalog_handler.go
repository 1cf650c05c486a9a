package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/posadmin-api/internal/application/billing"
)

// CatalogHandler búsquedas para el formulario de factura.
type CatalogHandler struct {
	uc *billing.CatalogUseCase
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(uc *billing.CatalogUseCase) *CatalogHandler {
	return &CatalogHandler{uc: uc}
}

// Owners GET /api/catalog/owners?q=&limit=
func (h *CatalogHandler) Owners(c *fiber.Ctx) error {
	list, err := h.uc.SearchOwners(c.UserContext(), c.Query("q"), c.QueryInt("limit"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"items": list})
}

// Devices GET /api/catalog/devices?q=&limit=
func (h *CatalogHandler) Devices(c *fiber.Ctx) error {
	list, err := h.uc.ListDevices(c.UserContext(), c.Query("q"), c.QueryInt("limit"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"items": list})
}

// Subscriptions GET /api/catalog/subscriptions?q=&limit=
func (h *CatalogHandler) Subscriptions(c *fiber.Ctx) error {
	list, err := h.uc.ListSubscriptionPackages(c.UserContext(), c.Query("q"), c.QueryInt("limit"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"items": list})
}

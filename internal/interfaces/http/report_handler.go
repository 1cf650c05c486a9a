package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/posadmin-api/internal/application/billing"
)

// ReportHandler reportes de facturación (solo admin).
type ReportHandler struct {
	uc *billing.ReportUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *billing.ReportUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// Invoices GET /api/reports/invoices?from=2026-10-01&to=2026-10-31
func (h *ReportHandler) Invoices(c *fiber.Ctx) error {
	out, err := h.uc.InvoiceReport(c.UserContext(), c.Query("from"), c.Query("to"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/posadmin-api/internal/application/billing"
	"github.com/jhoicas/posadmin-api/internal/application/dto"
)

// InvoiceHandler maneja las peticiones HTTP de facturas (protegido).
type InvoiceHandler struct {
	uc     *billing.InvoiceUseCase
	export *billing.ExportUseCase
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(uc *billing.InvoiceUseCase, export *billing.ExportUseCase) *InvoiceHandler {
	return &InvoiceHandler{uc: uc, export: export}
}

// InvoiceDetailResponse detalle: id más el Presentation (header, rows, totals).
type InvoiceDetailResponse struct {
	ID string `json:"id"`
	billing.Presentation
}

// Create crea la factura en draft y devuelve a dónde redirigir.
// POST /api/invoices
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return writeErrorCode(c, fiber.StatusBadRequest, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.uc.CreateInvoice(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	c.Location(out.RedirectTo)
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Preview calcula el Presentation del formulario sin guardar.
// POST /api/invoices/preview
func (h *InvoiceHandler) Preview(c *fiber.Ctx) error {
	var in dto.CreateInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return writeErrorCode(c, fiber.StatusBadRequest, "INVALID_BODY", "cuerpo inválido")
	}
	p, err := h.uc.PreviewInvoice(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(p)
}

// List listado paginado.
// GET /api/invoices?status=&q=&limit=&offset=
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	var in dto.ListInvoicesRequest
	if err := c.QueryParser(&in); err != nil {
		return writeErrorCode(c, fiber.StatusBadRequest, "INVALID_QUERY", "query inválida")
	}
	out, err := h.uc.ListInvoices(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID detalle con los mismos totales que la vista previa.
// GET /api/invoices/:id
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	p, err := h.uc.GetInvoicePresentation(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(InvoiceDetailResponse{ID: id, Presentation: *p})
}

// UpdateStatus cambia el estado.
// PATCH /api/invoices/:id/status
func (h *InvoiceHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.UpdateInvoiceStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return writeErrorCode(c, fiber.StatusBadRequest, "INVALID_BODY", "cuerpo inválido")
	}
	if err := h.uc.UpdateStatus(c.UserContext(), c.Params("id"), in); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// DownloadPDF descarga el PDF.
// GET /api/invoices/:id/pdf
func (h *InvoiceHandler) DownloadPDF(c *fiber.Ctx) error {
	file, err := h.export.DownloadInvoicePDF(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return sendFile(c, file)
}

// Export descarga CSV o XLSX.
// GET /api/invoices/:id/export.:format
func (h *InvoiceHandler) Export(c *fiber.Ctx) error {
	file, err := h.export.Export(c.UserContext(), c.Params("id"), c.Params("format"))
	if err != nil {
		return writeError(c, err)
	}
	return sendFile(c, file)
}

func sendFile(c *fiber.Ctx, file *billing.ExportFile) error {
	c.Set(fiber.HeaderContentType, file.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", file.Filename))
	return c.Send(file.Content)
}

package dto

import "github.com/shopspring/decimal"

// DateLayout formato de fechas en requests y query params.
const DateLayout = "2006-01-02"

// CreateInvoiceRequest body para POST /api/invoices y POST /api/invoices/preview.
// UnitPrice/Price en cero usan el precio del catálogo. OwnerID es obligatorio al crear,
// no en la vista previa.
type CreateInvoiceRequest struct {
	OwnerID       string                    `json:"owner_id"`
	Devices       []DeviceLineRequest       `json:"devices" validate:"dive"`
	Subscriptions []SubscriptionLineRequest `json:"subscriptions" validate:"dive"`
	Note          string                    `json:"note" validate:"max=2000"`
	InvoiceDate   string                    `json:"invoice_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	DueDate       string                    `json:"due_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Discount      decimal.Decimal           `json:"discount"`
	VATInclusive  bool                      `json:"vat_inclusive"`
}

// DeviceLineRequest línea de dispositivo.
type DeviceLineRequest struct {
	DeviceID  string          `json:"device_id" validate:"required"`
	Quantity  int             `json:"quantity" validate:"min=0"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// SubscriptionLineRequest línea de paquete de suscripción.
type SubscriptionLineRequest struct {
	PackageID string          `json:"package_id" validate:"required"`
	Quantity  int             `json:"quantity" validate:"min=0"`
	Price     decimal.Decimal `json:"price"`
}

// LineCount número total de líneas pedidas.
func (r CreateInvoiceRequest) LineCount() int {
	return len(r.Devices) + len(r.Subscriptions)
}

// CreateInvoiceResponse respuesta de POST /api/invoices.
type CreateInvoiceResponse struct {
	ID            string `json:"id"`
	InvoiceNumber string `json:"invoice_number"`
	RedirectTo    string `json:"redirect_to"`
}

// UpdateInvoiceStatusRequest body para PATCH /api/invoices/:id/status.
type UpdateInvoiceStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=draft paid cancelled"`
}

// ListInvoicesRequest query de GET /api/invoices.
type ListInvoicesRequest struct {
	PageRequest
	Status string `query:"status" validate:"omitempty,oneof=draft paid cancelled"`
	Search string `query:"q"`
}

// InvoiceListItem fila del listado con total ya formateado.
type InvoiceListItem struct {
	ID            string `json:"id"`
	InvoiceNumber string `json:"invoice_number"`
	Status        string `json:"status"`
	BilledName    string `json:"billed_name"`
	InvoiceDate   string `json:"invoice_date"`
	DueDate       string `json:"due_date"`
	Total         string `json:"total"`
}

// InvoiceListResponse respuesta paginada de GET /api/invoices.
type InvoiceListResponse struct {
	Items []InvoiceListItem `json:"items"`
	Page  PageResponse      `json:"page"`
}

// InvoiceReportStatus acumulado por estado.
type InvoiceReportStatus struct {
	Count int    `json:"count"`
	Total string `json:"total"`
}

// InvoiceReportResponse respuesta de GET /api/reports/invoices.
type InvoiceReportResponse struct {
	From          string                         `json:"from"`
	To            string                         `json:"to"`
	Count         int                            `json:"count"`
	ByStatus      map[string]InvoiceReportStatus `json:"by_status"`
	Devices       string                         `json:"devices"`
	Subscriptions string                         `json:"subscriptions"`
	Tax           string                         `json:"tax"`
	GrandTotal    string                         `json:"grand_total"`
}

// CatalogEntry registro genérico de catálogo {id, display_name, unit_price}.
type CatalogEntry struct {
	ID          string          `json:"id"`
	DisplayName string          `json:"display_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Email       string          `json:"email,omitempty"`
	Phone       string          `json:"phone,omitempty"`
}

package billing

import (
	"context"

	"github.com/jhoicas/posadmin-api/internal/domain/repository"
)

// InvoiceTxRunner ejecuta fn con un InvoiceRepository atado a una transacción.
type InvoiceTxRunner interface {
	RunInvoice(ctx context.Context, fn func(invoiceRepo repository.InvoiceRepository) error) error
}

// InvoicePDFRenderer genera el PDF a partir del Presentation ya formateado.
type InvoicePDFRenderer interface {
	RenderInvoicePDF(ctx context.Context, p Presentation) ([]byte, error)
}

// PresentationExporter exporta el Presentation (CSV, XLSX) sin recalcular montos.
type PresentationExporter interface {
	Export(p Presentation) ([]byte, error)
	ContentType() string
	Extension() string
}

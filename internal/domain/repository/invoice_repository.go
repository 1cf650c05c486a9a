package repository

import (
	"context"
	"time"

	"github.com/jhoicas/posadmin-api/internal/domain/entity"
)

// InvoiceFilter filtros del listado de facturas.
type InvoiceFilter struct {
	Status string // vacío = todos
	Search string // número de factura o nombre facturado
	From   time.Time
	To     time.Time
	Limit  int
	Offset int
}

// InvoiceRepository define el puerto de persistencia para Invoice y sus filas.
// GetByID retorna (nil, nil) si la factura no existe.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	CreateItem(ctx context.Context, item *entity.InvoiceItem) error
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	GetItemsByInvoiceID(ctx context.Context, invoiceID string) ([]entity.InvoiceItem, error)
	// List devuelve la página pedida (con Items cargados) y el total de coincidencias.
	List(ctx context.Context, filter InvoiceFilter) ([]*entity.Invoice, int, error)
	UpdateStatus(ctx context.Context, id, status string, updatedAt time.Time) error
}

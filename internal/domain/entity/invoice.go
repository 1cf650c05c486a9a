package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/posadmin-api/internal/domain/invoicing"
)

// Estados de la factura.
const (
	InvoiceStatusDraft     = "draft"
	InvoiceStatusPaid      = "paid"
	InvoiceStatusCancelled = "cancelled"
)

// InvoiceNumberPrefix prefijo del consecutivo: INV-XXXXXX.
const InvoiceNumberPrefix = "INV-"

// Invoice cabecera de la factura emitida a un dueño de negocio.
// Subtotal, impuesto y total no se guardan: se recalculan desde Items.
type Invoice struct {
	ID            string
	OwnerID       string
	InvoiceNumber string
	Status        string
	InvoiceDate   time.Time
	DueDate       time.Time
	BilledName    string
	BilledEmail   string
	BilledPhone   string
	BilledAddress string
	Discount      decimal.Decimal
	VATInclusive  bool
	Note          string
	Items         []InvoiceItem
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// InvoiceItem fila persistida; ItemsData puede traer dispositivos y/o suscripciones.
type InvoiceItem struct {
	ID        string
	InvoiceID string
	Position  int
	ItemsData ItemsData
}

// ItemsData payload JSON (columna items_data) de una fila de factura.
type ItemsData struct {
	Devices       []DeviceItem       `json:"devices,omitempty"`
	Subscriptions []SubscriptionItem `json:"subscriptions,omitempty"`
}

// DeviceItem compra de dispositivo embebida en items_data.
type DeviceItem struct {
	DeviceID  string          `json:"device_id"`
	Brand     string          `json:"brand"`
	Type      string          `json:"type"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

// SubscriptionItem compra de paquete de suscripción embebida en items_data.
type SubscriptionItem struct {
	PackageID string          `json:"package_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

// Label marca + tipo, ej. "Sunmi V2s".
func (d DeviceItem) Label() string {
	return strings.TrimSpace(d.Brand + " " + d.Type)
}

// LineItems aplana las filas en líneas de cálculo: por cada fila primero
// los dispositivos y luego las suscripciones, respetando el orden de Position.
func (inv *Invoice) LineItems() []invoicing.LineItem {
	var lines []invoicing.LineItem
	for _, item := range inv.Items {
		lines = append(lines, item.ItemsData.LineItems()...)
	}
	return lines
}

// LineItems convierte el payload en líneas de cálculo.
func (d ItemsData) LineItems() []invoicing.LineItem {
	lines := make([]invoicing.LineItem, 0, len(d.Devices)+len(d.Subscriptions))
	for _, dev := range d.Devices {
		lines = append(lines, invoicing.NewDeviceLine(dev.DeviceID, dev.Label(), dev.UnitPrice, dev.Quantity))
	}
	for _, sub := range d.Subscriptions {
		lines = append(lines, invoicing.NewSubscriptionLine(sub.PackageID, sub.Name, sub.Price, sub.Quantity))
	}
	return lines
}

// IsEmpty true si no trae ninguna línea.
func (d ItemsData) IsEmpty() bool {
	return len(d.Devices) == 0 && len(d.Subscriptions) == 0
}

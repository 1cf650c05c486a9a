// Package invoicing contiene el modelo financiero de la factura: agregación de
// líneas, resolución de IVA/descuento y el cálculo de totales. Funciones puras,
// sin I/O; la vista previa y el detalle persistido comparten este cálculo.
package invoicing

import "github.com/shopspring/decimal"

// Category variante de la línea de factura.
type Category string

const (
	CategoryDevice       Category = "device"
	CategorySubscription Category = "subscription"
)

// DefaultVATRate tasa de IVA fija (18%).
var DefaultVATRate = decimal.RequireFromString("0.18")

// LineItem línea comprable (dispositivo o paquete de suscripción).
// Se construye nueva cada vez que se recalcula una factura.
type LineItem struct {
	Category  Category
	RefID     string // id del dispositivo o paquete en el catálogo
	Label     string
	UnitPrice decimal.Decimal
	Quantity  int
}

// NewDeviceLine línea de compra de dispositivo; label = marca + tipo.
func NewDeviceLine(deviceID, label string, unitPrice decimal.Decimal, quantity int) LineItem {
	return LineItem{Category: CategoryDevice, RefID: deviceID, Label: label, UnitPrice: unitPrice, Quantity: quantity}
}

// NewSubscriptionLine línea de compra de paquete de suscripción.
func NewSubscriptionLine(packageID, name string, unitPrice decimal.Decimal, quantity int) LineItem {
	return LineItem{Category: CategorySubscription, RefID: packageID, Label: name, UnitPrice: unitPrice, Quantity: quantity}
}

// Total unitPrice * quantity. Un precio ausente (valor cero de decimal) cuenta como 0.
func (l LineItem) Total() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Aggregation resultado del agregador de líneas.
type Aggregation struct {
	Subtotal   decimal.Decimal
	ByCategory map[Category]decimal.Decimal
}

// Aggregate suma las líneas por categoría y en total. Lista vacía: subtotal 0 y mapa vacío.
func Aggregate(lines []LineItem) Aggregation {
	agg := Aggregation{Subtotal: decimal.Zero, ByCategory: make(map[Category]decimal.Decimal)}
	for _, l := range lines {
		lineTotal := l.Total()
		agg.ByCategory[l.Category] = agg.ByCategory[l.Category].Add(lineTotal)
		agg.Subtotal = agg.Subtotal.Add(lineTotal)
	}
	return agg
}

// Mode modo de IVA de la factura.
type Mode string

const (
	ModeInclusive Mode = "inclusive" // el subtotal ya contiene el IVA; se extrae para mostrarlo
	ModeExclusive Mode = "exclusive" // no se muestra ni se suma IVA
)

// ModeOf traduce el flag vatInclusive al modo.
func ModeOf(vatInclusive bool) Mode {
	if vatInclusive {
		return ModeInclusive
	}
	return ModeExclusive
}

// Resolution impuesto mostrado y total a pagar.
type Resolution struct {
	Tax   decimal.Decimal
	Total decimal.Decimal
}

// Resolve aplica IVA y descuento con la tasa por defecto.
func Resolve(subtotal, discount decimal.Decimal, vatInclusive bool) Resolution {
	return ResolveWithRate(subtotal, discount, vatInclusive, DefaultVATRate)
}

// ResolveWithRate aplica IVA y descuento.
//
// Inclusivo: tax = subtotal - subtotal/(1+rate). Exclusivo: tax = 0; la suma del
// IVA en modo exclusivo está deshabilitada en producción y se mantiene así.
// En ambos modos total = subtotal - discount, sin recortar a cero.
func ResolveWithRate(subtotal, discount decimal.Decimal, vatInclusive bool, vatRate decimal.Decimal) Resolution {
	total := subtotal.Sub(discount)
	if ModeOf(vatInclusive) == ModeExclusive {
		return Resolution{Tax: decimal.Zero, Total: total}
	}
	preVat := subtotal.Div(decimal.NewFromInt(1).Add(vatRate))
	return Resolution{Tax: subtotal.Sub(preVat), Total: total}
}

// Financials valores derivados de una factura; nunca se persisten.
type Financials struct {
	Subtotal     decimal.Decimal
	ByCategory   map[Category]decimal.Decimal
	Discount     decimal.Decimal
	VATInclusive bool
	VATRate      decimal.Decimal
	Tax          decimal.Decimal
	Total        decimal.Decimal
}

// Compute recalcula los valores financieros a partir de líneas, descuento y modo de IVA.
func Compute(lines []LineItem, discount decimal.Decimal, vatInclusive bool, vatRate decimal.Decimal) Financials {
	agg := Aggregate(lines)
	res := ResolveWithRate(agg.Subtotal, discount, vatInclusive, vatRate)
	return Financials{
		Subtotal:     agg.Subtotal,
		ByCategory:   agg.ByCategory,
		Discount:     discount,
		VATInclusive: vatInclusive,
		VATRate:      vatRate,
		Tax:          res.Tax,
		Total:        res.Total,
	}
}

// ShowsTax indica si la línea de impuesto se muestra (solo en modo inclusivo).
func (f Financials) ShowsTax() bool { return f.VATInclusive }

// PreVATSubtotal base gravable; igual al subtotal en modo exclusivo.
func (f Financials) PreVATSubtotal() decimal.Decimal {
	return f.Subtotal.Sub(f.Tax)
}

// DiscountExceedsSubtotal true si el total quedó negativo por el descuento.
// Informativo: el modelo no lo rechaza.
func (f Financials) DiscountExceedsSubtotal() bool {
	return f.Discount.GreaterThan(f.Subtotal)
}

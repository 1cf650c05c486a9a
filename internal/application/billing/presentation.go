package billing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/posadmin-api/internal/domain/invoicing"
	"github.com/jhoicas/posadmin-api/pkg/money"
)

// PresentationDateLayout formato de fechas en la cabecera de la factura.
const PresentationDateLayout = "02 Jan 2006"

const emptyField = "-"

// InvoiceMeta metadatos de la factura: número, fechas, estado y facturado a.
type InvoiceMeta struct {
	InvoiceNumber string
	Status        string
	InvoiceDate   time.Time
	DueDate       time.Time
	BilledName    string
	BilledEmail   string
	BilledPhone   string
	BilledAddress string
	Note          string
}

// Presentation modelo listo para renderizar. Lo consumen igual la vista previa,
// el detalle, el PDF y las exportaciones; ninguno recalcula montos.
type Presentation struct {
	Header PresentationHeader `json:"header"`
	Rows   []PresentationRow  `json:"rows"`
	Totals PresentationTotals `json:"totals"`
}

// PresentationHeader cabecera formateada.
type PresentationHeader struct {
	InvoiceNumber string   `json:"invoice_number"`
	Status        string   `json:"status"`
	InvoiceDate   string   `json:"invoice_date"`
	DueDate       string   `json:"due_date"`
	BilledTo      BilledTo `json:"billed_to"`
	Note          string   `json:"note,omitempty"`
}

// BilledTo bloque "Facturado a".
type BilledTo struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// PresentationRow fila de la tabla de líneas.
type PresentationRow struct {
	Category  string `json:"category"`
	Label     string `json:"label"`
	UnitPrice string `json:"unit_price"`
	Quantity  int    `json:"quantity"`
	LineTotal string `json:"line_total"`
}

// PresentationTotals bloque de totales. Tax solo viene cuando ShowTax es true (IVA inclusivo).
type PresentationTotals struct {
	Subtotal string `json:"subtotal"`
	Discount string `json:"discount"`
	ShowTax  bool   `json:"show_tax"`
	VATLabel string `json:"vat_label,omitempty"`
	Tax      string `json:"tax,omitempty"`
	Total    string `json:"total"`
}

// Presenter arma el Presentation con un formateador y tasa de IVA fijos.
type Presenter struct {
	formatter *money.Formatter
	vatRate   decimal.Decimal
}

// NewPresenter construye el presenter. vatRate se usa tal cual; cero es una tasa válida.
func NewPresenter(formatter *money.Formatter, vatRate decimal.Decimal) *Presenter {
	return &Presenter{formatter: formatter, vatRate: vatRate}
}

// VATRate tasa usada por el presenter.
func (p *Presenter) VATRate() decimal.Decimal { return p.vatRate }

// Compute recalcula los valores financieros con la tasa del presenter.
func (p *Presenter) Compute(lines []invoicing.LineItem, discount decimal.Decimal, vatInclusive bool) invoicing.Financials {
	return invoicing.Compute(lines, discount, vatInclusive, p.vatRate)
}

// Build combina líneas, descuento y modo de IVA con la cabecera.
// Mismos (lines, discount, vatInclusive) producen siempre los mismos textos de totales.
func (p *Presenter) Build(meta InvoiceMeta, lines []invoicing.LineItem, discount decimal.Decimal, vatInclusive bool) Presentation {
	fin := p.Compute(lines, discount, vatInclusive)

	rows := make([]PresentationRow, 0, len(lines))
	for _, l := range lines {
		rows = append(rows, PresentationRow{
			Category:  string(l.Category),
			Label:     nonEmpty(l.Label, emptyField),
			UnitPrice: p.formatter.Format(l.UnitPrice),
			Quantity:  l.Quantity,
			LineTotal: p.formatter.Format(l.Total()),
		})
	}

	totals := PresentationTotals{
		Subtotal: p.formatter.Format(fin.Subtotal),
		Discount: p.formatter.Format(fin.Discount),
		ShowTax:  fin.ShowsTax(),
		Total:    p.formatter.Format(fin.Total),
	}
	if totals.ShowTax {
		totals.VATLabel = "VAT (" + p.vatRate.Mul(decimal.NewFromInt(100)).String() + "% incl.)"
		totals.Tax = p.formatter.Format(fin.Tax)
	}

	return Presentation{
		Header: PresentationHeader{
			InvoiceNumber: nonEmpty(meta.InvoiceNumber, emptyField),
			Status:        nonEmpty(meta.Status, emptyField),
			InvoiceDate:   formatDate(meta.InvoiceDate),
			DueDate:       formatDate(meta.DueDate),
			BilledTo: BilledTo{
				Name:    nonEmpty(meta.BilledName, emptyField),
				Email:   nonEmpty(meta.BilledEmail, emptyField),
				Phone:   nonEmpty(meta.BilledPhone, emptyField),
				Address: nonEmpty(meta.BilledAddress, emptyField),
			},
			Note: meta.Note,
		},
		Rows:   rows,
		Totals: totals,
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return emptyField
	}
	return t.Format(PresentationDateLayout)
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

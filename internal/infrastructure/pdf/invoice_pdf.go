// Package pdf genera el PDF de la factura a partir del Presentation ya formateado.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Emisor              │  INVOICE N° + Estado + Fechas │
//	│  ─────────────────────────────────────────────────────────  │
//	│  BILLED TO: Nombre / Email / Tel / Dirección                 │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Item | Categoría | P.Unit | Cant | Total             │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Subtotal / Descuento / [IVA] / TOTAL               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: Nota + QR con número y total                        │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/posadmin-api/internal/application/billing"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// Issuer datos del emisor impresos en la cabecera.
type Issuer struct {
	Name    string
	Address string
	Email   string
	Phone   string
}

// ── Generator ─────────────────────────────────────────────────────────────────

var _ billing.InvoicePDFRenderer = (*MarotoInvoiceRenderer)(nil)

// MarotoInvoiceRenderer implementa billing.InvoicePDFRenderer usando Maroto v2.
// No formatea montos: imprime los textos del Presentation tal cual.
type MarotoInvoiceRenderer struct {
	issuer Issuer
}

// NewMarotoInvoiceRenderer construye el generador.
func NewMarotoInvoiceRenderer(issuer Issuer) *MarotoInvoiceRenderer {
	return &MarotoInvoiceRenderer{issuer: issuer}
}

// RenderInvoicePDF genera el PDF y devuelve sus bytes.
func (g *MarotoInvoiceRenderer) RenderInvoicePDF(_ context.Context, p billing.Presentation) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Invoice "+p.Header.InvoiceNumber, true).
		WithAuthor(nonEmpty(g.issuer.Name, "POS Admin"), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.issuer, p.Header))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(billedToRow(p.Header.BilledTo))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableRows(p.Rows)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRows(p.Totals)...)

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRows(p)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: emisor (izq) y número, estado y fechas (der).
func headerRow(issuer Issuer, h billing.PresentationHeader) core.Row {
	return row.New(24).Add(
		col.New(7).Add(
			text.New(nonEmpty(issuer.Name, "POS Admin"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("%s   |   %s   |   %s",
				nonEmpty(issuer.Address, "-"),
				nonEmpty(issuer.Phone, "-"),
				nonEmpty(issuer.Email, "-"),
			), props.Text{Size: 8, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("INVOICE", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(h.InvoiceNumber, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 6,
			}),
			text.New("Status: "+h.Status, props.Text{
				Size: 8, Align: align.Right, Top: 13, Color: colorGray,
			}),
			text.New(fmt.Sprintf("Date: %s   Due: %s", h.InvoiceDate, h.DueDate), props.Text{
				Size: 8, Align: align.Right, Top: 18, Color: colorGray,
			}),
		),
	)
}

// billedToRow: bloque "Billed to".
func billedToRow(b billing.BilledTo) core.Row {
	return row.New(18).Add(
		col.New(12).Add(
			text.New("BILLED TO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(b.Name, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("Email: %s   |   Tel: %s", b.Email, b.Phone), props.Text{
				Size: 8, Top: 11, Color: colorGray,
			}),
			text.New(b.Address, props.Text{Size: 8, Top: 15, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de líneas.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).WithStyle(&props.Cell{BackgroundColor: colorPrimary}).Add(
		h("Item", 4, align.Left),
		h("Type", 2, align.Left),
		h("Unit price", 2, align.Right),
		h("Qty", 1, align.Center),
		h("Total", 3, align.Right),
	)
}

// tableRows: una fila por línea; sin líneas se imprime un aviso.
func tableRows(lines []billing.PresentationRow) []core.Row {
	if len(lines) == 0 {
		return []core.Row{row.New(8).Add(col.New(12).Add(
			text.New("No items", props.Text{Size: 8, Align: align.Center, Top: 2, Color: colorGray}),
		))}
	}
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		result = append(result, row.New(7).Add(
			col.New(4).Add(text.New(l.Label, props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
			col.New(2).Add(text.New(l.Category, props.Text{Size: 8, Align: align.Left, Top: 1, Color: colorGray})),
			col.New(2).Add(text.New(l.UnitPrice, props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(1).Add(text.New(fmt.Sprintf("%d", l.Quantity), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(3).Add(text.New(l.LineTotal, props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

// totalsRows: bloque de totales a la derecha; la línea de IVA solo en modo inclusivo.
func totalsRows(t billing.PresentationTotals) []core.Row {
	pair := func(label, value string, grand bool) core.Row {
		style := props.Text{Size: 9, Align: align.Right, Top: 1}
		if grand {
			style = props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 1}
		}
		labelStyle := style
		labelStyle.Style = fontstyle.Bold
		labelStyle.Right = 2
		return row.New(6).Add(
			col.New(6),
			col.New(3).Add(text.New(label, labelStyle)),
			col.New(3).Add(text.New(value, style)),
		)
	}

	rows := []core.Row{
		pair("Subtotal:", t.Subtotal, false),
		pair("Discount:", t.Discount, false),
	}
	if t.ShowTax {
		rows = append(rows, pair(t.VATLabel+":", t.Tax, false))
	}
	return append(rows, pair("TOTAL:", t.Total, true))
}

// footerRows: nota de la factura y QR con número y total.
func footerRows(p billing.Presentation) []core.Row {
	rows := []core.Row{}
	if p.Header.Note != "" {
		rows = append(rows,
			row.New(5).Add(col.New(12).Add(
				text.New("Note", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			)),
			row.New(10).Add(col.New(12).Add(
				text.New(p.Header.Note, props.Text{Size: 8, Color: colorGray, Top: 1}),
			)),
		)
	}

	rows = append(rows, row.New(3))
	rows = append(rows, row.New(30).Add(
		col.New(3).Add(code.NewQr(qrPayload(p), props.Rect{
			Percent: 95,
			Center:  true,
		})),
		col.New(9).Add(
			text.New("Thank you for your business.", props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 8, Left: 3, Color: colorPrimary,
			}),
			text.New("Amounts in "+currencyOf(p.Totals.Total)+".", props.Text{
				Size: 8, Top: 16, Left: 3, Color: colorGray,
			}),
		),
	))
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

// qrPayload "INV-000123|TZS 1,100,000.00".
func qrPayload(p billing.Presentation) string {
	return p.Header.InvoiceNumber + "|" + p.Totals.Total
}

// currencyOf primer token del monto formateado ("-TZS 5.00" -> "TZS").
func currencyOf(formatted string) string {
	s := formatted
	if len(s) > 0 && s[0] == '-' {
		s = s[1:]
	}
	for i := 0; i < len(s); i++ {
		if s[i] == ' ' {
			return s[:i]
		}
	}
	return s
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

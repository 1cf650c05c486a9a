// Package export convierte el Presentation de una factura en CSV y XLSX.
// Los montos salen tal como los formateó el Presenter.
package export

import (
	"strconv"

	"github.com/jhoicas/posadmin-api/internal/application/billing"
)

var itemsHeader = []string{"Item", "Type", "Unit price", "Qty", "Total"}

// sheet filas del documento y posición de la cabecera de líneas.
type sheet struct {
	rows        [][]string
	itemsHeader int
}

// table filas del documento: cabecera, líneas y totales, separados por una fila vacía.
// text se aplica a los campos de texto libre (nombres, contacto, nota, descripción de línea);
// los montos ya formateados no pasan por text.
func table(p billing.Presentation, text func(string) string) sheet {
	h := p.Header
	out := [][]string{
		{"Invoice", h.InvoiceNumber},
		{"Status", h.Status},
		{"Invoice date", h.InvoiceDate},
		{"Due date", h.DueDate},
		{"Billed to", text(h.BilledTo.Name)},
		{"Email", text(h.BilledTo.Email)},
		{"Phone", text(h.BilledTo.Phone)},
		{"Address", text(h.BilledTo.Address)},
	}
	if h.Note != "" {
		out = append(out, []string{"Note", text(h.Note)})
	}
	out = append(out, nil)
	header := len(out)
	out = append(out, itemsHeader)
	for _, r := range p.Rows {
		out = append(out, []string{text(r.Label), r.Category, r.UnitPrice, strconv.Itoa(r.Quantity), r.LineTotal})
	}
	out = append(out, nil, []string{"Subtotal", p.Totals.Subtotal}, []string{"Discount", p.Totals.Discount})
	if p.Totals.ShowTax {
		out = append(out, []string{p.Totals.VATLabel, p.Totals.Tax})
	}
	out = append(out, []string{"Total", p.Totals.Total})
	return sheet{rows: out, itemsHeader: header}
}

func plainText(s string) string { return s }

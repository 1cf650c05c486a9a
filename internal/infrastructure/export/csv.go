package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/jhoicas/posadmin-api/internal/application/billing"
)

var _ billing.PresentationExporter = CSVExporter{}

// CSVExporter exporta la factura como CSV (RFC 4180).
type CSVExporter struct{}

func (CSVExporter) ContentType() string { return "text/csv; charset=utf-8" }
func (CSVExporter) Extension() string   { return "csv" }

// Export escribe las filas de table; las filas vacías quedan como línea en blanco.
func (CSVExporter) Export(p billing.Presentation) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	for _, rec := range table(p, csvText).rows {
		if rec == nil {
			rec = []string{""}
		}
		if err := w.Write(rec); err != nil {
			return nil, fmt.Errorf("csv: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("csv: %w", err)
	}
	return buf.Bytes(), nil
}

// csvText antepone ' a los valores que una hoja de cálculo tomaría como fórmula.
func csvText(s string) string {
	if len(s) > 1 && strings.ContainsRune("=+-@\t\r", rune(s[0])) {
		return "'" + s
	}
	return s
}

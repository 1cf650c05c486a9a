package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/posadmin-api/internal/application/billing"
)

// SheetName hoja única del libro exportado.
const SheetName = "Invoice"

var _ billing.PresentationExporter = XLSXExporter{}

// XLSXExporter exporta la factura como libro de Excel con una hoja.
type XLSXExporter struct{}

func (XLSXExporter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}
func (XLSXExporter) Extension() string { return "xlsx" }

// Export escribe table en la hoja Invoice con la cabecera de líneas en negrita.
func (XLSXExporter) Export(p billing.Presentation) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("xlsx: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("xlsx: estilo: %w", err)
	}

	doc := table(p, plainText)
	for i, rec := range doc.rows {
		rowNum := i + 1
		for j, value := range rec {
			cell, err := excelize.CoordinatesToCellName(j+1, rowNum)
			if err != nil {
				return nil, fmt.Errorf("xlsx: %w", err)
			}
			if err := f.SetCellValue(SheetName, cell, value); err != nil {
				return nil, fmt.Errorf("xlsx: %w", err)
			}
		}
		if i == doc.itemsHeader {
			last, _ := excelize.CoordinatesToCellName(len(rec), rowNum)
			if err := f.SetCellStyle(SheetName, fmt.Sprintf("A%d", rowNum), last, bold); err != nil {
				return nil, fmt.Errorf("xlsx: %w", err)
			}
		}
	}
	if err := f.SetColWidth(SheetName, "A", "A", 32); err != nil {
		return nil, fmt.Errorf("xlsx: %w", err)
	}
	if err := f.SetColWidth(SheetName, "B", "E", 20); err != nil {
		return nil, fmt.Errorf("xlsx: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx: escribir: %w", err)
	}
	return buf.Bytes(), nil
}

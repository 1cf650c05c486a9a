package billing

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/posadmin-api/internal/domain"
)

// PresentationSource fuente del Presentation persistido (InvoiceUseCase).
type PresentationSource interface {
	GetInvoicePresentation(ctx context.Context, id string) (*Presentation, error)
}

// ExportFile archivo listo para descargar.
type ExportFile struct {
	Content     []byte
	Filename    string
	ContentType string
}

// ExportUseCase genera PDF, CSV y XLSX de una factura a partir de su Presentation.
type ExportUseCase struct {
	source    PresentationSource
	pdf       InvoicePDFRenderer
	exporters map[string]PresentationExporter
}

// NewExportUseCase construye el caso de uso; cada exporter se registra por su extensión.
func NewExportUseCase(source PresentationSource, pdf InvoicePDFRenderer, exporters ...PresentationExporter) *ExportUseCase {
	byExt := make(map[string]PresentationExporter, len(exporters))
	for _, e := range exporters {
		byExt[e.Extension()] = e
	}
	return &ExportUseCase{source: source, pdf: pdf, exporters: byExt}
}

// DownloadInvoicePDF genera el PDF con los mismos textos que el detalle en pantalla.
func (uc *ExportUseCase) DownloadInvoicePDF(ctx context.Context, invoiceID string) (*ExportFile, error) {
	p, err := uc.source.GetInvoicePresentation(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	content, err := uc.pdf.RenderInvoicePDF(ctx, *p)
	if err != nil {
		return nil, fmt.Errorf("pdf: generación fallida: %w", err)
	}
	return &ExportFile{
		Content:     content,
		Filename:    exportFilename(p, "pdf"),
		ContentType: "application/pdf",
	}, nil
}

// Export exporta la factura en el formato pedido ("csv", "xlsx").
func (uc *ExportUseCase) Export(ctx context.Context, invoiceID, format string) (*ExportFile, error) {
	exporter, ok := uc.exporters[strings.ToLower(format)]
	if !ok {
		return nil, fmt.Errorf("%w: formato de exportación %q no soportado", domain.ErrInvalidInput, format)
	}
	p, err := uc.source.GetInvoicePresentation(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	content, err := exporter.Export(*p)
	if err != nil {
		return nil, fmt.Errorf("exportar %s: %w", exporter.Extension(), err)
	}
	return &ExportFile{
		Content:     content,
		Filename:    exportFilename(p, exporter.Extension()),
		ContentType: exporter.ContentType(),
	}, nil
}

func exportFilename(p *Presentation, ext string) string {
	number := p.Header.InvoiceNumber
	if number == "" || number == emptyField {
		number = "draft"
	}
	return fmt.Sprintf("invoice_%s.%s", number, ext)
}

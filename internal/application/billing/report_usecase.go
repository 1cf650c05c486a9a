package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/posadmin-api/internal/application/dto"
	"github.com/jhoicas/posadmin-api/internal/domain/entity"
	"github.com/jhoicas/posadmin-api/internal/domain/invoicing"
	"github.com/jhoicas/posadmin-api/internal/domain/repository"
	"github.com/jhoicas/posadmin-api/pkg/money"
)

const reportPageSize = 100

// ReportUseCase resumen de facturación por periodo con la precisión de reportes.
type ReportUseCase struct {
	invoiceRepo repository.InvoiceRepository
	presenter   *Presenter
	formatter   *money.Formatter
	now         func() time.Time
}

// NewReportUseCase construye el caso de uso. formatter debe venir con las opciones de reporte.
func NewReportUseCase(invoiceRepo repository.InvoiceRepository, presenter *Presenter, formatter *money.Formatter) *ReportUseCase {
	return &ReportUseCase{invoiceRepo: invoiceRepo, presenter: presenter, formatter: formatter, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (uc *ReportUseCase) WithClock(now func() time.Time) *ReportUseCase {
	uc.now = now
	return uc
}

// InvoiceReport acumula facturas con invoice_date en [from, to]. Por defecto el mes en curso.
// Las canceladas cuentan en ByStatus pero no en los totales generales.
func (uc *ReportUseCase) InvoiceReport(ctx context.Context, from, to string) (*dto.InvoiceReportResponse, error) {
	now := uc.now()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	var err error
	if from != "" {
		if start, err = time.Parse(dto.DateLayout, from); err != nil {
			return nil, dto.NewValidationError("from", "formato de fecha inválido, use "+dto.DateLayout)
		}
	}
	if to != "" {
		if end, err = time.Parse(dto.DateLayout, to); err != nil {
			return nil, dto.NewValidationError("to", "formato de fecha inválido, use "+dto.DateLayout)
		}
	}
	if end.Before(start) {
		return nil, dto.NewValidationError("to", "no puede ser anterior a from")
	}

	type acc struct {
		count int
		total decimal.Decimal
	}
	byStatus := map[string]*acc{}
	var count int
	var devices, subscriptions, tax, grand decimal.Decimal

	for offset := 0; ; offset += reportPageSize {
		list, total, err := uc.invoiceRepo.List(ctx, repository.InvoiceFilter{
			From:   start,
			To:     end,
			Limit:  reportPageSize,
			Offset: offset,
		})
		if err != nil {
			return nil, fmt.Errorf("reporte: listar facturas: %w", err)
		}
		for _, inv := range list {
			fin := uc.presenter.Compute(inv.LineItems(), inv.Discount, inv.VATInclusive)
			a, ok := byStatus[inv.Status]
			if !ok {
				a = &acc{}
				byStatus[inv.Status] = a
			}
			a.count++
			a.total = a.total.Add(fin.Total)
			count++
			if inv.Status == entity.InvoiceStatusCancelled {
				continue
			}
			devices = devices.Add(fin.ByCategory[invoicing.CategoryDevice])
			subscriptions = subscriptions.Add(fin.ByCategory[invoicing.CategorySubscription])
			tax = tax.Add(fin.Tax)
			grand = grand.Add(fin.Total)
		}
		if len(list) == 0 || offset+len(list) >= total {
			break
		}
	}

	resp := &dto.InvoiceReportResponse{
		From:          start.Format(dto.DateLayout),
		To:            end.Format(dto.DateLayout),
		Count:         count,
		ByStatus:      make(map[string]dto.InvoiceReportStatus, len(byStatus)),
		Devices:       uc.formatter.Format(devices),
		Subscriptions: uc.formatter.Format(subscriptions),
		Tax:           uc.formatter.Format(tax),
		GrandTotal:    uc.formatter.Format(grand),
	}
	for status, a := range byStatus {
		resp.ByStatus[status] = dto.InvoiceReportStatus{Count: a.count, Total: uc.formatter.Format(a.total)}
	}
	return resp, nil
}

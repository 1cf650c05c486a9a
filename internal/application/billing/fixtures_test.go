package billing_test

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/posadmin-api/internal/application/billing"
	"github.com/jhoicas/posadmin-api/internal/domain/entity"
	"github.com/jhoicas/posadmin-api/internal/domain/invoicing"
	"github.com/jhoicas/posadmin-api/pkg/logger"
	"github.com/jhoicas/posadmin-api/pkg/money"
)

var fixedNow = time.Date(2026, 10, 14, 9, 30, 0, 123_000_000, time.UTC)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newPresenter() *billing.Presenter {
	return billing.NewPresenter(money.NewFormatter(money.InvoiceOptions()), invoicing.DefaultVATRate)
}

func newCatalog() *memCatalog {
	return &memCatalog{
		owners: map[string]*entity.BusinessOwner{
			"owner-1": {
				ID: "owner-1", FullName: "Asha Mwita", BusinessName: "Duka Bora",
				Email: "asha@dukabora.co.tz", Phone: "+255 712 000 111", Address: "Kariakoo, Dar es Salaam",
			},
		},
		devices: map[string]*entity.Device{
			"dev-pos": {ID: "dev-pos", Brand: "Sunmi", Type: "V2s", Price: dec("500000")},
			"dev-prn": {ID: "dev-prn", Brand: "Epson", Type: "TM-T20", Price: dec("118000")},
		},
		packages: map[string]*entity.SubscriptionPackage{
			"pkg-annual": {ID: "pkg-annual", Name: "Annual", Price: dec("200000"), DurationMonths: 12},
			"pkg-month":  {ID: "pkg-month", Name: "Monthly", Price: dec("100000"), DurationMonths: 1},
		},
	}
}

type testEnv struct {
	repo    *memInvoiceRepo
	tx      *memTxRunner
	catalog *memCatalog
	uc      *billing.InvoiceUseCase
}

func newTestEnv() *testEnv {
	repo := newMemInvoiceRepo()
	tx := &memTxRunner{repo: repo}
	catalog := newCatalog()
	uc := billing.NewInvoiceUseCase(tx, repo, catalog, newPresenter(), logger.Nop()).
		WithClock(func() time.Time { return fixedNow })
	return &testEnv{repo: repo, tx: tx, catalog: catalog, uc: uc}
}

// persistedInvoice factura ya guardada con una fila de dispositivos y/o suscripciones.
func persistedInvoice(id, number, status string, date time.Time, vatInclusive bool, discount string, data entity.ItemsData) *entity.Invoice {
	return &entity.Invoice{
		ID:            id,
		OwnerID:       "owner-1",
		InvoiceNumber: number,
		Status:        status,
		InvoiceDate:   date,
		DueDate:       date.AddDate(0, 0, 30),
		BilledName:    "Asha Mwita (Duka Bora)",
		Discount:      dec(discount),
		VATInclusive:  vatInclusive,
		Items:         []entity.InvoiceItem{{ID: id + "-item", InvoiceID: id, ItemsData: data}},
	}
}

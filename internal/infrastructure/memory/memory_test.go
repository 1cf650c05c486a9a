package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/posadmin-api/internal/domain"
	"github.com/jhoicas/posadmin-api/internal/domain/entity"
	"github.com/jhoicas/posadmin-api/internal/domain/repository"
	"github.com/jhoicas/posadmin-api/internal/infrastructure/memory"
)

func invoice(id, number string, date time.Time) *entity.Invoice {
	return &entity.Invoice{ID: id, InvoiceNumber: number, Status: entity.InvoiceStatusDraft, InvoiceDate: date, BilledName: "Duka Bora"}
}

func TestStore_InvoiceLifecycle(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	day := time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.RunInvoice(ctx, func(repo repository.InvoiceRepository) error {
		if err := repo.Create(ctx, invoice("a", "INV-000001", day)); err != nil {
			return err
		}
		return repo.CreateItem(ctx, &entity.InvoiceItem{ID: "a-1", InvoiceID: "a"})
	}))

	err := s.Create(ctx, invoice("b", "INV-000001", day))
	assert.True(t, errors.Is(err, domain.ErrDuplicate))
	assert.True(t, errors.Is(s.CreateItem(ctx, &entity.InvoiceItem{InvoiceID: "missing"}), domain.ErrNotFound))

	got, err := s.GetByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "INV-000001", got.InvoiceNumber)
	missing, err := s.GetByID(ctx, "zzz")
	require.NoError(t, err)
	assert.Nil(t, missing)

	items, err := s.GetItemsByInvoiceID(ctx, "a")
	require.NoError(t, err)
	assert.Len(t, items, 1)

	require.NoError(t, s.UpdateStatus(ctx, "a", entity.InvoiceStatusPaid, day))
	got, _ = s.GetByID(ctx, "a")
	assert.Equal(t, entity.InvoiceStatusPaid, got.Status)
	assert.True(t, errors.Is(s.UpdateStatus(ctx, "zzz", "paid", day), domain.ErrNotFound))
}

func TestStore_ListOrderingFiltersAndPaging(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	d1 := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2026, 10, 9, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.Create(ctx, invoice("a", "INV-000001", d1)))
	require.NoError(t, s.Create(ctx, invoice("b", "INV-000002", d2)))
	require.NoError(t, s.Create(ctx, invoice("c", "INV-000003", d2)))

	list, total, err := s.List(ctx, repository.InvoiceFilter{})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Equal(t, []string{"c", "b", "a"}, []string{list[0].ID, list[1].ID, list[2].ID})

	list, total, err = s.List(ctx, repository.InvoiceFilter{From: d2, Limit: 1, Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, list, 1)
	assert.Equal(t, "b", list[0].ID)

	list, _, err = s.List(ctx, repository.InvoiceFilter{Search: "inv-000001"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "a", list[0].ID)
}

func TestSeededStore_Catalog(t *testing.T) {
	s := memory.NewSeededStore()
	ctx := context.Background()

	owners, err := s.SearchOwners(ctx, "duka", 10)
	require.NoError(t, err)
	require.Len(t, owners, 1)

	devices, err := s.ListDevices(ctx, "", 10)
	require.NoError(t, err)
	require.Len(t, devices, 2)
	assert.Equal(t, "Epson TM-T20", devices[0].DisplayName())

	pkgs, err := s.ListSubscriptionPackages(ctx, "", 1)
	require.NoError(t, err)
	require.Len(t, pkgs, 1)
	assert.Equal(t, "Monthly", pkgs[0].Name)
}

func TestStore_CatalogReadsReturnCopies(t *testing.T) {
	s := memory.NewSeededStore()
	ctx := context.Background()

	d, err := s.GetDevice(ctx, "dev-epson-t20")
	require.NoError(t, err)
	d.Price = decimal.NewFromInt(1)
	listed, err := s.ListDevices(ctx, "epson", 1)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	listed[0].Brand = "Otro"

	again, err := s.GetDevice(ctx, "dev-epson-t20")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(118000).Equal(again.Price))
	assert.Equal(t, "Epson", again.Brand)

	pkg, err := s.GetSubscriptionPackage(ctx, "pkg-annual")
	require.NoError(t, err)
	pkg.Name = "Cambiado"
	pkg, err = s.GetSubscriptionPackage(ctx, "pkg-annual")
	require.NoError(t, err)
	assert.Equal(t, "Annual", pkg.Name)

	owner := &entity.BusinessOwner{ID: "owner-x", FullName: "Neema Juma"}
	s.PutOwner(owner)
	owner.FullName = "fuera del lock"
	got, err := s.GetOwner(ctx, "owner-x")
	require.NoError(t, err)
	assert.Equal(t, "Neema Juma", got.FullName)
	got.FullName = "tampoco"
	got, err = s.GetOwner(ctx, "owner-x")
	require.NoError(t, err)
	assert.Equal(t, "Neema Juma", got.FullName)

	missing, err := s.GetDevice(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

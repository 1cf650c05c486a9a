package billing_test

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/posadmin-api/internal/domain"
	"github.com/jhoicas/posadmin-api/internal/domain/entity"
	"github.com/jhoicas/posadmin-api/internal/domain/repository"
)

// ── InvoiceRepository en memoria ──────────────────────────────────────────────

type memInvoiceRepo struct {
	mu       sync.Mutex
	invoices map[string]*entity.Invoice
	items    map[string][]entity.InvoiceItem
	// dupNumbers números que deben fallar como duplicados (simula unique constraint).
	dupNumbers map[string]bool
	createErr  error
}

func newMemInvoiceRepo() *memInvoiceRepo {
	return &memInvoiceRepo{
		invoices:   map[string]*entity.Invoice{},
		items:      map[string][]entity.InvoiceItem{},
		dupNumbers: map[string]bool{},
	}
}

var _ repository.InvoiceRepository = (*memInvoiceRepo)(nil)

func (r *memInvoiceRepo) Create(_ context.Context, inv *entity.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	if r.dupNumbers[inv.InvoiceNumber] {
		return domain.ErrDuplicate
	}
	for _, existing := range r.invoices {
		if existing.InvoiceNumber == inv.InvoiceNumber {
			return domain.ErrDuplicate
		}
	}
	cp := *inv
	cp.Items = nil
	r.invoices[inv.ID] = &cp
	return nil
}

func (r *memInvoiceRepo) CreateItem(_ context.Context, item *entity.InvoiceItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.invoices[item.InvoiceID]; !ok {
		return errors.New("invoice not found")
	}
	r.items[item.InvoiceID] = append(r.items[item.InvoiceID], *item)
	return nil
}

func (r *memInvoiceRepo) GetByID(_ context.Context, id string) (*entity.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.invoices[id]
	if !ok {
		return nil, nil
	}
	cp := *inv
	return &cp, nil
}

func (r *memInvoiceRepo) GetItemsByInvoiceID(_ context.Context, invoiceID string) ([]entity.InvoiceItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]entity.InvoiceItem(nil), r.items[invoiceID]...), nil
}

func (r *memInvoiceRepo) List(_ context.Context, f repository.InvoiceFilter) ([]*entity.Invoice, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []*entity.Invoice
	for _, inv := range r.invoices {
		if f.Status != "" && inv.Status != f.Status {
			continue
		}
		if f.Search != "" && !strings.Contains(inv.InvoiceNumber+inv.BilledName, f.Search) {
			continue
		}
		if !f.From.IsZero() && inv.InvoiceDate.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && inv.InvoiceDate.After(f.To) {
			continue
		}
		cp := *inv
		cp.Items = append([]entity.InvoiceItem(nil), r.items[inv.ID]...)
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].InvoiceNumber < all[j].InvoiceNumber })
	total := len(all)
	if f.Offset >= total {
		return nil, total, nil
	}
	end := total
	if f.Limit > 0 && f.Offset+f.Limit < total {
		end = f.Offset + f.Limit
	}
	return all[f.Offset:end], total, nil
}

func (r *memInvoiceRepo) UpdateStatus(_ context.Context, id, status string, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.invoices[id]
	if !ok {
		return domain.ErrNotFound
	}
	inv.Status = status
	inv.UpdatedAt = updatedAt
	return nil
}

// put guarda una factura ya armada (con Items) directamente.
func (r *memInvoiceRepo) put(inv *entity.Invoice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *inv
	cp.Items = nil
	r.invoices[inv.ID] = &cp
	r.items[inv.ID] = append([]entity.InvoiceItem(nil), inv.Items...)
}

// ── TxRunner que reusa el repo en memoria ─────────────────────────────────────

type memTxRunner struct {
	repo  *memInvoiceRepo
	calls int
}

func (t *memTxRunner) RunInvoice(_ context.Context, fn func(repository.InvoiceRepository) error) error {
	t.calls++
	return fn(t.repo)
}

// ── CatalogRepository en memoria ──────────────────────────────────────────────

type memCatalog struct {
	owners   map[string]*entity.BusinessOwner
	devices  map[string]*entity.Device
	packages map[string]*entity.SubscriptionPackage
}

var _ repository.CatalogRepository = (*memCatalog)(nil)

func (c *memCatalog) SearchOwners(_ context.Context, q string, limit int) ([]*entity.BusinessOwner, error) {
	var out []*entity.BusinessOwner
	for _, o := range c.owners {
		if q == "" || strings.Contains(strings.ToLower(o.DisplayName()), strings.ToLower(q)) {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (c *memCatalog) GetOwner(_ context.Context, id string) (*entity.BusinessOwner, error) {
	return c.owners[id], nil
}

func (c *memCatalog) ListDevices(_ context.Context, q string, limit int) ([]*entity.Device, error) {
	var out []*entity.Device
	for _, d := range c.devices {
		if q == "" || strings.Contains(strings.ToLower(d.DisplayName()), strings.ToLower(q)) {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (c *memCatalog) GetDevice(_ context.Context, id string) (*entity.Device, error) {
	return c.devices[id], nil
}

func (c *memCatalog) ListSubscriptionPackages(_ context.Context, q string, limit int) ([]*entity.SubscriptionPackage, error) {
	var out []*entity.SubscriptionPackage
	for _, p := range c.packages {
		if q == "" || strings.Contains(strings.ToLower(p.Name), strings.ToLower(q)) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (c *memCatalog) GetSubscriptionPackage(_ context.Context, id string) (*entity.SubscriptionPackage, error) {
	return c.packages[id], nil
}

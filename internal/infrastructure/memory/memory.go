// Package memory almacenamiento en memoria para desarrollo local sin PostgreSQL
// (STORAGE_DRIVER=memory) y para tests de la capa HTTP.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/posadmin-api/internal/application/billing"
	"github.com/jhoicas/posadmin-api/internal/domain"
	"github.com/jhoicas/posadmin-api/internal/domain/entity"
	"github.com/jhoicas/posadmin-api/internal/domain/repository"
)

var (
	_ repository.InvoiceRepository = (*Store)(nil)
	_ repository.CatalogRepository = (*Store)(nil)
	_ billing.InvoiceTxRunner      = (*Store)(nil)
)

// Store guarda facturas y catálogo en mapas protegidos por un mutex.
type Store struct {
	mu       sync.RWMutex
	invoices map[string]*entity.Invoice
	items    map[string][]entity.InvoiceItem
	owners   map[string]*entity.BusinessOwner
	devices  map[string]*entity.Device
	packages map[string]*entity.SubscriptionPackage
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{
		invoices: map[string]*entity.Invoice{},
		items:    map[string][]entity.InvoiceItem{},
		owners:   map[string]*entity.BusinessOwner{},
		devices:  map[string]*entity.Device{},
		packages: map[string]*entity.SubscriptionPackage{},
	}
}

// NewSeededStore store con un catálogo de demostración.
func NewSeededStore() *Store {
	s := NewStore()
	s.PutOwner(&entity.BusinessOwner{
		ID: "owner-demo", FullName: "Asha Mwita", BusinessName: "Duka Bora",
		Email: "asha@dukabora.co.tz", Phone: "+255 712 000 111", Address: "Kariakoo, Dar es Salaam",
		CreatedAt: time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
	})
	s.PutDevice(&entity.Device{ID: "dev-sunmi-v2s", Brand: "Sunmi", Type: "V2s", Price: decimal.NewFromInt(500000)})
	s.PutDevice(&entity.Device{ID: "dev-epson-t20", Brand: "Epson", Type: "TM-T20", Price: decimal.NewFromInt(118000)})
	s.PutPackage(&entity.SubscriptionPackage{ID: "pkg-monthly", Name: "Monthly", Price: decimal.NewFromInt(25000), DurationMonths: 1})
	s.PutPackage(&entity.SubscriptionPackage{ID: "pkg-annual", Name: "Annual", Price: decimal.NewFromInt(250000), DurationMonths: 12})
	return s
}

// PutOwner alta o reemplazo de un dueño.
func (s *Store) PutOwner(o *entity.BusinessOwner) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.owners[o.ID] = clone(o)
}

// PutDevice alta o reemplazo de un dispositivo.
func (s *Store) PutDevice(d *entity.Device) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.devices[d.ID] = clone(d)
}

// PutPackage alta o reemplazo de un paquete.
func (s *Store) PutPackage(p *entity.SubscriptionPackage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.packages[p.ID] = clone(p)
}

// RunInvoice ejecuta fn contra el mismo store. Sin rollback: Create y CreateItem no fallan a medias.
func (s *Store) RunInvoice(_ context.Context, fn func(invoiceRepo repository.InvoiceRepository) error) error {
	return fn(s)
}

// ── InvoiceRepository ────────────────────────────────────────────────────────

func (s *Store) Create(_ context.Context, inv *entity.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.invoices {
		if existing.InvoiceNumber == inv.InvoiceNumber {
			return domain.ErrDuplicate
		}
	}
	cp := *inv
	cp.Items = nil
	s.invoices[inv.ID] = &cp
	return nil
}

func (s *Store) CreateItem(_ context.Context, item *entity.InvoiceItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.invoices[item.InvoiceID]; !ok {
		return domain.ErrNotFound
	}
	s.items[item.InvoiceID] = append(s.items[item.InvoiceID], *item)
	return nil
}

func (s *Store) GetByID(_ context.Context, id string) (*entity.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inv, ok := s.invoices[id]
	if !ok {
		return nil, nil
	}
	cp := *inv
	return &cp, nil
}

func (s *Store) GetItemsByInvoiceID(_ context.Context, invoiceID string) ([]entity.InvoiceItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entity.InvoiceItem(nil), s.items[invoiceID]...), nil
}

// List mismo orden que PostgreSQL: invoice_date y número descendentes.
func (s *Store) List(_ context.Context, f repository.InvoiceFilter) ([]*entity.Invoice, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	search := strings.ToLower(strings.TrimSpace(f.Search))
	var all []*entity.Invoice
	for _, inv := range s.invoices {
		if f.Status != "" && inv.Status != f.Status {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(inv.InvoiceNumber), search) &&
			!strings.Contains(strings.ToLower(inv.BilledName), search) {
			continue
		}
		if !f.From.IsZero() && inv.InvoiceDate.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && inv.InvoiceDate.After(f.To) {
			continue
		}
		cp := *inv
		cp.Items = append([]entity.InvoiceItem(nil), s.items[inv.ID]...)
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].InvoiceDate.Equal(all[j].InvoiceDate) {
			return all[i].InvoiceDate.After(all[j].InvoiceDate)
		}
		return all[i].InvoiceNumber > all[j].InvoiceNumber
	})
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

func (s *Store) UpdateStatus(_ context.Context, id, status string, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.invoices[id]
	if !ok {
		return domain.ErrNotFound
	}
	inv.Status = status
	inv.UpdatedAt = updatedAt
	return nil
}

// ── CatalogRepository ────────────────────────────────────────────────────────

func (s *Store) SearchOwners(_ context.Context, q string, limit int) ([]*entity.BusinessOwner, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*entity.BusinessOwner
	for _, o := range s.owners {
		if matches(q, o.FullName, o.BusinessName, o.Email) {
			out = append(out, clone(o))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DisplayName() < out[j].DisplayName() })
	return truncate(out, limit), nil
}

func (s *Store) GetOwner(_ context.Context, id string) (*entity.BusinessOwner, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.owners[id]), nil
}

func (s *Store) ListDevices(_ context.Context, q string, limit int) ([]*entity.Device, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*entity.Device
	for _, d := range s.devices {
		if matches(q, d.Brand, d.Type) {
			out = append(out, clone(d))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DisplayName() < out[j].DisplayName() })
	return truncate(out, limit), nil
}

func (s *Store) GetDevice(_ context.Context, id string) (*entity.Device, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.devices[id]), nil
}

func (s *Store) ListSubscriptionPackages(_ context.Context, q string, limit int) ([]*entity.SubscriptionPackage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*entity.SubscriptionPackage
	for _, p := range s.packages {
		if matches(q, p.Name) {
			out = append(out, clone(p))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Price.Equal(out[j].Price) {
			return out[i].Price.LessThan(out[j].Price)
		}
		return out[i].Name < out[j].Name
	})
	return truncate(out, limit), nil
}

func (s *Store) GetSubscriptionPackage(_ context.Context, id string) (*entity.SubscriptionPackage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.packages[id]), nil
}

func matches(q string, fields ...string) bool {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

// clone copia superficial; las entidades de catálogo no tienen slices ni mapas.
func clone[T any](v *T) *T {
	if v == nil {
		return nil
	}
	cp := *v
	return &cp
}

func truncate[T any](list []T, limit int) []T {
	if limit > 0 && len(list) > limit {
		return list[:limit]
	}
	return list
}

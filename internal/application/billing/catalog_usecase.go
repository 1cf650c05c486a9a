package billing

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/jhoicas/posadmin-api/internal/application/dto"
	"github.com/jhoicas/posadmin-api/internal/domain/entity"
	"github.com/jhoicas/posadmin-api/internal/domain/repository"
)

const defaultCatalogLimit = 20

// CatalogUseCase búsquedas del formulario de factura (dueños, dispositivos, paquetes).
type CatalogUseCase struct {
	catalog repository.CatalogRepository
}

// NewCatalogUseCase construye el caso de uso.
func NewCatalogUseCase(catalog repository.CatalogRepository) *CatalogUseCase {
	return &CatalogUseCase{catalog: catalog}
}

// SearchOwners busca dueños de negocio por nombre, negocio o email.
func (uc *CatalogUseCase) SearchOwners(ctx context.Context, query string, limit int) ([]dto.CatalogEntry, error) {
	list, err := uc.catalog.SearchOwners(ctx, strings.TrimSpace(query), catalogLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("buscar dueños: %w", err)
	}
	return lo.Map(list, func(o *entity.BusinessOwner, _ int) dto.CatalogEntry {
		return dto.CatalogEntry{ID: o.ID, DisplayName: o.DisplayName(), Email: o.Email, Phone: o.Phone}
	}), nil
}

// ListDevices dispositivos vendibles con su precio.
func (uc *CatalogUseCase) ListDevices(ctx context.Context, query string, limit int) ([]dto.CatalogEntry, error) {
	list, err := uc.catalog.ListDevices(ctx, strings.TrimSpace(query), catalogLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("listar dispositivos: %w", err)
	}
	return lo.Map(list, func(d *entity.Device, _ int) dto.CatalogEntry {
		return dto.CatalogEntry{ID: d.ID, DisplayName: d.DisplayName(), UnitPrice: d.Price}
	}), nil
}

// ListSubscriptionPackages paquetes de suscripción con su precio.
func (uc *CatalogUseCase) ListSubscriptionPackages(ctx context.Context, query string, limit int) ([]dto.CatalogEntry, error) {
	list, err := uc.catalog.ListSubscriptionPackages(ctx, strings.TrimSpace(query), catalogLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("listar paquetes: %w", err)
	}
	return lo.Map(list, func(p *entity.SubscriptionPackage, _ int) dto.CatalogEntry {
		return dto.CatalogEntry{ID: p.ID, DisplayName: p.DisplayName(), UnitPrice: p.Price}
	}), nil
}

func catalogLimit(limit int) int {
	if limit <= 0 || limit > 100 {
		return defaultCatalogLimit
	}
	return limit
}

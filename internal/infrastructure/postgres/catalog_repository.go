package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/posadmin-api/internal/domain/entity"
	"github.com/jhoicas/posadmin-api/internal/domain/repository"
)

var _ repository.CatalogRepository = (*CatalogRepo)(nil)

// CatalogRepo lectura de business_owners, devices y subscription_packages.
type CatalogRepo struct {
	q Querier
}

// NewCatalogRepository construye el adaptador.
func NewCatalogRepository(q Querier) *CatalogRepo {
	return &CatalogRepo{q: q}
}

// SearchOwners busca por nombre, negocio o email (ILIKE).
func (r *CatalogRepo) SearchOwners(ctx context.Context, q string, limit int) ([]*entity.BusinessOwner, error) {
	query := `
		SELECT id, full_name, business_name, email, phone, address, created_at
		FROM business_owners
		WHERE full_name ILIKE $1 OR business_name ILIKE $1 OR email ILIKE $1
		ORDER BY business_name, full_name LIMIT $2`
	rows, err := r.q.Query(ctx, query, likePattern(q), limit)
	if err != nil {
		return nil, fmt.Errorf("search owners: %w", err)
	}
	defer rows.Close()
	var list []*entity.BusinessOwner
	for rows.Next() {
		var o entity.BusinessOwner
		if err := rows.Scan(&o.ID, &o.FullName, &o.BusinessName, &o.Email, &o.Phone, &o.Address, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan owner: %w", err)
		}
		list = append(list, &o)
	}
	return list, rows.Err()
}

// GetOwner obtiene un dueño por ID.
func (r *CatalogRepo) GetOwner(ctx context.Context, id string) (*entity.BusinessOwner, error) {
	query := `
		SELECT id, full_name, business_name, email, phone, address, created_at
		FROM business_owners WHERE id = $1`
	var o entity.BusinessOwner
	err := r.q.QueryRow(ctx, query, id).Scan(&o.ID, &o.FullName, &o.BusinessName, &o.Email, &o.Phone, &o.Address, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get owner: %w", err)
	}
	return &o, nil
}

// ListDevices dispositivos activos filtrados por marca o tipo.
func (r *CatalogRepo) ListDevices(ctx context.Context, q string, limit int) ([]*entity.Device, error) {
	query := `
		SELECT id, brand, type, price FROM devices
		WHERE active AND (brand ILIKE $1 OR type ILIKE $1)
		ORDER BY brand, type LIMIT $2`
	rows, err := r.q.Query(ctx, query, likePattern(q), limit)
	if err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}
	defer rows.Close()
	var list []*entity.Device
	for rows.Next() {
		var d entity.Device
		if err := rows.Scan(&d.ID, &d.Brand, &d.Type, &d.Price); err != nil {
			return nil, fmt.Errorf("scan device: %w", err)
		}
		list = append(list, &d)
	}
	return list, rows.Err()
}

// GetDevice obtiene un dispositivo por ID (activo o no, para facturas viejas).
func (r *CatalogRepo) GetDevice(ctx context.Context, id string) (*entity.Device, error) {
	var d entity.Device
	err := r.q.QueryRow(ctx, `SELECT id, brand, type, price FROM devices WHERE id = $1`, id).
		Scan(&d.ID, &d.Brand, &d.Type, &d.Price)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get device: %w", err)
	}
	return &d, nil
}

// ListSubscriptionPackages paquetes activos filtrados por nombre.
func (r *CatalogRepo) ListSubscriptionPackages(ctx context.Context, q string, limit int) ([]*entity.SubscriptionPackage, error) {
	query := `
		SELECT id, name, price, duration_months FROM subscription_packages
		WHERE active AND name ILIKE $1
		ORDER BY price, name LIMIT $2`
	rows, err := r.q.Query(ctx, query, likePattern(q), limit)
	if err != nil {
		return nil, fmt.Errorf("list subscription packages: %w", err)
	}
	defer rows.Close()
	var list []*entity.SubscriptionPackage
	for rows.Next() {
		var p entity.SubscriptionPackage
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.DurationMonths); err != nil {
			return nil, fmt.Errorf("scan subscription package: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// GetSubscriptionPackage obtiene un paquete por ID.
func (r *CatalogRepo) GetSubscriptionPackage(ctx context.Context, id string) (*entity.SubscriptionPackage, error) {
	var p entity.SubscriptionPackage
	err := r.q.QueryRow(ctx, `SELECT id, name, price, duration_months FROM subscription_packages WHERE id = $1`, id).
		Scan(&p.ID, &p.Name, &p.Price, &p.DurationMonths)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get subscription package: %w", err)
	}
	return &p, nil
}

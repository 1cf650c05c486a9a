package repository

import (
	"context"

	"github.com/jhoicas/posadmin-api/internal/domain/entity"
)

// CatalogRepository consulta de dueños de negocio, dispositivos y paquetes.
// Los Get* retornan (nil, nil) si el registro no existe.
type CatalogRepository interface {
	SearchOwners(ctx context.Context, query string, limit int) ([]*entity.BusinessOwner, error)
	GetOwner(ctx context.Context, id string) (*entity.BusinessOwner, error)
	ListDevices(ctx context.Context, query string, limit int) ([]*entity.Device, error)
	GetDevice(ctx context.Context, id string) (*entity.Device, error)
	ListSubscriptionPackages(ctx context.Context, query string, limit int) ([]*entity.SubscriptionPackage, error)
	GetSubscriptionPackage(ctx context.Context, id string) (*entity.SubscriptionPackage, error)
}

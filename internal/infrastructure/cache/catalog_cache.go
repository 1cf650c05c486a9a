// Package cache decora el catálogo con una caché en memoria (go-cache).
package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	goCache "github.com/patrickmn/go-cache"

	"github.com/jhoicas/posadmin-api/internal/domain/entity"
	"github.com/jhoicas/posadmin-api/internal/domain/repository"
)

// DefaultExpiration vida de una entrada si no se configura otra.
const DefaultExpiration = 5 * time.Minute

// DefaultCleanupInterval cada cuánto se purgan las entradas vencidas.
const DefaultCleanupInterval = 10 * time.Minute

const (
	prefixOwner    = "owner:"
	prefixDevice   = "device:"
	prefixPackage  = "package:"
	prefixDevices  = "devices:"
	prefixPackages = "packages:"
)

var _ repository.CatalogRepository = (*CachedCatalog)(nil)

// CachedCatalog cachea las lecturas por ID y los listados de dispositivos y paquetes.
// La búsqueda de dueños va siempre al repositorio. Los "no encontrado" no se cachean.
type CachedCatalog struct {
	next  repository.CatalogRepository
	cache *goCache.Cache
	ttl   time.Duration
}

// NewCachedCatalog envuelve next; ttl <= 0 usa DefaultExpiration.
func NewCachedCatalog(next repository.CatalogRepository, ttl time.Duration) *CachedCatalog {
	if ttl <= 0 {
		ttl = DefaultExpiration
	}
	return &CachedCatalog{
		next:  next,
		cache: goCache.New(ttl, DefaultCleanupInterval),
		ttl:   ttl,
	}
}

func (c *CachedCatalog) SearchOwners(ctx context.Context, query string, limit int) ([]*entity.BusinessOwner, error) {
	return c.next.SearchOwners(ctx, query, limit)
}

func (c *CachedCatalog) GetOwner(ctx context.Context, id string) (*entity.BusinessOwner, error) {
	return getOrLoad(c, prefixOwner+id, func() (*entity.BusinessOwner, error) { return c.next.GetOwner(ctx, id) })
}

func (c *CachedCatalog) GetDevice(ctx context.Context, id string) (*entity.Device, error) {
	return getOrLoad(c, prefixDevice+id, func() (*entity.Device, error) { return c.next.GetDevice(ctx, id) })
}

func (c *CachedCatalog) GetSubscriptionPackage(ctx context.Context, id string) (*entity.SubscriptionPackage, error) {
	return getOrLoad(c, prefixPackage+id, func() (*entity.SubscriptionPackage, error) {
		return c.next.GetSubscriptionPackage(ctx, id)
	})
}

func (c *CachedCatalog) ListDevices(ctx context.Context, query string, limit int) ([]*entity.Device, error) {
	key := listKey(prefixDevices, query, limit)
	if v, ok := c.cache.Get(key); ok {
		return v.([]*entity.Device), nil
	}
	list, err := c.next.ListDevices(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	c.cache.Set(key, list, c.ttl)
	return list, nil
}

func (c *CachedCatalog) ListSubscriptionPackages(ctx context.Context, query string, limit int) ([]*entity.SubscriptionPackage, error) {
	key := listKey(prefixPackages, query, limit)
	if v, ok := c.cache.Get(key); ok {
		return v.([]*entity.SubscriptionPackage), nil
	}
	list, err := c.next.ListSubscriptionPackages(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	c.cache.Set(key, list, c.ttl)
	return list, nil
}

// InvalidateDevices borra dispositivos cacheados (por ID y listados), p. ej. tras un cambio de precio.
func (c *CachedCatalog) InvalidateDevices() {
	c.deleteByPrefix(prefixDevice, prefixDevices)
}

// InvalidatePackages borra paquetes cacheados.
func (c *CachedCatalog) InvalidatePackages() {
	c.deleteByPrefix(prefixPackage, prefixPackages)
}

// Flush vacía la caché completa.
func (c *CachedCatalog) Flush() {
	c.cache.Flush()
}

func (c *CachedCatalog) deleteByPrefix(prefixes ...string) {
	for k := range c.cache.Items() {
		for _, p := range prefixes {
			if strings.HasPrefix(k, p) {
				c.cache.Delete(k)
				break
			}
		}
	}
}

func getOrLoad[T any](c *CachedCatalog, key string, load func() (*T, error)) (*T, error) {
	if v, ok := c.cache.Get(key); ok {
		return v.(*T), nil
	}
	v, err := load()
	if err != nil || v == nil {
		return v, err
	}
	c.cache.Set(key, v, c.ttl)
	return v, nil
}

func listKey(prefix, query string, limit int) string {
	return fmt.Sprintf("%s%s|%d", prefix, strings.ToLower(strings.TrimSpace(query)), limit)
}

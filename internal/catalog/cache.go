package catalog

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/n0l0g0/pos-frontend/internal/api"
	pkgerrors "github.com/n0l0g0/pos-frontend/pkg/errors"
)

// Lister is the slice of the remote API the cache reads from.
type Lister interface {
	ListProducts(ctx context.Context) ([]api.Product, error)
	ListUnits(ctx context.Context) ([]api.Unit, error)
}

// Cache holds the sellable catalog for one session. Fetched at session start
// and on demand; read-only from the register's perspective.
type Cache struct {
	mu          sync.RWMutex
	products    []api.Product
	units       []api.Unit
	refreshedAt time.Time
}

func NewCache() *Cache {
	return &Cache{}
}

// Refresh replaces the cached catalog. Units are refreshed alongside
// products; a units failure is not fatal since only the inventory form
// needs them.
func (c *Cache) Refresh(ctx context.Context, lister Lister) error {
	products, err := lister.ListProducts(ctx)
	if err != nil {
		return err
	}

	units, unitsErr := lister.ListUnits(ctx)

	c.mu.Lock()
	c.products = products
	if unitsErr == nil {
		c.units = units
	}
	c.refreshedAt = time.Now()
	c.mu.Unlock()
	return nil
}

func (c *Cache) Products() []api.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]api.Product, len(c.products))
	copy(out, c.products)
	return out
}

func (c *Cache) Units() []api.Unit {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]api.Unit, len(c.units))
	copy(out, c.units)
	return out
}

func (c *Cache) RefreshedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.refreshedAt
}

// Search filters by name substring (case-insensitive) or SKU substring,
// matching what the register's search box and barcode field do. An empty
// query returns the full catalog.
func (c *Cache) Search(query string) []api.Product {
	query = strings.TrimSpace(query)
	if query == "" {
		return c.Products()
	}
	lowered := strings.ToLower(query)

	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []api.Product
	for _, p := range c.products {
		if strings.Contains(strings.ToLower(p.Name), lowered) || strings.Contains(p.SKU, query) {
			out = append(out, p)
		}
	}
	return out
}

// FindByID looks a product up by identifier.
func (c *Cache) FindByID(id string) (*api.Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, p := range c.products {
		if p.ID == id {
			found := p
			return &found, nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not in catalog")
}

// FindBySKU resolves an exact SKU, the barcode-scan path.
func (c *Cache) FindBySKU(sku string) (*api.Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, p := range c.products {
		if p.SKU == sku {
			found := p
			return &found, nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no product with that SKU")
}

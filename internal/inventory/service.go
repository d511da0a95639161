package inventory

import (
	"context"
	"math/rand"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/n0l0g0/pos-frontend/internal/api"
	pkgerrors "github.com/n0l0g0/pos-frontend/pkg/errors"
	"github.com/n0l0g0/pos-frontend/pkg/validate"
)

// ProductAPI is the slice of the remote API the inventory screen writes
// through.
type ProductAPI interface {
	CreateProduct(ctx context.Context, input api.ProductInput) error
	UpdateProduct(ctx context.Context, id string, input api.ProductInput) error
	DeleteProduct(ctx context.Context, id string) error
}

// Form is the product editor's working state. An empty ID means create.
type Form struct {
	ID        string              `json:"_id"`
	Name      string              `json:"name" validate:"required"`
	SKU       string              `json:"sku"`
	Category  string              `json:"category" validate:"required"`
	Unit      string              `json:"unit" validate:"required"`
	Price     decimal.Decimal     `json:"price"`
	Stock     int                 `json:"stock" validate:"gte=0"`
	Breakdown []api.BreakdownPair `json:"breakdown,omitempty"`
}

type Service struct {
	api  ProductAPI
	now  func() time.Time
	intn func(int) int
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithRandom(intn func(int) int) Option {
	return func(s *Service) { s.intn = intn }
}

func NewService(productAPI ProductAPI, opts ...Option) *Service {
	if productAPI == nil {
		panic("inventory: productAPI is required")
	}
	s := &Service{
		api:  productAPI,
		now:  time.Now,
		intn: rand.Intn,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Save validates the form and either creates or updates the product. A blank
// SKU gets a generated one; the used SKU is returned so the form can show it.
func (s *Service) Save(ctx context.Context, form Form) (string, error) {
	if err := validate.Struct(form); err != nil {
		return "", err
	}
	if form.Price.IsNegative() {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}

	sku := form.SKU
	if sku == "" {
		sku = GenerateSKU(s.now(), s.intn)
	}

	input := api.ProductInput{
		Name:      form.Name,
		SKU:       sku,
		Category:  form.Category,
		Unit:      form.Unit,
		Price:     form.Price,
		Stock:     form.Stock,
		Breakdown: form.Breakdown,
	}

	if form.ID == "" {
		if err := s.api.CreateProduct(ctx, input); err != nil {
			return "", err
		}
		return sku, nil
	}
	if err := s.api.UpdateProduct(ctx, form.ID, input); err != nil {
		return "", err
	}
	return sku, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	return s.api.DeleteProduct(ctx, id)
}

// FormFromProduct seeds the editor from an existing catalog row.
func FormFromProduct(p api.Product) Form {
	return Form{
		ID:        p.ID,
		Name:      p.Name,
		SKU:       p.SKU,
		Category:  p.Category,
		Unit:      p.Unit,
		Price:     p.Price,
		Stock:     p.Stock,
		Breakdown: p.Breakdown,
	}
}

// LowStock filters products at or below the threshold, the restock list the
// inventory screen highlights.
func LowStock(products []api.Product, threshold int) []api.Product {
	var out []api.Product
	for _, p := range products {
		if p.Stock <= threshold {
			out = append(out, p)
		}
	}
	return out
}

// SortByPrice orders products by unit price, cheapest first unless desc is
// set. Ties keep their catalog order.
func SortByPrice(products []api.Product, desc bool) []api.Product {
	out := make([]api.Product, len(products))
	copy(out, products)
	sort.SliceStable(out, func(i, j int) bool {
		if desc {
			return out[i].Price.GreaterThan(out[j].Price)
		}
		return out[i].Price.LessThan(out[j].Price)
	})
	return out
}

package register

import (
	"github.com/n0l0g0/pos-frontend/internal/api"
	"github.com/shopspring/decimal"
)

// Line is one cart entry. Name, SKU and price are snapshotted when the
// product is first added: the price is locked to what was displayed.
type Line struct {
	ProductID string
	Name      string
	SKU       string
	Price     decimal.Decimal
	Qty       int
}

// Total is the line total, qty times the snapshotted unit price.
func (l Line) Total() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Qty)))
}

// Totals are derived values, recomputed on every read.
type Totals struct {
	Qty   int
	Price decimal.Decimal
}

// Cart is the ordered set of lines for one register session. Insertion order
// is display order. At most one line exists per product.
type Cart struct {
	lines []Line
}

func NewCart() *Cart {
	return &Cart{}
}

// AddItem increments the existing line for the product, or appends a new one
// with qty 1. Always succeeds.
func (c *Cart) AddItem(product api.Product) {
	if idx := c.find(product.ID); idx >= 0 {
		c.lines[idx].Qty++
		return
	}
	c.lines = append(c.lines, Line{
		ProductID: product.ID,
		Name:      product.Name,
		SKU:       product.SKU,
		Price:     product.Price,
		Qty:       1,
	})
}

// SetQty sets a line's quantity, clamped to a minimum of 1. Unknown products
// are ignored; removal is an explicit operation.
func (c *Cart) SetQty(productID string, qty int) {
	idx := c.find(productID)
	if idx < 0 {
		return
	}
	if qty < 1 {
		qty = 1
	}
	c.lines[idx].Qty = qty
}

// Decrement lowers a line's quantity by one, removing the line at zero.
func (c *Cart) Decrement(productID string) {
	idx := c.find(productID)
	if idx < 0 {
		return
	}
	if c.lines[idx].Qty <= 1 {
		c.lines = append(c.lines[:idx], c.lines[idx+1:]...)
		return
	}
	c.lines[idx].Qty--
}

// RemoveItem deletes the line regardless of quantity.
func (c *Cart) RemoveItem(productID string) {
	if idx := c.find(productID); idx >= 0 {
		c.lines = append(c.lines[:idx], c.lines[idx+1:]...)
	}
}

func (c *Cart) Clear() {
	c.lines = nil
}

func (c *Cart) Empty() bool {
	return len(c.lines) == 0
}

// Lines returns a copy of the cart in display order.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Totals sums quantity and price over all lines. Never cached, so it can
// never go stale after a mutation.
func (c *Cart) Totals() Totals {
	totals := Totals{Price: decimal.Zero}
	for _, line := range c.lines {
		totals.Qty += line.Qty
		totals.Price = totals.Price.Add(line.Total())
	}
	return totals
}

func (c *Cart) snapshot() []api.SaleLine {
	out := make([]api.SaleLine, 0, len(c.lines))
	for _, line := range c.lines {
		out = append(out, api.SaleLine{
			ProductID: line.ProductID,
			Name:      line.Name,
			SKU:       line.SKU,
			Price:     line.Price,
			Qty:       line.Qty,
		})
	}
	return out
}

func (c *Cart) find(productID string) int {
	for i, line := range c.lines {
		if line.ProductID == productID {
			return i
		}
	}
	return -1
}

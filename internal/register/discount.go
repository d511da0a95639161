package register

import (
	"fmt"

	"github.com/n0l0g0/pos-frontend/internal/api"
	pkgerrors "github.com/n0l0g0/pos-frontend/pkg/errors"
	"github.com/shopspring/decimal"
)

type DiscountKind string

const (
	KindPercentage DiscountKind = api.DiscountPercentage
	KindAbsolute   DiscountKind = api.DiscountAbsolute
)

var hundred = decimal.NewFromInt(100)

// Discount is scoped to one checkout and reset after each finalized sale.
type Discount struct {
	Value decimal.Decimal
	Kind  DiscountKind
}

// NoDiscount is the zero-value percentage discount.
func NoDiscount() Discount {
	return Discount{Value: decimal.Zero, Kind: KindPercentage}
}

// Validate rejects negative values and unknown kinds. There is no upper
// bound: a percentage over 100 or an absolute value over the subtotal both
// legally floor the net to zero.
func (d Discount) Validate() error {
	if d.Value.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "discount value must not be negative")
	}
	switch d.Kind {
	case KindPercentage, KindAbsolute:
		return nil
	default:
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown discount kind %q", d.Kind))
	}
}

// Apply computes the net total, floored at zero. Pure and deterministic:
// the displayed net and the submitted net must come through this one path.
func (d Discount) Apply(subtotal decimal.Decimal) decimal.Decimal {
	var net decimal.Decimal
	switch d.Kind {
	case KindAbsolute:
		net = subtotal.Sub(d.Value)
	default:
		net = subtotal.Mul(hundred.Sub(d.Value)).Div(hundred)
	}
	if net.IsNegative() {
		return decimal.Zero
	}
	return net
}

// Format renders the discount the way receipts show it: "10%" or "฿10".
func (d Discount) Format() string {
	if d.Kind == KindAbsolute {
		return "฿" + d.Value.String()
	}
	return d.Value.String() + "%"
}

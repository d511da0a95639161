package register

import (
	"testing"

	pkgerrors "github.com/n0l0g0/pos-frontend/pkg/errors"
	"github.com/shopspring/decimal"
)

func TestApplyPercentage(t *testing.T) {
	t.Parallel()

	subtotal := decimal.NewFromInt(40)

	zero := Discount{Value: decimal.Zero, Kind: KindPercentage}
	if got := zero.Apply(subtotal); !got.Equal(subtotal) {
		t.Fatalf("0%% should keep the subtotal, got %s", got)
	}

	ten := Discount{Value: decimal.NewFromInt(10), Kind: KindPercentage}
	if got := ten.Apply(subtotal); !got.Equal(decimal.NewFromInt(36)) {
		t.Fatalf("expected 36, got %s", got)
	}

	full := Discount{Value: decimal.NewFromInt(100), Kind: KindPercentage}
	if got := full.Apply(subtotal); !got.Equal(decimal.Zero) {
		t.Fatalf("100%% should floor to zero, got %s", got)
	}

	over := Discount{Value: decimal.NewFromInt(150), Kind: KindPercentage}
	if got := over.Apply(subtotal); !got.Equal(decimal.Zero) {
		t.Fatalf("over-100%% floors to zero, got %s", got)
	}
}

func TestApplyAbsolute(t *testing.T) {
	t.Parallel()

	subtotal := decimal.NewFromInt(100)

	five := Discount{Value: decimal.NewFromInt(5), Kind: KindAbsolute}
	if got := five.Apply(subtotal); !got.Equal(decimal.NewFromInt(95)) {
		t.Fatalf("expected 95, got %s", got)
	}

	exact := Discount{Value: decimal.NewFromInt(100), Kind: KindAbsolute}
	if got := exact.Apply(subtotal); !got.Equal(decimal.Zero) {
		t.Fatalf("expected zero, got %s", got)
	}

	over := Discount{Value: decimal.NewFromInt(150), Kind: KindAbsolute}
	if got := over.Apply(subtotal); !got.Equal(decimal.Zero) {
		t.Fatalf("excess absolute discount floors to zero, got %s", got)
	}
}

func TestApplyIsDeterministic(t *testing.T) {
	t.Parallel()

	d := Discount{Value: decimal.NewFromFloat(12.5), Kind: KindPercentage}
	subtotal := decimal.NewFromInt(200)

	first := d.Apply(subtotal)
	for i := 0; i < 5; i++ {
		if got := d.Apply(subtotal); !got.Equal(first) {
			t.Fatalf("apply is not deterministic: %s vs %s", got, first)
		}
	}
	if first.IsNegative() {
		t.Fatalf("net must never be negative")
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	neg := Discount{Value: decimal.NewFromInt(-1), Kind: KindPercentage}
	if err := neg.Validate(); pkgerrors.CodeOf(err) != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for negative value, got %v", err)
	}

	bogus := Discount{Value: decimal.NewFromInt(5), Kind: "coupon"}
	if err := bogus.Validate(); pkgerrors.CodeOf(err) != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for unknown kind, got %v", err)
	}

	// Values over 100% are legal: they floor, they are not errors.
	big := Discount{Value: decimal.NewFromInt(500), Kind: KindPercentage}
	if err := big.Validate(); err != nil {
		t.Fatalf("unexpected error for large value: %v", err)
	}
}

func TestFormat(t *testing.T) {
	t.Parallel()

	pct := Discount{Value: decimal.NewFromInt(10), Kind: KindPercentage}
	if got := pct.Format(); got != "10%" {
		t.Fatalf("unexpected percentage format %q", got)
	}
	abs := Discount{Value: decimal.NewFromInt(25), Kind: KindAbsolute}
	if got := abs.Format(); got != "฿25" {
		t.Fatalf("unexpected absolute format %q", got)
	}
}

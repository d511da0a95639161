package register

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/n0l0g0/pos-frontend/internal/api"
	pkgerrors "github.com/n0l0g0/pos-frontend/pkg/errors"
	"github.com/shopspring/decimal"
)

// State of one checkout attempt.
type State string

const (
	StateIdle       State = "idle"
	StateSubmitting State = "submitting"
	StateFinalized  State = "finalized"
)

// SaleRecorder is the slice of the remote API the coordinator submits to.
type SaleRecorder interface {
	CreateSale(ctx context.Context, sale api.Sale) error
}

// CashierSource supplies the display name stamped onto sales.
type CashierSource func() string

// Coordinator orchestrates receipt-ID generation, payload assembly, the
// single submission, and the transition into the finalized state. The state
// guard is authoritative: a second Checkout while one is submitting is
// rejected, not queued.
type Coordinator struct {
	mu       sync.Mutex
	state    State
	cart     *Cart
	discount Discount
	lastSale *api.Sale

	recorder SaleRecorder
	cashier  CashierSource
	now      func() time.Time
	intn     func(n int) int
}

// CoordinatorOption configures optional coordinator behavior.
type CoordinatorOption func(*Coordinator)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) CoordinatorOption {
	return func(c *Coordinator) {
		if now != nil {
			c.now = now
		}
	}
}

// WithRandom overrides the receipt-suffix source.
func WithRandom(intn func(n int) int) CoordinatorOption {
	return func(c *Coordinator) {
		if intn != nil {
			c.intn = intn
		}
	}
}

func NewCoordinator(cart *Cart, recorder SaleRecorder, cashier CashierSource, opts ...CoordinatorOption) (*Coordinator, error) {
	if cart == nil {
		return nil, fmt.Errorf("cart is required")
	}
	if recorder == nil {
		return nil, fmt.Errorf("sale recorder is required")
	}
	if cashier == nil {
		return nil, fmt.Errorf("cashier source is required")
	}

	coord := &Coordinator{
		state:    StateIdle,
		cart:     cart,
		discount: NoDiscount(),
		recorder: recorder,
		cashier:  cashier,
		now:      time.Now,
		intn:     rand.Intn,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(coord)
		}
	}
	return coord, nil
}

func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SetDiscount stores the discount for the next checkout. Only allowed while
// idle so a submission can never race a discount change.
func (c *Coordinator) SetDiscount(d Discount) error {
	if err := d.Validate(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateIdle {
		return pkgerrors.New(pkgerrors.CodeConflict, "cannot change discount while a checkout is in progress")
	}
	c.discount = d
	return nil
}

func (c *Coordinator) Discount() Discount {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.discount
}

// NetTotal is the displayed total: the cart subtotal through the discount
// engine. Checkout submits the output of this same call path.
func (c *Coordinator) NetTotal() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.discount.Apply(c.cart.Totals().Price)
}

// Checkout submits the current cart as one sale. On failure the cart and
// discount are preserved untouched so the cashier can retry manually; there
// is no automatic retry. On success the coordinator holds the finalized
// snapshot and the cart stays intact until Acknowledge.
func (c *Coordinator) Checkout(ctx context.Context, paymentMethod string) (*api.Sale, error) {
	c.mu.Lock()
	switch c.state {
	case StateSubmitting:
		c.mu.Unlock()
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "a checkout is already submitting")
	case StateFinalized:
		c.mu.Unlock()
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "previous sale is awaiting its receipt")
	}
	if c.cart.Empty() {
		c.mu.Unlock()
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	now := c.now().UTC()
	totals := c.cart.Totals()
	discount := c.discount
	sale := api.Sale{
		ReceiptID:       c.receiptID(now),
		Cart:            c.cart.snapshot(),
		Discount:        discount.Value,
		DiscountKind:    string(discount.Kind),
		TotalPrice:      totals.Price,
		DiscountedPrice: discount.Apply(totals.Price),
		PaymentMethod:   paymentMethod,
		Cashier:         c.cashier(),
		CreatedAt:       now,
	}
	c.state = StateSubmitting
	c.mu.Unlock()

	err := c.recorder.CreateSale(ctx, sale)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.state = StateIdle
		return nil, err
	}
	c.state = StateFinalized
	c.lastSale = &sale
	return &sale, nil
}

// LastSale returns the finalized snapshot held for receipt printing, or nil.
func (c *Coordinator) LastSale() *api.Sale {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lastSale == nil {
		return nil
	}
	copied := *c.lastSale
	return &copied
}

// Acknowledge completes the finalized sale after its receipt has been
// rendered: the cart is cleared, the discount reset, and the register is
// ready for the next sale. The last sale snapshot stays readable.
func (c *Coordinator) Acknowledge() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateFinalized {
		return pkgerrors.New(pkgerrors.CodeConflict, "no finalized sale to acknowledge")
	}
	c.cart.Clear()
	c.discount = NoDiscount()
	c.state = StateIdle
	return nil
}

// receiptID is best-effort unique: second-resolution timestamp plus a random
// 3-digit suffix. The server still owns real uniqueness.
func (c *Coordinator) receiptID(now time.Time) string {
	return fmt.Sprintf("RCPT-%s-%d", now.Format("20060102150405"), c.intn(1000))
}

package register

import (
	"context"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/n0l0g0/pos-frontend/internal/api"
	pkgerrors "github.com/n0l0g0/pos-frontend/pkg/errors"
	"github.com/shopspring/decimal"
)

type stubRecorder struct {
	mu       sync.Mutex
	sales    []api.Sale
	err      error
	entered  chan struct{}
	release  chan struct{}
}

func (s *stubRecorder) CreateSale(ctx context.Context, sale api.Sale) error {
	if s.entered != nil {
		close(s.entered)
	}
	if s.release != nil {
		<-s.release
	}
	if s.err != nil {
		return s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sales = append(s.sales, sale)
	return nil
}

func newTestCoordinator(t *testing.T, recorder *stubRecorder) (*Coordinator, *Cart) {
	t.Helper()

	cart := NewCart()
	coord, err := NewCoordinator(cart, recorder,
		func() string { return "Alice" },
		WithClock(func() time.Time { return time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC) }),
		WithRandom(func(n int) int { return 7 }),
	)
	if err != nil {
		t.Fatalf("new coordinator: %v", err)
	}
	return coord, cart
}

func TestCheckoutSuccessFinalizesWithoutClearingCart(t *testing.T) {
	t.Parallel()

	recorder := &stubRecorder{}
	coord, cart := newTestCoordinator(t, recorder)
	cart.AddItem(product("p1", "Cola", 20))
	cart.AddItem(product("p1", "Cola", 20))
	if err := coord.SetDiscount(Discount{Value: decimal.NewFromInt(10), Kind: KindPercentage}); err != nil {
		t.Fatalf("set discount: %v", err)
	}

	sale, err := coord.Checkout(context.Background(), "cash")
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	if coord.State() != StateFinalized {
		t.Fatalf("expected finalized state, got %s", coord.State())
	}
	if cart.Empty() {
		t.Fatal("cart must stay intact until the receipt is acknowledged")
	}
	if !sale.TotalPrice.Equal(decimal.NewFromInt(40)) {
		t.Fatalf("expected subtotal 40, got %s", sale.TotalPrice)
	}
	if !sale.DiscountedPrice.Equal(decimal.NewFromInt(36)) {
		t.Fatalf("expected net 36, got %s", sale.DiscountedPrice)
	}
	if sale.Cashier != "Alice" || sale.PaymentMethod != "cash" {
		t.Fatalf("unexpected sale header %+v", sale)
	}
	if len(recorder.sales) != 1 {
		t.Fatalf("expected one submission, got %d", len(recorder.sales))
	}
}

func TestCheckoutNetMatchesDisplayedNet(t *testing.T) {
	t.Parallel()

	recorder := &stubRecorder{}
	coord, cart := newTestCoordinator(t, recorder)
	cart.AddItem(product("p1", "Cola", 20))
	cart.SetQty("p1", 3)
	if err := coord.SetDiscount(Discount{Value: decimal.NewFromFloat(12.5), Kind: KindPercentage}); err != nil {
		t.Fatalf("set discount: %v", err)
	}

	displayed := coord.NetTotal()
	sale, err := coord.Checkout(context.Background(), "card/QR")
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if !sale.DiscountedPrice.Equal(displayed) {
		t.Fatalf("displayed net %s and submitted net %s diverged", displayed, sale.DiscountedPrice)
	}
}

func TestCheckoutFloorsExcessAbsoluteDiscount(t *testing.T) {
	t.Parallel()

	recorder := &stubRecorder{}
	coord, cart := newTestCoordinator(t, recorder)
	cart.AddItem(product("p1", "Thing", 100))
	if err := coord.SetDiscount(Discount{Value: decimal.NewFromInt(150), Kind: KindAbsolute}); err != nil {
		t.Fatalf("set discount: %v", err)
	}

	sale, err := coord.Checkout(context.Background(), "cash")
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if !sale.DiscountedPrice.Equal(decimal.Zero) {
		t.Fatalf("expected net 0, got %s", sale.DiscountedPrice)
	}
}

func TestCheckoutFailureRestoresIdleAndPreservesCart(t *testing.T) {
	t.Parallel()

	recorder := &stubRecorder{err: pkgerrors.New(pkgerrors.CodeSubmission, "status 500")}
	coord, cart := newTestCoordinator(t, recorder)
	cart.AddItem(product("p1", "Cola", 20))
	discount := Discount{Value: decimal.NewFromInt(5), Kind: KindAbsolute}
	if err := coord.SetDiscount(discount); err != nil {
		t.Fatalf("set discount: %v", err)
	}

	_, err := coord.Checkout(context.Background(), "cash")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeSubmission {
		t.Fatalf("unexpected error: %v", err)
	}

	if coord.State() != StateIdle {
		t.Fatalf("expected idle after failure, got %s", coord.State())
	}
	if cart.Empty() {
		t.Fatal("cart must be preserved on failure")
	}
	if !coord.Discount().Value.Equal(discount.Value) {
		t.Fatal("discount must be preserved on failure")
	}
	if coord.LastSale() != nil {
		t.Fatal("no finalized sale should be held after a failure")
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	t.Parallel()

	coord, _ := newTestCoordinator(t, &stubRecorder{})
	_, err := coord.Checkout(context.Background(), "cash")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDoubleSubmitRejected(t *testing.T) {
	t.Parallel()

	recorder := &stubRecorder{
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	coord, cart := newTestCoordinator(t, recorder)
	cart.AddItem(product("p1", "Cola", 20))

	done := make(chan error, 1)
	go func() {
		_, err := coord.Checkout(context.Background(), "cash")
		done <- err
	}()

	<-recorder.entered
	_, err := coord.Checkout(context.Background(), "cash")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("re-entrant checkout should conflict, got %v", err)
	}

	close(recorder.release)
	if err := <-done; err != nil {
		t.Fatalf("first checkout should succeed: %v", err)
	}
	if len(recorder.sales) != 1 {
		t.Fatalf("expected exactly one submission, got %d", len(recorder.sales))
	}
}

func TestAcknowledgeClearsCartAndResetsDiscount(t *testing.T) {
	t.Parallel()

	recorder := &stubRecorder{}
	coord, cart := newTestCoordinator(t, recorder)
	cart.AddItem(product("p1", "Cola", 20))
	if err := coord.SetDiscount(Discount{Value: decimal.NewFromInt(10), Kind: KindPercentage}); err != nil {
		t.Fatalf("set discount: %v", err)
	}

	if _, err := coord.Checkout(context.Background(), "cash"); err != nil {
		t.Fatalf("checkout: %v", err)
	}

	// A second checkout before the receipt is printed is a conflict.
	if _, err := coord.Checkout(context.Background(), "cash"); pkgerrors.CodeOf(err) != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict while finalized, got %v", err)
	}

	if err := coord.Acknowledge(); err != nil {
		t.Fatalf("acknowledge: %v", err)
	}
	if !cart.Empty() {
		t.Fatal("cart should clear on acknowledge")
	}
	if !coord.Discount().Value.Equal(decimal.Zero) {
		t.Fatal("discount should reset on acknowledge")
	}
	if coord.State() != StateIdle {
		t.Fatalf("expected idle, got %s", coord.State())
	}
	if coord.LastSale() == nil {
		t.Fatal("last sale stays readable for the summary view")
	}

	if err := coord.Acknowledge(); pkgerrors.CodeOf(err) != pkgerrors.CodeConflict {
		t.Fatalf("double acknowledge should conflict, got %v", err)
	}
}

func TestReceiptIDFormat(t *testing.T) {
	t.Parallel()

	recorder := &stubRecorder{}
	coord, cart := newTestCoordinator(t, recorder)
	cart.AddItem(product("p1", "Cola", 20))

	sale, err := coord.Checkout(context.Background(), "cash")
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	if sale.ReceiptID != "RCPT-20250101120000-7" {
		t.Fatalf("unexpected receipt id %q", sale.ReceiptID)
	}
	if !regexp.MustCompile(`^RCPT-\d{14}-\d{1,3}$`).MatchString(sale.ReceiptID) {
		t.Fatalf("receipt id does not match format: %q", sale.ReceiptID)
	}
}

func TestSetDiscountRejectedWhileNotIdle(t *testing.T) {
	t.Parallel()

	recorder := &stubRecorder{}
	coord, cart := newTestCoordinator(t, recorder)
	cart.AddItem(product("p1", "Cola", 20))
	if _, err := coord.Checkout(context.Background(), "cash"); err != nil {
		t.Fatalf("checkout: %v", err)
	}

	err := coord.SetDiscount(Discount{Value: decimal.NewFromInt(5), Kind: KindAbsolute})
	if pkgerrors.CodeOf(err) != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

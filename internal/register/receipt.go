package register

import (
	"fmt"
	"strings"
	"time"

	"github.com/n0l0g0/pos-frontend/internal/api"
	pkgerrors "github.com/n0l0g0/pos-frontend/pkg/errors"
	"github.com/shopspring/decimal"
)

const receiptRule = "--------------------------------"

// Renderer formats a finalized sale into a printable document. Pure
// formatting: printing failures never touch sale state.
type Renderer struct {
	loc *time.Location
}

func NewRenderer(loc *time.Location) *Renderer {
	if loc == nil {
		loc = time.UTC
	}
	return &Renderer{loc: loc}
}

// Render emits the receipt text for a finalized sale.
func (r *Renderer) Render(sale *api.Sale) (string, error) {
	if sale == nil {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "no sale to render")
	}

	discount := Discount{Value: sale.Discount, Kind: DiscountKind(sale.DiscountKind)}

	var b strings.Builder
	b.WriteString("          RECEIPT\n")
	fmt.Fprintf(&b, "Receipt: %s\n", sale.ReceiptID)
	fmt.Fprintf(&b, "Cashier: %s\n", sale.Cashier)
	fmt.Fprintf(&b, "Date:    %s\n", sale.CreatedAt.In(r.loc).Format("02/01/2006 15:04"))
	b.WriteString(receiptRule + "\n")
	for _, line := range sale.Cart {
		fmt.Fprintf(&b, "%s x%d ฿%s\n", line.Name, line.Qty, lineTotal(line))
	}
	b.WriteString(receiptRule + "\n")
	fmt.Fprintf(&b, "Subtotal: ฿%s\n", sale.TotalPrice.String())
	fmt.Fprintf(&b, "Discount: %s\n", discount.Format())
	fmt.Fprintf(&b, "Net:      ฿%s\n", sale.DiscountedPrice.String())
	fmt.Fprintf(&b, "Paid via: %s\n", sale.PaymentMethod)
	b.WriteString(receiptRule + "\n")
	b.WriteString("Thank you!\n")
	return b.String(), nil
}

func lineTotal(line api.SaleLine) string {
	return line.Price.Mul(decimal.NewFromInt(int64(line.Qty))).String()
}

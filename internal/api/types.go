package api

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// The POS API speaks bare JSON numbers for money fields.
	decimal.MarshalJSONWithoutQuotes = true
}

// Product is a sellable catalog item. Read-only to the register; writes go
// through the inventory endpoints.
type Product struct {
	ID        string          `json:"_id"`
	Name      string          `json:"name"`
	SKU       string          `json:"sku"`
	Category  string          `json:"category"`
	Unit      string          `json:"unit"`
	Price     decimal.Decimal `json:"price"`
	Stock     int             `json:"stock"`
	Breakdown []BreakdownPair `json:"breakdown,omitempty"`
}

// BreakdownPair maps a sub-unit label to its conversion quantity.
type BreakdownPair struct {
	Unit string `json:"unit"`
	Qty  int    `json:"qty"`
}

// ProductInput is the payload for creating or updating a product.
type ProductInput struct {
	Name      string          `json:"name"`
	SKU       string          `json:"sku"`
	Category  string          `json:"category"`
	Unit      string          `json:"unit"`
	Price     decimal.Decimal `json:"price"`
	Stock     int             `json:"stock"`
	Breakdown []BreakdownPair `json:"breakdown,omitempty"`
}

// Unit is a configurable unit-of-measure label.
type Unit struct {
	Name string `json:"name"`
}

type User struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// UserInput is the payload for creating or updating an employee account.
// Password rides only on create.
type UserInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
	Role     string `json:"role"`
}

// Credentials is the login response held for the session's lifetime.
type Credentials struct {
	Token string `json:"token"`
	Email string `json:"email"`
}

// SaleLine is one cart line snapshotted into a sale.
type SaleLine struct {
	ProductID string          `json:"_id"`
	Name      string          `json:"name"`
	SKU       string          `json:"sku"`
	Price     decimal.Decimal `json:"price"`
	Qty       int             `json:"qty"`
}

// DiscountKind values accepted on the sale payload.
const (
	DiscountPercentage = "percentage"
	DiscountAbsolute   = "absolute"
)

// Sale is the persisted record of one finalized checkout. Immutable once
// submitted; the client keeps only a local copy for receipt printing.
type Sale struct {
	ReceiptID       string          `json:"receiptId"`
	Cart            []SaleLine      `json:"cart"`
	Discount        decimal.Decimal `json:"discount"`
	DiscountKind    string          `json:"discountType"`
	TotalPrice      decimal.Decimal `json:"totalPrice"`
	DiscountedPrice decimal.Decimal `json:"discountedPrice"`
	PaymentMethod   string          `json:"paymentMethod"`
	Cashier         string          `json:"cashier"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// AuditEntry is one row of the server-side audit trail.
type AuditEntry struct {
	ID         string          `json:"_id"`
	Email      string          `json:"email"`
	Action     string          `json:"action"`
	DataBefore json.RawMessage `json:"dataBefore,omitempty"`
	DataAfter  json.RawMessage `json:"dataAfter,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
}

const (
	AuditActionCreate = "create"
	AuditActionUpdate = "update"
	AuditActionDelete = "delete"
)

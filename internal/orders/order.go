// Package orders defines the order document shape. Orders carry no behavior
// beyond construction and serialization; all mutation happens through store
// patches applied by the checkout and callback flows.
package orders

import (
	"time"

	"github.com/shopspring/decimal"
)

// Collection names in the document store.
const (
	Collection         = "order"
	CallbackCollection = "order_callbacks"
)

// Status values written by this process. The status set is open-ended: the
// callback flow stores whatever status the gateway reports, lower-cased,
// so values like "paid" or "failed" appear without being declared here.
const StatusPending = "pending"

// OrderItem is a snapshot of the product at order-creation time. The title,
// unit price and currency are copied — not referenced — so order history
// survives later catalog changes.
type OrderItem struct {
	ProductTitle string          `json:"product_title"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Quantity     int             `json:"quantity"`
	Currency     string          `json:"currency"`
}

// Subtotal is unit price times quantity.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order is the persisted order document.
//
// Invariants: TotalAmount equals the sum of item subtotals, and Currency
// equals every item's currency. Both hold by construction in New and are
// never re-derived afterwards.
type Order struct {
	CustomerName   string          `json:"customer_name"`
	CustomerEmail  string          `json:"customer_email,omitempty"`
	CustomerMobile string          `json:"customer_mobile,omitempty"`
	Items          []OrderItem     `json:"items"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	Currency       string          `json:"currency"`
	Status         string          `json:"status"`
	InvoiceID      string          `json:"invoice_id,omitempty"`
	InvoiceURL     string          `json:"invoice_url,omitempty"`
	PaymentID      string          `json:"payment_id,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// New builds a pending order for the given customer and items.
// The total is computed from the items; the currency is taken from them.
func New(customerName, customerEmail, customerMobile string, items []OrderItem) Order {
	total := decimal.Zero
	currency := ""
	for _, it := range items {
		total = total.Add(it.Subtotal())
		currency = it.Currency
	}

	return Order{
		CustomerName:   customerName,
		CustomerEmail:  customerEmail,
		CustomerMobile: customerMobile,
		Items:          items,
		TotalAmount:    total,
		Currency:       currency,
		Status:         StatusPending,
		CreatedAt:      time.Now().UTC(),
	}
}

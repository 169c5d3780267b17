// Package catalog holds the static product catalog.
//
// The shop sells exactly one product, so the "catalog" is a single read-only
// value constructed once at startup and passed explicitly to the components
// that need it. It is never mutated after that and is safe to share between
// concurrent requests.
package catalog

import "github.com/shopspring/decimal"

// Product describes the one item the shop sells. Prices use a decimal type
// because the shop currency (KWD) carries three fraction digits.
type Product struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Short       string          `json:"short"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Currency    string          `json:"currency"`
	InStock     bool            `json:"in_stock"`
	Images      []string        `json:"images"`
	Specs       []string        `json:"specs"`
}

// Default returns the product the shop currently sells.
func Default() Product {
	return Product{
		ID:    "kalrem-b6",
		Title: "Kalerm B6 Home Coffee Machine",
		Short: "Premium automatic coffee machine for home baristas",
		Description: "Make cafe-quality espresso, cappuccino, and latte at home with the Kalerm B6. " +
			"One-touch drinks, integrated grinder, and sleek compact design.",
		Price:    decimal.NewFromInt(299),
		Currency: "KWD",
		InStock:  true,
		Images: []string{
			"https://images.unsplash.com/photo-1517705008128-361805f42e86?q=80&w=1200&auto=format&fit=crop",
			"https://images.unsplash.com/photo-1498804103079-a6351b050096?q=80&w=1200&auto=format&fit=crop",
		},
		Specs: []string{
			"One-touch espresso, cappuccino, latte",
			"Integrated conical burr grinder",
			"Adjustable milk frother",
			"Compact, modern design",
		},
	}
}

// Package checkout ties the catalog, the document store and the payment
// gateway together into the single linear flow behind POST /api/checkout.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/brewline/storefront/internal/catalog"
	"github.com/brewline/storefront/internal/orders"
	"github.com/brewline/storefront/internal/payment/fatoorah"
	"github.com/brewline/storefront/internal/store"
)

// ErrOutOfStock rejects a checkout before anything is persisted.
var ErrOutOfStock = errors.New("checkout: product out of stock")

// InvoiceCreator is the slice of the gateway client the checkout flow needs.
type InvoiceCreator interface {
	CreateInvoice(ctx context.Context, inv fatoorah.Invoice) fatoorah.Result
}

// Request is a checkout submission. Only the customer name is required.
type Request struct {
	CustomerName   string
	CustomerEmail  string
	CustomerMobile string
}

// Result is what the client gets back. PaymentURL is empty whenever the
// gateway did not produce a hosted payment link; Message always explains
// the outcome.
type Result struct {
	OrderID    string
	PaymentURL string
	Message    string
}

// Service orchestrates checkout. The product is injected read-only at
// construction; each call is independent and may run concurrently with
// others.
type Service struct {
	product catalog.Product
	store   store.Store
	gateway InvoiceCreator
	tracer  trace.Tracer
}

// NewService wires the orchestrator.
func NewService(product catalog.Product, st store.Store, gateway InvoiceCreator) *Service {
	return &Service{
		product: product,
		store:   st,
		gateway: gateway,
		tracer:  otel.Tracer("checkout"),
	}
}

// Checkout builds a pending order, persists it, asks the gateway for a
// hosted payment link, and reports the outcome.
//
// Write asymmetry, on purpose: the initial order insert is authoritative —
// if it fails, checkout fails. Everything after it is advisory. A gateway
// failure becomes a message, never an error, and the invoice patch in the
// success branch is fire-and-forget: the in-memory result is authoritative
// for the response, the store update merely catches the record up.
func (s *Service) Checkout(ctx context.Context, req Request) (Result, error) {
	ctx, span := s.tracer.Start(ctx, "checkout")
	defer span.End()

	if !s.product.InStock {
		return Result{}, ErrOutOfStock
	}

	item := orders.OrderItem{
		ProductTitle: s.product.Title,
		UnitPrice:    s.product.Price,
		Quantity:     1,
		Currency:     s.product.Currency,
	}
	order := orders.New(req.CustomerName, req.CustomerEmail, req.CustomerMobile, []orders.OrderItem{item})

	orderID, err := s.store.Create(ctx, orders.Collection, order)
	if err != nil {
		span.RecordError(err)
		return Result{}, fmt.Errorf("checkout: persist order: %w", err)
	}
	span.SetAttributes(attribute.String("order_id", orderID))

	res := s.gateway.CreateInvoice(ctx, fatoorah.Invoice{
		OrderID:        orderID,
		Total:          order.TotalAmount,
		Currency:       order.Currency,
		ProductTitle:   s.product.Title,
		ProductPrice:   s.product.Price,
		CustomerName:   req.CustomerName,
		CustomerEmail:  req.CustomerEmail,
		CustomerMobile: req.CustomerMobile,
	})

	out := Result{OrderID: orderID}

	switch res.State {
	case fatoorah.StateSucceeded:
		// Patch by the order's own id — the id returned from Create is the
		// handle we already hold. Storing invoice_id here is what lets a
		// later callback find this order.
		_, err := s.store.UpdateOne(ctx, orders.Collection,
			store.Filter{store.IDField: orderID},
			store.Patch{"invoice_id": res.InvoiceID, "invoice_url": res.InvoiceURL},
		)
		if err != nil {
			slog.ErrorContext(ctx, "advisory invoice patch failed, responding anyway",
				"order_id", orderID, "invoice_id", res.InvoiceID, "error", err)
		}
		out.PaymentURL = res.InvoiceURL
		out.Message = "Proceed to payment"

	case fatoorah.StateNotConfigured:
		slog.WarnContext(ctx, "payment gateway not configured", "order_id", orderID)
		out.Message = "Payment gateway not configured. Contact support."

	case fatoorah.StateFailed:
		slog.ErrorContext(ctx, "invoice creation failed",
			"order_id", orderID, "reason", res.Reason, "details", string(res.RawDetails))
		out.Message = "Payment creation failed: " + res.Reason
	}

	return out, nil
}

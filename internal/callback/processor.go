// Package callback processes asynchronous payment-status pushes from the
// gateway. Payloads arrive with no schema guarantee, so fields are extracted
// optionally from a key/value map and applied as a partial patch — missing
// fields are handled by omission, never by rejection.
package callback

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/brewline/storefront/internal/orders"
	"github.com/brewline/storefront/internal/store"
)

// Receipt is the acknowledgement returned to the gateway. OK is false only
// for unexpected internal faults; business oddities (unknown invoice,
// missing fields) still acknowledge with OK true so the gateway does not
// retry delivery forever.
type Receipt struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// Processor patches orders from callback payloads and keeps the audit trail.
type Processor struct {
	store  store.Store
	tracer trace.Tracer
}

// NewProcessor wires the callback processor.
func NewProcessor(st store.Store) *Processor {
	return &Processor{store: st, tracer: otel.Tracer("callback")}
}

// Process extracts InvoiceId, PaymentId and a status from the payload,
// patches the order matching the invoice id, and appends the raw payload to
// the audit collection. The audit write happens regardless of whether a
// matching order was found or a patch was applied. The replay of an
// identical payload patches the order to the same state again and appends
// another audit record: the log is append-only, not deduplicated.
func (p *Processor) Process(ctx context.Context, payload map[string]any) (rec Receipt) {
	ctx, span := p.tracer.Start(ctx, "payment_callback")
	defer span.End()

	// The gateway must always receive a structured acknowledgement.
	defer func() {
		if r := recover(); r != nil {
			rec = Receipt{OK: false, Error: fmt.Sprint(r)}
		}
	}()

	invoiceID := stringify(payload["InvoiceId"])
	paymentID := payload["PaymentId"]
	status := stringify(payload["TransactionStatus"])
	if status == "" {
		status = stringify(payload["InvoiceStatus"])
	}

	patch := store.Patch{}
	if invoiceID != "" {
		patch["invoice_id"] = invoiceID
	}
	if stringify(paymentID) != "" {
		patch["payment_id"] = paymentID
	}
	if status != "" {
		patch["status"] = strings.ToLower(status)
	}

	var patchErr error
	if len(patch) > 0 && invoiceID != "" {
		// Never create an order from a callback: an unmatched invoice id
		// leaves the store untouched and is not an error.
		matched, err := p.store.UpdateOne(ctx, orders.Collection,
			store.Filter{"invoice_id": invoiceID}, patch)
		if err != nil {
			patchErr = err
		} else if !matched {
			slog.InfoContext(ctx, "callback for unknown invoice", "invoice_id", invoiceID)
		}
	}

	audit := map[string]any{
		"payload":     payload,
		"received_at": time.Now().UTC().Format(time.RFC3339),
	}
	if _, err := p.store.Create(ctx, orders.CallbackCollection, audit); err != nil {
		span.RecordError(err)
		return Receipt{OK: false, Error: fmt.Sprintf("store callback audit: %v", err)}
	}

	if patchErr != nil {
		span.RecordError(patchErr)
		return Receipt{OK: false, Error: fmt.Sprintf("patch order: %v", patchErr)}
	}
	return Receipt{OK: true}
}

// stringify renders an optional payload field as a string. JSON numbers
// decode as float64, and gateway invoice ids are integral, so floats are
// formatted without an exponent or trailing zeros.
func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}

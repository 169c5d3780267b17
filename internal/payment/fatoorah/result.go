package fatoorah

import "encoding/json"

// State tags the outcome of an invoice-creation attempt. A Result is a
// tagged variant rather than an error so the checkout flow is forced to
// handle every branch explicitly instead of catching broad error types.
type State int

const (
	// StateNotConfigured: required credentials are absent; no network call
	// was attempted.
	StateNotConfigured State = iota

	// StateSucceeded: the gateway accepted the request and issued an
	// invoice.
	StateSucceeded

	// StateFailed: the gateway rejected the request, reported non-success,
	// or the call failed in transit.
	StateFailed
)

// Result is the normalized outcome of CreateInvoice.
type Result struct {
	State State

	// Set when State is StateSucceeded.
	InvoiceID  string
	InvoiceURL string

	// Set when State is StateNotConfigured or StateFailed.
	Reason string

	// RawDetails is the gateway response body on failure, kept for logs.
	RawDetails json.RawMessage
}

// NotConfigured builds the credentials-absent result.
func NotConfigured(reason string) Result {
	return Result{State: StateNotConfigured, Reason: reason}
}

// Succeeded builds the accepted result.
func Succeeded(invoiceID, invoiceURL string) Result {
	return Result{State: StateSucceeded, InvoiceID: invoiceID, InvoiceURL: invoiceURL}
}

// Failed builds the rejected result. details may be nil.
func Failed(reason string, details []byte) Result {
	return Result{State: StateFailed, Reason: reason, RawDetails: details}
}

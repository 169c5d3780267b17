package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/brewline/storefront/internal/callback"
	"github.com/brewline/storefront/internal/catalog"
	"github.com/brewline/storefront/internal/checkout"
	"github.com/brewline/storefront/internal/store"
)

// CheckoutService is the slice of the checkout orchestrator the HTTP layer
// depends on.
type CheckoutService interface {
	Checkout(ctx context.Context, req checkout.Request) (checkout.Result, error)
}

// CallbackProcessor is the slice of the callback processor the HTTP layer
// depends on.
type CallbackProcessor interface {
	Process(ctx context.Context, payload map[string]any) callback.Receipt
}

// EnvPresence reports which store-related env vars were set at startup,
// surfaced on the diagnostic endpoint. Presence is checked, not validated.
type EnvPresence struct {
	DatabaseURL  bool
	DatabaseName bool
}

// Handler handles the storefront's HTTP surface.
type Handler struct {
	product   catalog.Product
	checkout  CheckoutService
	callbacks CallbackProcessor
	store     store.Store
	env       EnvPresence
	validate  *validator.Validate
}

// NewHandler wires the handler with its collaborators.
func NewHandler(product catalog.Product, cs CheckoutService, cp CallbackProcessor, st store.Store, env EnvPresence) *Handler {
	return &Handler{
		product:   product,
		checkout:  cs,
		callbacks: cp,
		store:     st,
		env:       env,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Root is a plain liveness greeting.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Coffee Shop Backend is running"})
}

// GetProduct returns the static product document.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.product)
}

// Checkout accepts a checkout submission and responds with the order id,
// the payment link when one was issued, and a human-readable message.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	res, err := h.checkout.Checkout(r.Context(), checkout.Request{
		CustomerName:   req.CustomerName,
		CustomerEmail:  req.CustomerEmail,
		CustomerMobile: req.CustomerMobile,
	})
	if errors.Is(err, checkout.ErrOutOfStock) {
		writeError(w, http.StatusBadRequest, "out_of_stock", "Product out of stock")
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "checkout failed", "error", err)
		writeError(w, http.StatusInternalServerError, "checkout_failed", "Failed to create order")
		return
	}

	writeJSON(w, http.StatusOK, CheckoutResponse{
		OrderID:    res.OrderID,
		PaymentURL: res.PaymentURL,
		Message:    res.Message,
	})
}

// PaymentCallback receives gateway-pushed status updates. Whatever happens
// inside processing, the gateway gets a 200 with a structured receipt — a
// transport-level error would only make it retry delivery endlessly.
func (h *Handler) PaymentCallback(w http.ResponseWriter, r *http.Request) {
	var payload map[string]any
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, h.callbacks.Process(r.Context(), payload))
}

// TestStore reports store connectivity for operators.
func (h *Handler) TestStore(w http.ResponseWriter, r *http.Request) {
	diag := StoreDiagnostics{
		Backend:          "running",
		Database:         "not available",
		ConnectionStatus: "Not Connected",
		DatabaseURL:      presence(h.env.DatabaseURL),
		DatabaseName:     presence(h.env.DatabaseName),
	}

	if err := h.store.Ping(r.Context()); err != nil {
		diag.Database = "error: " + err.Error()
		writeJSON(w, http.StatusOK, diag)
		return
	}

	diag.Database = "connected"
	diag.ConnectionStatus = "Connected"
	if names, err := h.store.Collections(r.Context()); err == nil {
		if len(names) > 10 {
			names = names[:10]
		}
		diag.Collections = names
	}

	writeJSON(w, http.StatusOK, diag)
}

func presence(set bool) string {
	if set {
		return "set"
	}
	return "not set"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, ErrorResponse{
		Error:   code,
		Message: msg,
	})
}

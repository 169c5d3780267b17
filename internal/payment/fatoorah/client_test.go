package fatoorah

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testInvoice() Invoice {
	return Invoice{
		OrderID:      "order-123",
		Total:        decimal.RequireFromString("299"),
		Currency:     "KWD",
		ProductTitle: "Kalerm B6 Home Coffee Machine",
		ProductPrice: decimal.RequireFromString("299"),
		CustomerName: "Sara",
	}
}

func TestCreateInvoiceNotConfigured(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	c := NewClient(Config{Token: "", BaseURL: srv.URL})
	res := c.CreateInvoice(context.Background(), testInvoice())

	assert.Equal(t, StateNotConfigured, res.State)
	assert.NotEmpty(t, res.Reason)
	assert.Zero(t, calls, "no network call may be attempted without credentials")
}

func TestCreateInvoiceSucceeded(t *testing.T) {
	var got sendPaymentRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/SendPayment", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"IsSuccess":true,"Message":"Invoice Created Successfully!","Data":{"InvoiceId":915423,"InvoiceURL":"https://pay.example/915423"}}`))
	}))
	defer srv.Close()

	c := NewClient(Config{
		Token:       "test-token",
		BaseURL:     srv.URL,
		CallbackURL: "https://shop.example/api/payment/callback",
	})
	res := c.CreateInvoice(context.Background(), testInvoice())

	require.Equal(t, StateSucceeded, res.State)
	assert.Equal(t, "915423", res.InvoiceID)
	assert.Equal(t, "https://pay.example/915423", res.InvoiceURL)

	// Request construction rules.
	assert.Equal(t, "Sara", got.CustomerName)
	assert.Equal(t, "LNK", got.NotificationOption)
	assert.Equal(t, 299.0, got.InvoiceValue)
	assert.Equal(t, "KWD", got.DisplayCurrencyIso)
	assert.Equal(t, "", got.CustomerEmail, "absent email travels as empty string")
	assert.Equal(t, "", got.CustomerMobile, "absent mobile travels as empty string")
	assert.Equal(t, "https://shop.example/api/payment/callback", got.CallBackUrl)
	assert.Equal(t, got.CallBackUrl, got.ErrorUrl, "error URL defaults to the callback URL")
	assert.Equal(t, "en", got.Language)
	assert.Equal(t, "order-123", got.CustomerReference)
	require.Len(t, got.InvoiceItems, 1)
	assert.Equal(t, "Kalerm B6 Home Coffee Machine", got.InvoiceItems[0].ItemName)
	assert.Equal(t, 1, got.InvoiceItems[0].Quantity)
	assert.Equal(t, 299.0, got.InvoiceItems[0].UnitPrice)
}

func TestCreateInvoiceRoundsToThreeDecimals(t *testing.T) {
	var got sendPaymentRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"IsSuccess":true,"Data":{"InvoiceId":1,"InvoiceURL":"u"}}`))
	}))
	defer srv.Close()

	inv := testInvoice()
	inv.Total = decimal.RequireFromString("299.12345")
	inv.ProductPrice = decimal.RequireFromString("299.9996")

	c := NewClient(Config{Token: "t", BaseURL: srv.URL})
	res := c.CreateInvoice(context.Background(), inv)

	require.Equal(t, StateSucceeded, res.State)
	assert.Equal(t, 299.123, got.InvoiceValue)
	assert.Equal(t, 300.0, got.InvoiceItems[0].UnitPrice)
}

func TestCreateInvoiceFailed(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantReason string
	}{
		{
			name:       "gateway reports non-success",
			status:     http.StatusOK,
			body:       `{"IsSuccess":false,"Message":"Invalid currency"}`,
			wantReason: "Invalid currency",
		},
		{
			name:       "non-200 with message",
			status:     http.StatusUnauthorized,
			body:       `{"IsSuccess":false,"Message":"Token expired"}`,
			wantReason: "Token expired",
		},
		{
			name:       "non-200 without message",
			status:     http.StatusInternalServerError,
			body:       `{}`,
			wantReason: "gateway returned status 500",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewClient(Config{Token: "t", BaseURL: srv.URL})
			res := c.CreateInvoice(context.Background(), testInvoice())

			assert.Equal(t, StateFailed, res.State)
			assert.Equal(t, tt.wantReason, res.Reason)
		})
	}
}

func TestCreateInvoiceMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>not json</html>`))
	}))
	defer srv.Close()

	c := NewClient(Config{Token: "t", BaseURL: srv.URL})
	res := c.CreateInvoice(context.Background(), testInvoice())

	assert.Equal(t, StateFailed, res.State)
	assert.NotEmpty(t, res.Reason)
}

func TestCreateInvoiceTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // unreachable on purpose

	c := NewClient(Config{Token: "t", BaseURL: srv.URL})
	res := c.CreateInvoice(context.Background(), testInvoice())

	assert.Equal(t, StateFailed, res.State)
	assert.NotEmpty(t, res.Reason)
}

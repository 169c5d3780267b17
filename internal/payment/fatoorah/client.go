// Package fatoorah is a client for the MyFatoorah SendPayment API. It turns
// an order into a hosted payment link request and normalizes every possible
// outcome — missing credentials, transport errors, gateway rejections,
// malformed bodies — into a Result the caller can switch on exhaustively.
// No call on this client ever panics or propagates a gateway fault.
package fatoorah

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
)

// DefaultBaseURL is the MyFatoorah sandbox endpoint.
const DefaultBaseURL = "https://apitest.myfatoorah.com"

// DefaultTimeout bounds the outbound SendPayment call. There is no retry:
// a timed-out call is reported once as a failure and never re-attempted.
const DefaultTimeout = 20 * time.Second

// Config carries the gateway credentials and URLs, sourced from the
// environment at startup.
type Config struct {
	// Token is the bearer token. An empty token means the gateway is not
	// configured: CreateInvoice short-circuits without a network call.
	Token string

	// BaseURL of the gateway API. Defaults to the sandbox.
	BaseURL string

	// CallbackURL receives asynchronous payment-status pushes.
	CallbackURL string

	// ErrorURL receives failed-payment redirects. Defaults to CallbackURL.
	ErrorURL string

	// Timeout for the outbound call. Defaults to DefaultTimeout.
	Timeout time.Duration
}

// Invoice is the input for CreateInvoice: the persisted order's identity
// and the snapshot values to bill.
type Invoice struct {
	OrderID        string
	Total          decimal.Decimal
	Currency       string
	ProductTitle   string
	ProductPrice   decimal.Decimal
	CustomerName   string
	CustomerEmail  string // optional, sent as "" when absent
	CustomerMobile string // optional, sent as "" when absent
}

// Client calls the gateway over HTTP.
type Client struct {
	cfg  Config
	http *resty.Client
}

// NewClient applies the config defaults and builds the HTTP client.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.ErrorURL == "" {
		cfg.ErrorURL = cfg.CallbackURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json").
		SetAuthToken(cfg.Token)

	return &Client{cfg: cfg, http: httpClient}
}

// sendPaymentRequest mirrors the MyFatoorah SendPayment payload. The
// gateway requires every field present, so optional customer fields are
// sent as empty strings rather than omitted.
type sendPaymentRequest struct {
	CustomerName       string            `json:"CustomerName"`
	NotificationOption string            `json:"NotificationOption"`
	InvoiceValue       float64           `json:"InvoiceValue"`
	DisplayCurrencyIso string            `json:"DisplayCurrencyIso"`
	CustomerEmail      string            `json:"CustomerEmail"`
	CustomerMobile     string            `json:"CustomerMobile"`
	CallBackUrl        string            `json:"CallBackUrl"`
	ErrorUrl           string            `json:"ErrorUrl"`
	Language           string            `json:"Language"`
	CustomerReference  string            `json:"CustomerReference"`
	InvoiceItems       []sendPaymentItem `json:"InvoiceItems"`
}

type sendPaymentItem struct {
	ItemName  string  `json:"ItemName"`
	Quantity  int     `json:"Quantity"`
	UnitPrice float64 `json:"UnitPrice"`
}

type sendPaymentResponse struct {
	IsSuccess bool   `json:"IsSuccess"`
	Message   string `json:"Message"`
	Data      struct {
		InvoiceID  json.Number `json:"InvoiceId"`
		InvoiceURL string      `json:"InvoiceURL"`
	} `json:"Data"`
}

// CreateInvoice requests a hosted payment link for the given invoice.
//
// The order id travels as CustomerReference so callbacks can be reconciled
// later. Monetary values are rounded to 3 decimal places, the precision of
// the shop currency.
func (c *Client) CreateInvoice(ctx context.Context, inv Invoice) Result {
	if c.cfg.Token == "" {
		return NotConfigured("payment gateway token not configured")
	}

	payload := sendPaymentRequest{
		CustomerName:       inv.CustomerName,
		NotificationOption: "LNK",
		InvoiceValue:       inv.Total.Round(3).InexactFloat64(),
		DisplayCurrencyIso: inv.Currency,
		CustomerEmail:      inv.CustomerEmail,
		CustomerMobile:     inv.CustomerMobile,
		CallBackUrl:        c.cfg.CallbackURL,
		ErrorUrl:           c.cfg.ErrorURL,
		Language:           "en",
		CustomerReference:  inv.OrderID,
		InvoiceItems: []sendPaymentItem{
			{
				ItemName:  inv.ProductTitle,
				Quantity:  1,
				UnitPrice: inv.ProductPrice.Round(3).InexactFloat64(),
			},
		},
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(payload).
		Post("/v2/SendPayment")
	if err != nil {
		return Failed(fmt.Sprintf("gateway request error: %v", err), nil)
	}

	// Decode the body ourselves so a malformed response degrades to a
	// Failed result instead of surfacing as a fault.
	var out sendPaymentResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return Failed(fmt.Sprintf("malformed gateway response: %v", err), resp.Body())
	}

	if resp.StatusCode() == 200 && out.IsSuccess {
		return Succeeded(out.Data.InvoiceID.String(), out.Data.InvoiceURL)
	}

	reason := out.Message
	if reason == "" {
		reason = fmt.Sprintf("gateway returned status %d", resp.StatusCode())
	}
	return Failed(reason, resp.Body())
}

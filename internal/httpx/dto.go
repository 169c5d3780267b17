package httpx

// CheckoutRequest is the POST /api/checkout body. Only the customer name is
// required; the email, when present, must look like an email.
type CheckoutRequest struct {
	CustomerName   string `json:"customer_name" validate:"required"`
	CustomerEmail  string `json:"customer_email" validate:"omitempty,email"`
	CustomerMobile string `json:"customer_mobile"`
}

// CheckoutResponse is returned for every accepted checkout, whether or not
// the gateway produced a payment link.
type CheckoutResponse struct {
	OrderID    string `json:"order_id"`
	PaymentURL string `json:"payment_url,omitempty"`
	Message    string `json:"message"`
}

// StoreDiagnostics is the GET /test body. Operability only, not part of the
// business contract.
type StoreDiagnostics struct {
	Backend          string   `json:"backend"`
	Database         string   `json:"database"`
	ConnectionStatus string   `json:"connection_status"`
	DatabaseURL      string   `json:"database_url"`
	DatabaseName     string   `json:"database_name"`
	Collections      []string `json:"collections"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

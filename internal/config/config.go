// Package config loads the process configuration from the environment.
// A .env file is honored when present, which keeps local development in
// line with how the deployed process is configured.
package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config is everything cmd/server needs to wire the process.
type Config struct {
	// Port the HTTP server listens on.
	Port string

	// GatewayToken is the MyFatoorah bearer token. Empty means the gateway
	// is not configured and checkout degrades to a support message.
	GatewayToken string

	// GatewayBaseURL of the payment API.
	GatewayBaseURL string

	// CallbackURL the gateway pushes payment-status updates to.
	CallbackURL string

	// ErrorURL the gateway redirects failed payments to. Empty means the
	// callback URL is used.
	ErrorURL string

	// DatabasePath is the SQLite file backing the document store.
	DatabasePath string

	// Presence flags for the diagnostic endpoint. Checked, not validated.
	DatabaseURLSet  bool
	DatabaseNameSet bool
}

// Load reads the environment, applying defaults. A missing .env file is
// not an error.
func Load() Config {
	_ = godotenv.Load()

	callbackURL := getEnv("PAYMENT_CALLBACK_URL", "http://localhost:8000/api/payment/callback")

	_, dbURLSet := os.LookupEnv("DATABASE_URL")
	_, dbNameSet := os.LookupEnv("DATABASE_NAME")

	return Config{
		Port:            getEnv("PORT", "8000"),
		GatewayToken:    os.Getenv("MYFATOORAH_TOKEN"),
		GatewayBaseURL:  getEnv("MYFATOORAH_BASE_URL", "https://apitest.myfatoorah.com"),
		CallbackURL:     callbackURL,
		ErrorURL:        getEnv("PAYMENT_ERROR_URL", callbackURL),
		DatabasePath:    getEnv("DATABASE_URL", "./data/storefront.db"),
		DatabaseURLSet:  dbURLSet,
		DatabaseNameSet: dbNameSet,
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

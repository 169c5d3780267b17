package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter mounts the storefront routes. CORS is wide open: the static
// storefront page is served from a different origin.
func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	r.Get("/", handler.Root)
	r.Get("/test", handler.TestStore)

	r.Route("/api", func(r chi.Router) {
		r.Get("/product", handler.GetProduct)
		r.Post("/checkout", handler.Checkout)
		r.Post("/payment/callback", handler.PaymentCallback)
	})

	return r
}

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/brewline/storefront/internal/callback"
	"github.com/brewline/storefront/internal/catalog"
	"github.com/brewline/storefront/internal/checkout"
	"github.com/brewline/storefront/internal/config"
	"github.com/brewline/storefront/internal/httpx"
	"github.com/brewline/storefront/internal/payment/fatoorah"
	"github.com/brewline/storefront/internal/pkg/telemetry"
	"github.com/brewline/storefront/internal/store/sqlite"
)

func main() {
	cfg := config.Load()
	telemetry.InitLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := telemetry.SetupTracer(ctx, "storefront")
	if err != nil {
		// The shop keeps serving without traces.
		slog.Warn("tracing disabled", "error", err)
		shutdownTracer = func(context.Context) error { return nil }
	}

	if dir := filepath.Dir(cfg.DatabasePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			slog.Error("create data directory", "dir", dir, "error", err)
			os.Exit(1)
		}
	}

	st, err := sqlite.Open(cfg.DatabasePath)
	if err != nil {
		slog.Error("open document store", "path", cfg.DatabasePath, "error", err)
		os.Exit(1)
	}
	defer st.Close()

	product := catalog.Default()
	gateway := fatoorah.NewClient(fatoorah.Config{
		Token:       cfg.GatewayToken,
		BaseURL:     cfg.GatewayBaseURL,
		CallbackURL: cfg.CallbackURL,
		ErrorURL:    cfg.ErrorURL,
	})

	handler := httpx.NewHandler(
		product,
		checkout.NewService(product, st, gateway),
		callback.NewProcessor(st),
		st,
		httpx.EnvPresence{
			DatabaseURL:  cfg.DatabaseURLSet,
			DatabaseName: cfg.DatabaseNameSet,
		},
	)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: httpx.NewRouter(handler),
		// The checkout path may block on the gateway for up to 20s, so the
		// write timeout has to sit above that.
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("storefront listening", "port", cfg.Port, "gateway_configured", cfg.GatewayToken != "")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http shutdown", "error", err)
	}
	if err := shutdownTracer(shutdownCtx); err != nil {
		slog.Error("tracer shutdown", "error", err)
	}
}

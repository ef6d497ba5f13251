// Package main boots the scan-to-cart HTTP server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fairyhunter13/scan-to-cart-service/internal/catalog"
	"github.com/fairyhunter13/scan-to-cart-service/internal/config"
	httpapi "github.com/fairyhunter13/scan-to-cart-service/internal/http"
	"github.com/fairyhunter13/scan-to-cart-service/internal/obs"
	"github.com/fairyhunter13/scan-to-cart-service/internal/relay"
)

func main() {
	cfg := config.Load()
	obs.InitLogger()
	obs.Logger.Info("service_starting")

	var (
		cat catalog.Lookup
		err error
	)
	switch cfg.CatalogDriver {
	case "postgres":
		cat, err = catalog.OpenPostgres(cfg.PostgresDSN)
	default:
		cat, err = catalog.NewMemoryFromSeed()
	}
	if err != nil {
		obs.Logger.Error("catalog_init_failed", "driver", cfg.CatalogDriver, "error", err)
		os.Exit(1)
	}
	obs.Logger.Info("catalog_ready", "driver", cfg.CatalogDriver)

	rl := relay.New()
	app := httpapi.NewApp(cfg, cat, rl)
	mux := httpapi.NewRouter(app)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		obs.Logger.Info("http_listen", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			obs.Logger.Error("http_server_error", "error", err)
			os.Exit(1)
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	s := <-sigc
	obs.Logger.Info("shutdown_signal", "signal", s.String())

	ctxSrv, cancelSrv := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancelSrv()
	if err := srv.Shutdown(ctxSrv); err != nil {
		obs.Logger.Error("http_shutdown_error", "error", err)
	}
	rl.Close()
	obs.Logger.Info("service_stopped")
}

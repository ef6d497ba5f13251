package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/fairyhunter13/scan-to-cart-service/internal/catalog"
	"github.com/fairyhunter13/scan-to-cart-service/internal/config"
	httpopenapi "github.com/fairyhunter13/scan-to-cart-service/internal/http/openapi"
	"github.com/fairyhunter13/scan-to-cart-service/internal/model"
	"github.com/fairyhunter13/scan-to-cart-service/internal/obs"
	"github.com/fairyhunter13/scan-to-cart-service/internal/relay"
)

type App struct {
	Cfg     config.Config
	Catalog catalog.Lookup
	Relay   *relay.Relay
	stats   scanStats
	started time.Time
}

func NewApp(cfg config.Config, cat catalog.Lookup, rl *relay.Relay) *App {
	return &App{Cfg: cfg, Catalog: cat, Relay: rl, started: time.Now()}
}

// scanHandler is the scan submission endpoint. Each submission yields
// exactly one outbound channel event, or none when rejected locally.
func (a *App) scanHandler(w http.ResponseWriter, r *http.Request) {
	barcode := strings.TrimSpace(mux.Vars(r)["barcode"])
	reqID := RequestIDFromContext(r.Context())
	if barcode == "" {
		WriteJSONError(w, http.StatusBadRequest, "Barcode parameter is required.", "")
		return
	}
	a.stats.scans.Add(1)
	// Fail fast when no cart client is attached: there is no event queue,
	// so a lookup result would have nowhere to go.
	if !a.Relay.Live() {
		a.stats.rejected.Add(1)
		obs.Logger.Warn("scan_rejected_no_client", "barcode", barcode, "request_id", reqID)
		WriteJSONError(w, http.StatusServiceUnavailable,
			"Real-time service unavailable (cart client not connected).", "")
		return
	}

	p, err := a.Catalog.Lookup(r.Context(), barcode)
	switch {
	case err == nil:
		a.stats.found.Add(1)
		a.Relay.EmitFound(p)
		obs.Logger.Info("scan_found", "barcode", barcode, "name", p.Name, "request_id", reqID)
		writeJSON(w, http.StatusOK, model.ScanAck{
			Message: "Product found and sent to cart.",
			Product: &p,
		})
	case errors.Is(err, catalog.ErrNotFound):
		a.stats.notFound.Add(1)
		a.Relay.EmitNotFound(barcode)
		obs.Logger.Info("scan_not_found", "barcode", barcode, "request_id", reqID)
		writeJSON(w, http.StatusNotFound, model.ScanAck{
			Message: "Product not found for the given barcode.",
			Barcode: barcode,
		})
	default:
		a.stats.failed.Add(1)
		// Liveness is re-checked inside emit; a client lost since the
		// submission simply means the error event is dropped.
		a.Relay.EmitError(barcode, "Internal server error during product lookup.")
		obs.Logger.Error("scan_lookup_failed", "barcode", barcode, "error", err, "request_id", reqID)
		WriteJSONError(w, http.StatusInternalServerError,
			"Internal server error processing the request.", "")
	}
}

// wsHandler binds the requesting client as the relay endpoint.
func (a *App) wsHandler(w http.ResponseWriter, r *http.Request) {
	if err := a.Relay.Attach(w, r); err != nil {
		obs.Logger.Warn("ws_attach_failed", "error", err)
	}
}

func (a *App) listProductsHandler(w http.ResponseWriter, r *http.Request) {
	ps, err := a.Catalog.List(r.Context())
	if err != nil {
		obs.Logger.Error("catalog_list_failed", "error", err)
		WriteJSONError(w, http.StatusInternalServerError, "Internal server error listing products.", "")
		return
	}
	writeJSON(w, http.StatusOK, ps)
}

func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *App) metricsHandler(w http.ResponseWriter, r *http.Request) {
	emitted, dropped := a.Relay.Metrics()
	m := map[string]any{
		"scans_total":     a.stats.scans.Load(),
		"scans_found":     a.stats.found.Load(),
		"scans_not_found": a.stats.notFound.Load(),
		"scan_errors":     a.stats.failed.Load(),
		"scans_rejected":  a.stats.rejected.Load(),
		"events_emitted":  emitted,
		"events_dropped":  dropped,
		"relay_bound":     a.Relay.Live(),
		"uptime_sec":      time.Since(a.started).Seconds(),
	}
	writeJSON(w, http.StatusOK, m)
}

func (a *App) openapiHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(httpopenapi.YAML)
}

func (a *App) docsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	html := `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>API Docs</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui'
      });
    </script>
  </body>
</html>`
	_, _ = w.Write([]byte(html))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

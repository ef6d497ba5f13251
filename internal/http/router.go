package httpapi

import (
	"expvar"
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter registers HTTP routes and returns the handler with middleware.
func NewRouter(app *App) http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/api/products", app.listProductsHandler).Methods(http.MethodGet)
	r.HandleFunc("/api/{barcode}", app.scanHandler).Methods(http.MethodPost)
	r.HandleFunc("/ws", app.wsHandler).Methods(http.MethodGet)
	r.HandleFunc("/healthz", app.healthHandler).Methods(http.MethodGet)
	r.HandleFunc("/debug/metrics", app.metricsHandler).Methods(http.MethodGet)
	r.Handle("/debug/vars", expvar.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/openapi.yaml", app.openapiHandler).Methods(http.MethodGet)
	r.HandleFunc("/docs", app.docsHandler).Methods(http.MethodGet)
	return WithRequestID(WithLogging(r))
}

// Package relay pushes scan outcome events to the single attached cart client.
package relay

import (
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"

	"github.com/fairyhunter13/scan-to-cart-service/internal/model"
	"github.com/fairyhunter13/scan-to-cart-service/internal/obs"
)

// Relay holds at most one live websocket endpoint. Binding is
// last-writer-wins: attaching a new client silently replaces (and closes)
// the previous one. There is no queueing or replay; an emit with no live
// endpoint is dropped and counted. Only one concurrently attached cart
// client is supported.
type Relay struct {
	mu sync.Mutex
	ep *endpoint

	upgrader websocket.Upgrader

	emitted atomic.Uint64
	dropped atomic.Uint64
}

type endpoint struct {
	conn *websocket.Conn
	wmu  sync.Mutex
	dead atomic.Bool
}

// New returns an empty relay.
func New() *Relay {
	return &Relay{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Attach upgrades the request and binds the resulting connection as the
// current endpoint.
func (r *Relay) Attach(w http.ResponseWriter, req *http.Request) error {
	conn, err := r.upgrader.Upgrade(w, req, nil)
	if err != nil {
		return err
	}
	r.Bind(conn)
	return nil
}

// Bind installs conn as the current endpoint, closing any previous one.
func (r *Relay) Bind(conn *websocket.Conn) {
	ep := &endpoint{conn: conn}
	r.mu.Lock()
	prev := r.ep
	r.ep = ep
	r.mu.Unlock()
	if prev != nil {
		prev.dead.Store(true)
		_ = prev.conn.Close()
		obs.Logger.Info("relay_endpoint_replaced")
	}
	obs.Logger.Info("relay_bound", "remote", conn.RemoteAddr().String())
	go r.readLoop(ep)
}

// readLoop discards inbound frames and unbinds the endpoint once the peer
// goes away. The channel is push-only; reading is how we learn about closes.
func (r *Relay) readLoop(ep *endpoint) {
	for {
		if _, _, err := ep.conn.ReadMessage(); err != nil {
			r.unbind(ep)
			return
		}
	}
}

func (r *Relay) unbind(ep *endpoint) {
	if ep.dead.Swap(true) {
		return
	}
	_ = ep.conn.Close()
	r.mu.Lock()
	if r.ep == ep {
		r.ep = nil
		obs.Logger.Info("relay_unbound")
	}
	r.mu.Unlock()
}

// Live reports whether a bound endpoint is currently usable.
func (r *Relay) Live() bool {
	r.mu.Lock()
	ep := r.ep
	r.mu.Unlock()
	return ep != nil && !ep.dead.Load()
}

// EmitFound pushes a product_added event carrying the full record.
func (r *Relay) EmitFound(p model.Product) bool {
	return r.emit(model.Envelope{Event: model.EventProductAdded, Product: &p})
}

// EmitNotFound pushes a product_not_found event for the given barcode.
func (r *Relay) EmitNotFound(barcode string) bool {
	return r.emit(model.Envelope{Event: model.EventProductNotFound, Barcode: barcode})
}

// EmitError pushes a scan_error event for the given barcode.
func (r *Relay) EmitError(barcode, message string) bool {
	return r.emit(model.Envelope{Event: model.EventScanError, Barcode: barcode, Message: message})
}

// emit writes one envelope to the current endpoint. Fire-and-forget: a
// missing or failed endpoint means the event is lost.
func (r *Relay) emit(env model.Envelope) bool {
	r.mu.Lock()
	ep := r.ep
	r.mu.Unlock()
	if ep == nil || ep.dead.Load() {
		r.dropped.Add(1)
		obs.Logger.Warn("relay_emit_dropped", "event", env.Event, "barcode", env.Barcode)
		return false
	}
	ep.wmu.Lock()
	err := ep.conn.WriteJSON(env)
	ep.wmu.Unlock()
	if err != nil {
		r.unbind(ep)
		r.dropped.Add(1)
		obs.Logger.Warn("relay_emit_failed", "event", env.Event, "error", err)
		return false
	}
	r.emitted.Add(1)
	return true
}

// Metrics returns emit counters for observability.
func (r *Relay) Metrics() (emitted, dropped uint64) {
	return r.emitted.Load(), r.dropped.Load()
}

// Close tears down the current endpoint, if any.
func (r *Relay) Close() {
	r.mu.Lock()
	ep := r.ep
	r.ep = nil
	r.mu.Unlock()
	if ep != nil {
		ep.dead.Store(true)
		_ = ep.conn.Close()
	}
}

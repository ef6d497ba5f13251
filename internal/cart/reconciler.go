// Package cart maintains the client-side cart state reconciled from the
// scan event stream.
package cart

import (
	"fmt"
	"time"

	"github.com/fairyhunter13/scan-to-cart-service/internal/model"
	"github.com/fairyhunter13/scan-to-cart-service/internal/obs"
)

// Status message lifetimes, matching what the cart page shows.
const (
	statusTTLConnected = 3 * time.Second
	statusTTLMutation  = 2500 * time.Millisecond
	statusTTLNotFound  = 4 * time.Second
	statusTTLError     = 5 * time.Second
	statusTTLUserEdit  = 1500 * time.Millisecond
)

// LineItem is one cart entry: a product identity with its aggregated
// quantity. At most one line item exists per identity.
type LineItem struct {
	Product  model.Product
	Quantity int
	LastScan time.Time
}

// Snapshot is a read-only copy of the cart state for rendering.
type Snapshot struct {
	Items     []LineItem
	Total     float64
	Connected bool
	Status    string
}

type statusMsg struct {
	text      string
	expiresAt time.Time // zero means sticky
}

// Reconciler folds found/not-found/error events and user actions into a
// consistent cart. It is not safe for concurrent use; Loop serializes
// access to it.
type Reconciler struct {
	window    time.Duration
	now       func() time.Time
	items     map[string]*LineItem
	order     []string // identities, newest first
	connected bool
	status    statusMsg
}

// New returns an empty reconciler using the given debounce window.
func New(window time.Duration) *Reconciler {
	return &Reconciler{
		window: window,
		now:    time.Now,
		items:  make(map[string]*LineItem),
	}
}

// ApplyFound handles a product_added event. It creates a line item for a
// new identity, or increments quantity when the debounce window since the
// last accepted scan has elapsed. Returns true when the cart changed.
func (r *Reconciler) ApplyFound(p model.Product) bool {
	id := p.Identity()
	if id == "" {
		return false
	}
	now := r.now()
	it, ok := r.items[id]
	if !ok {
		r.items[id] = &LineItem{Product: p, Quantity: 1, LastScan: now}
		r.order = append([]string{id}, r.order...)
		r.setStatus(fmt.Sprintf("Added: %s", p.Name), statusTTLMutation)
		return true
	}
	if !shouldAccept(now, it.LastScan, r.window) {
		obs.Logger.Info("scan_debounced", "identity", id, "since_ms", now.Sub(it.LastScan).Milliseconds())
		return false
	}
	it.Quantity++
	it.LastScan = now
	r.setStatus(fmt.Sprintf("%s quantity updated to %d", it.Product.Name, it.Quantity), statusTTLMutation)
	return true
}

// ApplyNotFound handles a product_not_found event. Informational only.
func (r *Reconciler) ApplyNotFound(barcode string) {
	r.setStatus(fmt.Sprintf("Scanned item (%s) not found in catalog.", barcode), statusTTLNotFound)
}

// ApplyError handles a scan_error event. Informational only.
func (r *Reconciler) ApplyError(barcode, message string) {
	r.setStatus(fmt.Sprintf("Error scanning item (%s): %s", barcode, message), statusTTLError)
}

// Decrease lowers a line item's quantity by one. At quantity 1 it is a
// no-op; the last-scan timestamp is never refreshed here.
func (r *Reconciler) Decrease(identity string) bool {
	it, ok := r.items[identity]
	if !ok || it.Quantity <= 1 {
		return false
	}
	it.Quantity--
	r.setStatus(fmt.Sprintf("%s quantity decreased to %d", it.Product.Name, it.Quantity), statusTTLUserEdit)
	return true
}

// Remove deletes a line item. A later found event for the same identity
// starts over at quantity 1.
func (r *Reconciler) Remove(identity string) bool {
	if _, ok := r.items[identity]; !ok {
		return false
	}
	delete(r.items, identity)
	for i, id := range r.order {
		if id == identity {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	r.setStatus("Item removed.", statusTTLUserEdit)
	return true
}

// SetConnected records channel liveness with a transient status message.
// A zero ttl makes the message sticky.
func (r *Reconciler) SetConnected(connected bool, text string, ttl time.Duration) {
	r.connected = connected
	if text != "" {
		r.setStatus(text, ttl)
	}
}

// Total recomputes the cart total from scratch on every call, so no
// incremental drift can accumulate.
func (r *Reconciler) Total() float64 {
	var sum float64
	for _, it := range r.items {
		sum += it.Product.Price * float64(it.Quantity)
	}
	return sum
}

// Items returns the line items newest-first.
func (r *Reconciler) Items() []LineItem {
	out := make([]LineItem, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.items[id])
	}
	return out
}

// Status returns the current status message, or "" once it has expired.
func (r *Reconciler) Status() string {
	if r.status.text == "" {
		return ""
	}
	if !r.status.expiresAt.IsZero() && !r.now().Before(r.status.expiresAt) {
		return ""
	}
	return r.status.text
}

// Snapshot copies the observable state.
func (r *Reconciler) Snapshot() Snapshot {
	return Snapshot{
		Items:     r.Items(),
		Total:     r.Total(),
		Connected: r.connected,
		Status:    r.Status(),
	}
}

func (r *Reconciler) setStatus(text string, ttl time.Duration) {
	s := statusMsg{text: text}
	if ttl > 0 {
		s.expiresAt = r.now().Add(ttl)
	}
	r.status = s
}

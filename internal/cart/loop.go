package cart

import (
	"context"
	"sync"
	"time"

	"github.com/fairyhunter13/scan-to-cart-service/internal/model"
	"github.com/fairyhunter13/scan-to-cart-service/internal/obs"
)

type msgKind int

const (
	msgEvent msgKind = iota
	msgDecrease
	msgRemove
	msgSession
)

type message struct {
	kind      msgKind
	env       model.Envelope
	identity  string
	connected bool
	text      string
	ttl       time.Duration
}

// Loop owns a Reconciler and serializes channel events and user actions
// through a single inbox, so no two cart mutations ever interleave. After
// teardown no further message reaches the reconciler.
type Loop struct {
	mu      sync.Mutex
	rec     *Reconciler
	inbox   chan message
	done    chan struct{}
	changed chan struct{}
}

// NewLoop wraps the reconciler in a serialized event loop.
func NewLoop(rec *Reconciler) *Loop {
	return &Loop{
		rec:     rec,
		inbox:   make(chan message, 64),
		done:    make(chan struct{}),
		changed: make(chan struct{}, 1),
	}
}

// Run processes the inbox until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) {
	defer close(l.done)
	for {
		select {
		case <-ctx.Done():
			return
		case m := <-l.inbox:
			l.mu.Lock()
			l.apply(m)
			l.mu.Unlock()
			l.notify()
		}
	}
}

func (l *Loop) apply(m message) {
	switch m.kind {
	case msgEvent:
		switch m.env.Event {
		case model.EventProductAdded:
			if m.env.Product != nil {
				l.rec.ApplyFound(*m.env.Product)
			}
		case model.EventProductNotFound:
			l.rec.ApplyNotFound(m.env.Barcode)
		case model.EventScanError:
			l.rec.ApplyError(m.env.Barcode, m.env.Message)
		default:
			obs.Logger.Warn("cart_unknown_event", "event", m.env.Event)
		}
	case msgDecrease:
		l.rec.Decrease(m.identity)
	case msgRemove:
		l.rec.Remove(m.identity)
	case msgSession:
		l.rec.SetConnected(m.connected, m.text, m.ttl)
	}
}

// Deliver hands an inbound channel event to the loop. Events delivered to
// a torn-down loop are dropped.
func (l *Loop) Deliver(env model.Envelope) {
	l.send(message{kind: msgEvent, env: env})
}

// Decrease asks for a user-initiated quantity decrease.
func (l *Loop) Decrease(identity string) {
	l.send(message{kind: msgDecrease, identity: identity})
}

// Remove asks for a user-initiated line item removal.
func (l *Loop) Remove(identity string) {
	l.send(message{kind: msgRemove, identity: identity})
}

// SetSession forwards a channel lifecycle transition.
func (l *Loop) SetSession(connected bool, text string, ttl time.Duration) {
	l.send(message{kind: msgSession, connected: connected, text: text, ttl: ttl})
}

func (l *Loop) send(m message) {
	select {
	case <-l.done:
	case l.inbox <- m:
	}
}

func (l *Loop) notify() {
	select {
	case l.changed <- struct{}{}:
	default:
	}
}

// Changed signals after each processed message; the renderer coalesces.
func (l *Loop) Changed() <-chan struct{} { return l.changed }

// Snapshot returns a copy of the current cart state.
func (l *Loop) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rec.Snapshot()
}

package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fairyhunter13/scan-to-cart-service/internal/cart"
	"github.com/fairyhunter13/scan-to-cart-service/internal/model"
	"github.com/fairyhunter13/scan-to-cart-service/internal/relay"
)

func startRelayServer(t *testing.T) (*relay.Relay, string) {
	t.Helper()
	rl := relay.New()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = rl.Attach(w, r)
	}))
	t.Cleanup(srv.Close)
	return rl, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func startLoop(t *testing.T) *cart.Loop {
	t.Helper()
	loop := cart.NewLoop(cart.New(0))
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go loop.Run(ctx)
	return loop
}

func waitFor(t *testing.T, loop *cart.Loop, ok func(cart.Snapshot) bool) cart.Snapshot {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		s := loop.Snapshot()
		if ok(s) {
			return s
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("condition never reached; last snapshot: %+v", loop.Snapshot())
	return cart.Snapshot{}
}

func TestSupervisorDeliversEvents(t *testing.T) {
	rl, url := startRelayServer(t)
	loop := startLoop(t)
	sup := New(url, loop, 3, 50*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sup.Run(ctx)
	defer sup.Close()

	waitFor(t, loop, func(s cart.Snapshot) bool { return s.Connected })
	rl.EmitFound(model.Product{Barcode: "b-1", Name: "Apples", Price: 2.99})
	s := waitFor(t, loop, func(s cart.Snapshot) bool { return len(s.Items) == 1 })
	if s.Items[0].Product.Name != "Apples" || s.Total != 2.99 {
		t.Fatalf("unexpected snapshot: %+v", s)
	}
}

func TestSupervisorReconnectsAfterLoss(t *testing.T) {
	rl, url := startRelayServer(t)
	loop := startLoop(t)
	sup := New(url, loop, 5, 50*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sup.Run(ctx)
	defer sup.Close()

	waitFor(t, loop, func(s cart.Snapshot) bool { return s.Connected })
	rl.Close() // server drops the endpoint
	waitFor(t, loop, func(s cart.Snapshot) bool { return !s.Connected })
	// The supervisor redials and the relay binds the new endpoint.
	waitFor(t, loop, func(s cart.Snapshot) bool { return s.Connected })
	rl.EmitNotFound("404404")
	waitFor(t, loop, func(s cart.Snapshot) bool {
		return strings.Contains(s.Status, "404404")
	})
}

func TestSupervisorGivesUpAfterAttemptBudget(t *testing.T) {
	loop := startLoop(t)
	sup := New("ws://127.0.0.1:1/ws", loop, 2, 10*time.Millisecond)
	done := make(chan struct{})
	go func() {
		sup.Run(context.Background())
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatalf("supervisor kept retrying past its budget")
	}
	s := loop.Snapshot()
	if s.Connected {
		t.Fatalf("expected disconnected state")
	}
	if s.Status == "" {
		t.Fatalf("expected a sticky failure status")
	}
}

func TestCloseStopsDeliveries(t *testing.T) {
	rl, url := startRelayServer(t)
	loop := startLoop(t)
	sup := New(url, loop, 3, 50*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sup.Run(ctx)

	waitFor(t, loop, func(s cart.Snapshot) bool { return s.Connected })
	sup.Close()
	// The relay notices the peer going away and stops emitting.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) && rl.Live() {
		time.Sleep(10 * time.Millisecond)
	}
	if rl.Live() {
		t.Fatalf("relay still live after client close")
	}
	if ok := rl.EmitFound(model.Product{Barcode: "late", Name: "Late", Price: 1}); ok {
		t.Fatalf("emit after close must drop")
	}
	time.Sleep(50 * time.Millisecond)
	if s := loop.Snapshot(); len(s.Items) != 0 {
		t.Fatalf("event delivered after teardown: %+v", s.Items)
	}
}

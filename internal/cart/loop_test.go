package cart

import (
	"context"
	"testing"
	"time"

	"github.com/fairyhunter13/scan-to-cart-service/internal/model"
)

func waitSnapshot(t *testing.T, l *Loop, ok func(Snapshot) bool) Snapshot {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		s := l.Snapshot()
		if ok(s) {
			return s
		}
		select {
		case <-l.Changed():
		case <-time.After(10 * time.Millisecond):
		}
	}
	t.Fatalf("condition never reached; last snapshot: %+v", l.Snapshot())
	return Snapshot{}
}

func TestLoopAppliesEventsInOrder(t *testing.T) {
	l := NewLoop(New(0)) // zero window: every found event increments
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go l.Run(ctx)

	p := model.Product{Barcode: "b-1", Name: "Bread", Price: 2.49}
	for i := 0; i < 3; i++ {
		l.Deliver(model.Envelope{Event: model.EventProductAdded, Product: &p})
	}
	s := waitSnapshot(t, l, func(s Snapshot) bool {
		return len(s.Items) == 1 && s.Items[0].Quantity == 3
	})
	if s.Total != 3*2.49 {
		t.Fatalf("total = %v", s.Total)
	}
}

func TestLoopUserActions(t *testing.T) {
	l := NewLoop(New(0))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go l.Run(ctx)

	p := model.Product{Barcode: "b-2", Name: "Milk", Price: 3.49}
	l.Deliver(model.Envelope{Event: model.EventProductAdded, Product: &p})
	l.Deliver(model.Envelope{Event: model.EventProductAdded, Product: &p})
	l.Decrease("b-2")
	waitSnapshot(t, l, func(s Snapshot) bool {
		return len(s.Items) == 1 && s.Items[0].Quantity == 1
	})
	l.Remove("b-2")
	waitSnapshot(t, l, func(s Snapshot) bool { return len(s.Items) == 0 })
}

func TestLoopSessionTransitions(t *testing.T) {
	l := NewLoop(New(0))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go l.Run(ctx)

	l.SetSession(true, "Connected to scanner service.", 3*time.Second)
	s := waitSnapshot(t, l, func(s Snapshot) bool { return s.Connected })
	if s.Status != "Connected to scanner service." {
		t.Fatalf("status = %q", s.Status)
	}
	l.SetSession(false, "Scanner service disconnected.", 0)
	waitSnapshot(t, l, func(s Snapshot) bool { return !s.Connected })
}

func TestTornDownLoopDropsEvents(t *testing.T) {
	l := NewLoop(New(0))
	ctx, cancel := context.WithCancel(context.Background())
	go l.Run(ctx)
	cancel()
	select {
	case <-l.done:
	case <-time.After(2 * time.Second):
		t.Fatalf("loop did not stop")
	}

	p := model.Product{Barcode: "b-3", Name: "Ghost", Price: 1}
	l.Deliver(model.Envelope{Event: model.EventProductAdded, Product: &p})
	time.Sleep(50 * time.Millisecond)
	if s := l.Snapshot(); len(s.Items) != 0 {
		t.Fatalf("torn-down loop mutated the cart: %+v", s.Items)
	}
}

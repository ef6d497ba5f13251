// Package client connects the cart to the server's relay channel and keeps
// the connection alive.
package client

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/fairyhunter13/scan-to-cart-service/internal/cart"
	"github.com/fairyhunter13/scan-to-cart-service/internal/model"
	"github.com/fairyhunter13/scan-to-cart-service/internal/obs"
)

const statusTTLConnected = 3 * time.Second

// Supervisor dials the relay websocket, feeds inbound events to the cart
// loop, and retries a bounded number of times on involuntary loss. Once the
// attempt budget is exhausted it stays down; restarting the client is the
// only way back.
type Supervisor struct {
	url      string
	loop     *cart.Loop
	attempts int
	delay    time.Duration
	dialer   *websocket.Dialer

	mu     sync.Mutex
	conn   *websocket.Conn
	closed bool
}

// New builds a supervisor for the given ws:// URL.
func New(url string, loop *cart.Loop, attempts int, delay time.Duration) *Supervisor {
	if attempts < 1 {
		attempts = 1
	}
	return &Supervisor{
		url:      url,
		loop:     loop,
		attempts: attempts,
		delay:    delay,
		dialer:   websocket.DefaultDialer,
	}
}

// Run maintains the channel until ctx is cancelled, Close is called, or the
// retry budget runs out. Each lifecycle transition is surfaced to the loop
// as a transient status.
func (s *Supervisor) Run(ctx context.Context) {
	attempt := 0
	for {
		if ctx.Err() != nil || s.isClosed() {
			return
		}
		conn, _, err := s.dialer.DialContext(ctx, s.url, nil)
		if err != nil {
			attempt++
			obs.Logger.Warn("channel_connect_error", "attempt", attempt, "error", err)
			s.loop.SetSession(false, "Error connecting to scanner service.", 0)
			if attempt >= s.attempts {
				s.loop.SetSession(false, "Scanner service unreachable.", 0)
				return
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(s.delay):
			}
			continue
		}
		attempt = 0
		s.setConn(conn)
		obs.Logger.Info("channel_connected", "url", s.url)
		s.loop.SetSession(true, "Connected to scanner service.", statusTTLConnected)

		s.readUntilGone(ctx, conn)
		s.setConn(nil)
		if ctx.Err() != nil || s.isClosed() {
			return
		}
		obs.Logger.Warn("channel_disconnected")
		s.loop.SetSession(false, "Scanner service disconnected.", 0)
		attempt++
		select {
		case <-ctx.Done():
			return
		case <-time.After(s.delay):
		}
	}
}

// readUntilGone decodes envelopes into the loop until the connection dies.
func (s *Supervisor) readUntilGone(ctx context.Context, conn *websocket.Conn) {
	stop := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-stop:
		}
	}()
	defer close(stop)
	for {
		var env model.Envelope
		if err := conn.ReadJSON(&env); err != nil {
			_ = conn.Close()
			return
		}
		s.loop.Deliver(env)
	}
}

func (s *Supervisor) setConn(conn *websocket.Conn) {
	s.mu.Lock()
	s.conn = conn
	s.mu.Unlock()
}

func (s *Supervisor) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close tears the channel down deliberately; Run returns without retrying.
func (s *Supervisor) Close() {
	s.mu.Lock()
	s.closed = true
	conn := s.conn
	s.mu.Unlock()
	if conn != nil {
		_ = conn.Close()
	}
}

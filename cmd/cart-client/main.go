// Package main runs the terminal cart client: it attaches to the relay
// channel, reconciles scan events into a cart, and renders it on change.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fairyhunter13/scan-to-cart-service/internal/cart"
	"github.com/fairyhunter13/scan-to-cart-service/internal/client"
	"github.com/fairyhunter13/scan-to-cart-service/internal/config"
	"github.com/fairyhunter13/scan-to-cart-service/internal/obs"
)

func wsURL(serverURL string) string {
	u := serverURL
	switch {
	case strings.HasPrefix(u, "https://"):
		u = "wss://" + strings.TrimPrefix(u, "https://")
	case strings.HasPrefix(u, "http://"):
		u = "ws://" + strings.TrimPrefix(u, "http://")
	}
	return strings.TrimSuffix(u, "/") + "/ws"
}

func main() {
	cfg := config.Load()
	obs.InitLogger()

	loop := cart.NewLoop(cart.New(cfg.DebounceWindow))
	sup := client.New(wsURL(cfg.ServerURL), loop, cfg.ReconnectAttempts, cfg.ReconnectDelay)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go loop.Run(ctx)
	go sup.Run(ctx)

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)

	quit := make(chan struct{})
	go readActions(loop, quit)

	fmt.Println("Cart client. Commands: - <barcode> decrease, x <barcode> remove, q quit.")
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()
	var last string
	for {
		select {
		case <-sigc:
			sup.Close()
			return
		case <-quit:
			sup.Close()
			return
		case <-loop.Changed():
		case <-ticker.C: // status expiry has no event of its own
		}
		if out := render(loop.Snapshot()); out != last {
			fmt.Print(out)
			last = out
		}
	}
}

// readActions turns stdin lines into user cart actions.
func readActions(loop *cart.Loop, quit chan<- struct{}) {
	sc := bufio.NewScanner(os.Stdin)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		switch {
		case line == "q":
			close(quit)
			return
		case strings.HasPrefix(line, "- "):
			loop.Decrease(strings.TrimSpace(line[2:]))
		case strings.HasPrefix(line, "x "):
			loop.Remove(strings.TrimSpace(line[2:]))
		}
	}
}

func render(s cart.Snapshot) string {
	var b strings.Builder
	b.WriteString("\n----------------------------------------\n")
	if s.Connected {
		b.WriteString("[connected]")
	} else {
		b.WriteString("[disconnected]")
	}
	if s.Status != "" {
		fmt.Fprintf(&b, "  %s", s.Status)
	}
	b.WriteString("\n")
	if len(s.Items) == 0 {
		b.WriteString("Cart is empty. Waiting for scans...\n")
		return b.String()
	}
	for _, it := range s.Items {
		fmt.Fprintf(&b, "%-13s  %-24s x%-3d  %8.2f\n",
			it.Product.Identity(), it.Product.Name, it.Quantity,
			it.Product.Price*float64(it.Quantity))
	}
	fmt.Fprintf(&b, "%43s %8.2f\n", "Total:", s.Total)
	return b.String()
}

package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("SHUTDOWN_TIMEOUT", "")
	t.Setenv("CATALOG_DRIVER", "")
	t.Setenv("SERVER_URL", "")
	t.Setenv("RESCAN_DELAY_MS", "")
	t.Setenv("RECONNECT_ATTEMPTS", "")
	t.Setenv("RECONNECT_DELAY_MS", "")
	c := Load()
	if c.HTTPAddr != ":5001" {
		t.Fatalf("HTTPAddr default")
	}
	if c.ShutdownTimeout != 10*time.Second {
		t.Fatalf("ShutdownTimeout default")
	}
	if c.CatalogDriver != "memory" {
		t.Fatalf("CatalogDriver default")
	}
	if c.ServerURL != "http://localhost:5001" {
		t.Fatalf("ServerURL default")
	}
	if c.DebounceWindow != 5*time.Second {
		t.Fatalf("DebounceWindow default")
	}
	if c.ReconnectAttempts != 5 || c.ReconnectDelay != 3*time.Second {
		t.Fatalf("reconnect defaults")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("SHUTDOWN_TIMEOUT", "2")
	t.Setenv("CATALOG_DRIVER", "postgres")
	t.Setenv("POSTGRES_DSN", "host=localhost dbname=catalog")
	t.Setenv("RESCAN_DELAY_MS", "250")
	t.Setenv("RECONNECT_ATTEMPTS", "2")
	t.Setenv("RECONNECT_DELAY_MS", "100")
	c := Load()
	if c.HTTPAddr != ":9090" {
		t.Fatalf("HTTPAddr env")
	}
	if c.ShutdownTimeout != 2*time.Second {
		t.Fatalf("ShutdownTimeout env")
	}
	if c.CatalogDriver != "postgres" || c.PostgresDSN == "" {
		t.Fatalf("catalog env")
	}
	if c.DebounceWindow != 250*time.Millisecond {
		t.Fatalf("DebounceWindow env")
	}
	if c.ReconnectAttempts != 2 || c.ReconnectDelay != 100*time.Millisecond {
		t.Fatalf("reconnect env")
	}
}

func TestBadIntFallsBack(t *testing.T) {
	t.Setenv("RESCAN_DELAY_MS", "not-a-number")
	c := Load()
	if c.DebounceWindow != 5*time.Second {
		t.Fatalf("expected default on unparsable value, got %v", c.DebounceWindow)
	}
}

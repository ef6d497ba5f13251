package httpapi

import "sync/atomic"

// scanStats counts scan submissions by outcome.
type scanStats struct {
	scans    atomic.Uint64
	found    atomic.Uint64
	notFound atomic.Uint64
	failed   atomic.Uint64
	rejected atomic.Uint64
}

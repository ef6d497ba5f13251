package cart

import "time"

// shouldAccept decides whether a found event for an already-present line
// item may increment its quantity. A re-scan inside the window is treated
// as an echo of the previous physical scan and ignored.
//
// This is a heuristic, not true deduplication: no scan-sequence id exists,
// so timing near the window boundary can suppress a deliberate re-scan or
// double-count a slow echo. Kept isolated here so the policy can be tuned
// without touching the transition logic.
func shouldAccept(now, lastScan time.Time, window time.Duration) bool {
	return now.Sub(lastScan) >= window
}

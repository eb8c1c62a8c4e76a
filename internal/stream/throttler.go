package stream

import (
	"sync"
	"time"
	"unicode/utf8"
)

// DefaultInterval is the minimum gap between forwarded snapshots.
const DefaultInterval = 600 * time.Millisecond

// TruncationMarker prefixes a snapshot whose beginning was cut to fit the
// display budget. The suffix is kept: during live updates the latest
// progress matters, not the opening lines.
const TruncationMarker = "… (earlier output truncated)\n"

// Throttler rate-limits snapshot forwarding to the display surface.
// A snapshot is dropped when it is identical to the last forwarded value
// or arrives within the minimum interval; Flush bypasses the interval so
// the terminal snapshot is always delivered.
type Throttler struct {
	interval time.Duration
	forward  func(snapshot string)

	mu       sync.Mutex
	lastAt   time.Time
	lastSent string
}

// NewThrottler wraps forward with rate limiting. A non-positive interval
// disables the timing rule (the identity rule still applies).
func NewThrottler(interval time.Duration, forward func(string)) *Throttler {
	return &Throttler{interval: interval, forward: forward}
}

// Notify forwards snapshot unless it duplicates the last forwarded value
// or the minimum interval has not elapsed.
func (t *Throttler) Notify(snapshot string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if snapshot == t.lastSent {
		return
	}
	if !t.lastAt.IsZero() && time.Since(t.lastAt) < t.interval {
		return
	}
	t.send(snapshot)
}

// Flush forwards snapshot regardless of timing. Callers invoke it once
// after the invocation resolves; if the consumer already holds an identical
// value the send is skipped, which preserves the terminal guarantee.
func (t *Throttler) Flush(snapshot string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if snapshot == t.lastSent {
		return
	}
	t.send(snapshot)
}

// send must be called with t.mu held.
func (t *Throttler) send(snapshot string) {
	t.lastSent = snapshot
	t.lastAt = time.Now()
	t.forward(snapshot)
}

// TruncateForDisplay fits s into max bytes by keeping the suffix, prefixed
// with the truncation marker. The cut is nudged forward to a rune boundary.
func TruncateForDisplay(s string, max int) string {
	if len(s) <= max {
		return s
	}
	keep := max - len(TruncationMarker)
	if keep <= 0 {
		return TruncationMarker
	}
	cut := len(s) - keep
	for cut < len(s) && !utf8.RuneStart(s[cut]) {
		cut++
	}
	return TruncationMarker + s[cut:]
}

package stream

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func collectThrottler(interval time.Duration) (*Throttler, *[]string) {
	var got []string
	t := NewThrottler(interval, func(s string) { got = append(got, s) })
	return t, &got
}

func TestThrottlerSuppressesIdenticalSnapshots(t *testing.T) {
	th, got := collectThrottler(0)
	th.Notify("a")
	th.Notify("a")
	th.Notify("b")
	th.Notify("b")
	assert.Equal(t, []string{"a", "b"}, *got)
}

func TestThrottlerSuppressesWithinInterval(t *testing.T) {
	th, got := collectThrottler(time.Hour)
	th.Notify("a")
	th.Notify("ab")
	th.Notify("abc")
	assert.Equal(t, []string{"a"}, *got)
}

func TestThrottlerFlushBypassesInterval(t *testing.T) {
	th, got := collectThrottler(time.Hour)
	th.Notify("a")
	th.Notify("ab")
	th.Flush("final")
	assert.Equal(t, []string{"a", "final"}, *got)
}

func TestThrottlerFlushSkipsIdentical(t *testing.T) {
	th, got := collectThrottler(0)
	th.Notify("final")
	th.Flush("final")
	assert.Equal(t, []string{"final"}, *got)
}

// Whatever the notify timing, the last value the consumer ever observes
// after the final flush must equal the true final snapshot.
func TestThrottlerTerminalGuarantee(t *testing.T) {
	snapshots := []string{"t", "th", "thi", "this", "this is", "this is it"}

	for _, interval := range []time.Duration{0, time.Millisecond, time.Hour} {
		th, got := collectThrottler(interval)
		for _, s := range snapshots {
			th.Notify(s)
		}
		th.Flush(snapshots[len(snapshots)-1])
		assert.NotEmpty(t, *got)
		assert.Equal(t, "this is it", (*got)[len(*got)-1], "interval %s", interval)
	}
}

func TestTruncateForDisplay(t *testing.T) {
	assert.Equal(t, "short", TruncateForDisplay("short", 100))

	long := strings.Repeat("x", 50) + "TAIL"
	got := TruncateForDisplay(long, 40)
	assert.True(t, strings.HasPrefix(got, TruncationMarker))
	assert.True(t, strings.HasSuffix(got, "TAIL"))
	assert.LessOrEqual(t, len(got), 40+len(TruncationMarker))
}

func TestTruncateForDisplayRuneBoundary(t *testing.T) {
	long := strings.Repeat("é", 100)
	got := TruncateForDisplay(long, 50)
	trimmed := strings.TrimPrefix(got, TruncationMarker)
	for _, r := range trimmed {
		assert.NotEqual(t, '�', r)
	}
}

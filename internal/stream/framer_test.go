package stream

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFramerSplitsCompleteLines(t *testing.T) {
	f := &Framer{}
	lines := f.Feed([]byte("one\ntwo\nthree\n"))
	assert.Equal(t, []string{"one", "two", "three"}, lines)
	assert.Empty(t, f.Flush())
}

func TestFramerCarriesTrailingFragment(t *testing.T) {
	f := &Framer{}
	lines := f.Feed([]byte("complete\npart"))
	assert.Equal(t, []string{"complete"}, lines)

	lines = f.Feed([]byte("ial\nnext\n"))
	assert.Equal(t, []string{"partial", "next"}, lines)
	assert.Empty(t, f.Flush())
}

func TestFramerFlushDrainsCarry(t *testing.T) {
	f := &Framer{}
	f.Feed([]byte("no newline here"))
	assert.Equal(t, "no newline here", f.Flush())
	assert.Empty(t, f.Flush())
}

func TestFramerStripsCarriageReturn(t *testing.T) {
	f := &Framer{}
	lines := f.Feed([]byte("a\r\nb\n"))
	assert.Equal(t, []string{"a", "b"}, lines)
}

// Feeding the same bytes split at every possible boundary must yield the
// same line sequence as feeding them whole.
func TestFramerIdempotentUnderArbitrarySplits(t *testing.T) {
	input := []byte("{\"type\":\"assistant\"}\nplain text line\n\nlast\n")

	whole := (&Framer{}).Feed(input)
	require.Equal(t, []string{`{"type":"assistant"}`, "plain text line", "", "last"}, whole)

	for split := 0; split <= len(input); split++ {
		f := &Framer{}
		var got []string
		got = append(got, f.Feed(input[:split])...)
		got = append(got, f.Feed(input[split:])...)
		assert.Equal(t, whole, got, "split at %d", split)
	}

	// Byte-at-a-time
	f := &Framer{}
	var got []string
	for i := range input {
		got = append(got, f.Feed(input[i:i+1])...)
	}
	assert.Equal(t, whole, got)
}

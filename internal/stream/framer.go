// Package stream contains the pipeline that turns raw worker output into
// throttled display snapshots: line framing, event decoding, response
// accumulation, and update throttling. Both execution paths (CLI worker and
// remote API) feed the same Accumulator/Throttler pair so live updates
// behave identically regardless of mode.
package stream

import (
	"bytes"
	"strings"
)

// Framer splits a raw byte stream into newline-delimited records.
// Content after the last newline is carried over and prepended to the
// next chunk, so a record may span any number of reads.
type Framer struct {
	carry []byte
}

// Feed appends chunk to the carry-over buffer and returns every complete
// line it now holds. Any byte sequence is accepted.
func (f *Framer) Feed(chunk []byte) []string {
	f.carry = append(f.carry, chunk...)

	var lines []string
	for {
		i := bytes.IndexByte(f.carry, '\n')
		if i < 0 {
			break
		}
		lines = append(lines, strings.TrimSuffix(string(f.carry[:i]), "\r"))
		f.carry = f.carry[i+1:]
	}
	return lines
}

// Flush drains the carry-over buffer at end of stream.
func (f *Framer) Flush() string {
	s := strings.TrimSuffix(string(f.carry), "\r")
	f.carry = nil
	return s
}

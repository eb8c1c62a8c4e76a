package stream

import "strings"

// Accumulator folds text fragments into a monotonically growing response.
// It is owned by exactly one in-flight invocation and discarded when the
// invocation resolves. Pure append: no truncation, no reordering, so every
// earlier snapshot is a prefix of every later one.
type Accumulator struct {
	b strings.Builder
}

// Append writes the fragments in order and returns the current snapshot.
func (a *Accumulator) Append(fragments ...string) string {
	for _, f := range fragments {
		a.b.WriteString(f)
	}
	return a.b.String()
}

// Snapshot returns the current state without mutating.
func (a *Accumulator) Snapshot() string {
	return a.b.String()
}

// Len returns the accumulated length in bytes.
func (a *Accumulator) Len() int {
	return a.b.Len()
}

// Package ai contains the two execution paths behind the gateway: a
// tool-capable CLI worker supervised as a subprocess (full mode) and a
// direct streaming call to the Anthropic API (fast mode). Both fold their
// incremental text through the stream package so live updates look the
// same to the display surface regardless of path.
package ai

import "time"

// Outcome is the terminal result of one invocation. It is produced exactly
// once, either via normal completion or timeout/error; error outcomes
// carry no text.
type Outcome struct {
	Text     string
	Duration time.Duration
	CostUSD  float64
	HasCost  bool
}

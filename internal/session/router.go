package session

import (
	"regexp"
	"strings"
)

// Mode selects the execution path for one message.
type Mode int

const (
	ModeFull Mode = iota // tool-capable external worker
	ModeFast             // direct streaming API call
)

// fastPrefix selects fast mode when the fast path is deployed.
const fastPrefix = "quick:"

// resetPattern matches an explicit reset command at message start.
var resetPattern = regexp.MustCompile(`(?i)^reset\b`)

// ContextDir maps a name to an alternate full-mode working directory.
type ContextDir struct {
	Name string
	Path string
}

// Route is the routing decision for one inbound message.
type Route struct {
	Mode    Mode
	Text    string // effective prompt text (prefix stripped, trimmed)
	WorkDir string // full mode only
	Resume  bool   // full mode only: pass the continuation flag
	Reset   bool   // short-circuit: state was cleared, run nothing
}

// Router decides fast vs full per message and resolves the working context.
type Router struct {
	store       *Store
	fastEnabled bool
	defaultDir  string
	contexts    []ContextDir
}

// NewRouter builds a router. fastEnabled is a deployment-wide switch: when
// false the fast prefix is treated as ordinary prompt text.
func NewRouter(store *Store, fastEnabled bool, defaultDir string, contexts []ContextDir) *Router {
	return &Router{store: store, fastEnabled: fastEnabled, defaultDir: defaultDir, contexts: contexts}
}

// Route inspects one message for key. A reset command clears the whole
// session and short-circuits; otherwise the default mode is full.
func (r *Router) Route(key, text string) Route {
	trimmed := strings.TrimSpace(text)

	if resetPattern.MatchString(trimmed) {
		r.store.Reset(key)
		return Route{Reset: true}
	}

	if r.fastEnabled {
		if rest, ok := cutPrefixFold(trimmed, fastPrefix); ok {
			return Route{Mode: ModeFast, Text: strings.TrimSpace(rest)}
		}
	}

	return Route{
		Mode:    ModeFull,
		Text:    trimmed,
		WorkDir: r.workDirFor(trimmed),
		Resume:  r.store.Continuable(key),
	}
}

// workDirFor scans the message for known context names, case-insensitive,
// first match wins in configuration order. Substring matching can false-
// positive inside unrelated prose; callers pick context names accordingly.
func (r *Router) workDirFor(text string) string {
	lower := strings.ToLower(text)
	for _, c := range r.contexts {
		if c.Name != "" && strings.Contains(lower, strings.ToLower(c.Name)) {
			return c.Path
		}
	}
	return r.defaultDir
}

func cutPrefixFold(s, prefix string) (string, bool) {
	if len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix) {
		return s[len(prefix):], true
	}
	return "", false
}

package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestRouter(fastEnabled bool) (*Router, *Store) {
	store := NewStore()
	contexts := []ContextDir{
		{Name: "website", Path: "/srv/website"},
		{Name: "infra", Path: "/srv/infra"},
	}
	return NewRouter(store, fastEnabled, "/home/me", contexts), store
}

func TestRouteDefaultsToFull(t *testing.T) {
	r, _ := newTestRouter(true)
	route := r.Route("k", "  do the thing  ")
	assert.Equal(t, ModeFull, route.Mode)
	assert.Equal(t, "do the thing", route.Text)
	assert.Equal(t, "/home/me", route.WorkDir)
	assert.False(t, route.Resume)
	assert.False(t, route.Reset)
}

func TestRouteFastPrefix(t *testing.T) {
	r, _ := newTestRouter(true)

	tests := []struct {
		in   string
		want string
	}{
		{"quick: hello", "hello"},
		{"QUICK: hello", "hello"},
		{"Quick:hello", "hello"},
	}
	for _, tc := range tests {
		route := r.Route("k", tc.in)
		assert.Equal(t, ModeFast, route.Mode, tc.in)
		assert.Equal(t, tc.want, route.Text, tc.in)
	}
}

// Without an eligible credential the fast path does not exist at all;
// the prefix is just prompt text.
func TestRouteFastPrefixIgnoredWhenDisabled(t *testing.T) {
	r, _ := newTestRouter(false)
	route := r.Route("k", "quick: hello")
	assert.Equal(t, ModeFull, route.Mode)
	assert.Equal(t, "quick: hello", route.Text)
}

func TestRouteResetShortCircuits(t *testing.T) {
	r, store := newTestRouter(true)
	store.MarkContinuable("k")
	store.AppendExchange("k", "q", "a")

	for _, in := range []string{"reset", "RESET", "Reset please", "reset."} {
		route := r.Route("k", in)
		assert.True(t, route.Reset, in)
	}
	assert.False(t, store.Continuable("k"))
	assert.Nil(t, store.History("k"))
}

func TestRouteResetRequiresWordBoundary(t *testing.T) {
	r, _ := newTestRouter(true)
	route := r.Route("k", "resetting the server failed, help")
	assert.False(t, route.Reset)
	assert.Equal(t, ModeFull, route.Mode)
}

func TestRouteContextMatching(t *testing.T) {
	r, _ := newTestRouter(true)

	tests := []struct {
		in   string
		want string
	}{
		{"fix the Website navbar", "/srv/website"},
		{"check INFRA alerts", "/srv/infra"},
		// first match wins in configuration order
		{"move the website to new infra", "/srv/website"},
		{"nothing special", "/home/me"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, r.Route("k", tc.in).WorkDir, tc.in)
	}
}

func TestRouteResumeAfterSuccessfulFullInvocation(t *testing.T) {
	r, store := newTestRouter(true)

	assert.False(t, r.Route("k", "first").Resume)
	store.MarkContinuable("k")
	assert.True(t, r.Route("k", "second").Resume)

	// Fast-mode traffic does not clear continuability.
	r.Route("k", "quick: side question")
	assert.True(t, r.Route("k", "third").Resume)

	// Reset does.
	r.Route("k", "reset")
	assert.False(t, r.Route("k", "fourth").Resume)
}

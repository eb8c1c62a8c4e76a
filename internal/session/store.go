// Package session tracks per-conversation state: fast-path history,
// full-path continuation, and the routing decision for each inbound message.
// State lives in memory only and is lost on restart.
package session

import "sync"

// HistoryCap bounds the fast-path history per conversation:
// 20 entries, i.e. 10 complete (user, assistant) turn pairs.
const HistoryCap = 20

// Turn is one (role, content) pair of fast-path history.
type Turn struct {
	Role    string
	Content string
}

// State is the per-conversation record. Fast-mode history and full-mode
// continuability are independent axes: a user may interleave quick
// exchanges with tool-enabled ones in the same conversation.
type State struct {
	Continuable bool
	History     []Turn
}

// Store holds conversation state keyed by conversation key. Entries are
// created lazily on first use and cleared entirely on reset.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*State
}

func NewStore() *Store {
	return &Store{sessions: make(map[string]*State)}
}

// state returns the entry for key, creating it if absent.
// Caller must hold s.mu.
func (s *Store) state(key string) *State {
	st, ok := s.sessions[key]
	if !ok {
		st = &State{}
		s.sessions[key] = st
	}
	return st
}

// Continuable reports whether the next full-mode invocation for key
// should resume the worker's prior conversational state.
func (s *Store) Continuable(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.sessions[key]; ok {
		return st.Continuable
	}
	return false
}

// MarkContinuable records that a full-mode invocation for key resolved
// successfully.
func (s *Store) MarkContinuable(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state(key).Continuable = true
}

// History returns a copy of the fast-path history for key.
func (s *Store) History(key string) []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.sessions[key]
	if !ok || len(st.History) == 0 {
		return nil
	}
	out := make([]Turn, len(st.History))
	copy(out, st.History)
	return out
}

// AppendExchange records one completed fast-path turn. When the cap is
// exceeded the oldest complete (user, assistant) pair is evicted together,
// preserving role pairing and order.
func (s *Store) AppendExchange(key, prompt, reply string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state(key)
	st.History = append(st.History, Turn{Role: "user", Content: prompt}, Turn{Role: "assistant", Content: reply})
	for len(st.History) > HistoryCap {
		st.History = st.History[2:]
	}
}

// Reset clears all state for key. The next full-mode message starts fresh
// and the fast-path history is empty.
func (s *Store) Reset(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, key)
}

// internal/planner/session.go
package planner

import "sync"

// Session is the single owner of one editable plan document. It wraps a
// History behind a mutex and fans out state changes to registered watchers
// (the autosave controller, in practice).
//
// There is deliberately no package-level session: every editor owns its own
// Session instance and releases it by dropping the reference.
type Session struct {
	mu       sync.Mutex
	history  *History
	watchers []func(Document)
}

// NewSession creates a session owning the given initial document.
func NewSession(initial Document) *Session {
	return &Session{history: NewHistory(initial)}
}

// Watch registers a callback invoked after every dispatch with the
// resulting document. Callbacks run outside the session lock, so a watcher
// may itself dispatch.
func (s *Session) Watch(fn func(Document)) {
	s.mu.Lock()
	s.watchers = append(s.watchers, fn)
	s.mu.Unlock()
}

// Dispatch applies one action and returns the new document state. History
// pushes happen synchronously here, before any watcher (and therefore any
// autosave timer) observes the new state.
func (s *Session) Dispatch(a Action) Document {
	s.mu.Lock()
	doc := s.history.Apply(a)
	watchers := s.watchers
	s.mu.Unlock()

	for _, fn := range watchers {
		fn(doc)
	}
	return doc
}

// State returns the current document.
func (s *Session) State() Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Current()
}

// CanUndo reports whether Dispatch(Undo{}) would change state.
func (s *Session) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.CanUndo()
}

// CanRedo reports whether Dispatch(Redo{}) would change state.
func (s *Session) CanRedo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.CanRedo()
}

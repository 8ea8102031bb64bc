// internal/planner/autosave.go
package planner

import (
	"context"
	"log"
	"sync"
	"time"
)

// Autosave defaults. The debounce keeps a typing burst from spamming the
// network while bounding lost work to roughly two seconds on a crash; the
// save timeout bounds how long the Saving flag can stay raised if the
// network hangs.
const (
	DefaultDebounce    = 2 * time.Second
	DefaultSaveTimeout = 15 * time.Second
)

// UpdateFunc persists the current state of an already-created record. It is
// the only piece of the persistence gateway the autosave controller needs.
type UpdateFunc func(ctx context.Context, doc Document) error

// Autosave watches a session for dirtiness and debounces a background save.
// A document that has never been explicitly saved (empty TemplateID) is
// never auto-saved: autosave only maintains an established record, it does
// not allocate one.
type Autosave struct {
	session  *Session
	update   UpdateFunc
	debounce time.Duration
	timeout  time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
}

// AutosaveOption tweaks controller timing (tests shorten both).
type AutosaveOption func(*Autosave)

// WithDebounce overrides the quiet period before a save fires.
func WithDebounce(d time.Duration) AutosaveOption {
	return func(a *Autosave) { a.debounce = d }
}

// WithSaveTimeout overrides the per-save network timeout.
func WithSaveTimeout(d time.Duration) AutosaveOption {
	return func(a *Autosave) { a.timeout = d }
}

// NewAutosave attaches a controller to the session. It starts observing
// immediately; call Stop when the editing session ends.
func NewAutosave(session *Session, update UpdateFunc, opts ...AutosaveOption) *Autosave {
	a := &Autosave{
		session:  session,
		update:   update,
		debounce: DefaultDebounce,
		timeout:  DefaultSaveTimeout,
	}
	for _, opt := range opts {
		opt(a)
	}
	session.Watch(a.observe)
	return a
}

// observe runs after every dispatch. Each qualifying change restarts the
// debounce timer, coalescing rapid edits into one save; the eligibility
// check repeats at fire time because the state may have moved on while the
// timer ran.
func (a *Autosave) observe(doc Document) {
	if !eligible(doc) {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.stopped {
		return
	}
	if a.timer != nil {
		a.timer.Stop()
	}
	a.timer = time.AfterFunc(a.debounce, a.fire)
}

func eligible(doc Document) bool {
	return doc.Dirty && doc.TemplateID != "" && !doc.Saving
}

// fire performs one background save attempt. A failed or timed-out save
// surfaces MarkSaveError and leaves the document dirty, so the next edit's
// debounce cycle retries; there is no in-flight cancellation.
func (a *Autosave) fire() {
	a.mu.Lock()
	stopped := a.stopped
	a.mu.Unlock()
	if stopped {
		return
	}

	// Re-check against the live state: a manual save may have run, or an
	// undo may have restored the clean state, while the timer waited.
	doc := a.session.State()
	if !eligible(doc) {
		return
	}

	doc = a.session.Dispatch(MarkSaving{})

	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()

	if err := a.update(ctx, doc); err != nil {
		log.Printf("WARN: autosave failed for plan %s: %v", doc.TemplateID, err)
		a.session.Dispatch(MarkSaveError{})
		return
	}
	a.session.Dispatch(MarkSaved{TemplateID: doc.TemplateID})
}

// Stop cancels any pending debounce and stops observing. A save already in
// flight is allowed to finish.
func (a *Autosave) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stopped = true
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
}

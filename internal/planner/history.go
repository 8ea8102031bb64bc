// internal/planner/history.go
package planner

// HistoryLimit bounds the undo stack. Whole-document snapshots are small
// (dozens of slots) so 50 of them is a few tens of kilobytes; an inverse
// command log would bound memory independent of document size if plans ever
// grow much larger.
const HistoryLimit = 50

// History wraps the reducer with bounded undo/redo. It keeps three stacks:
// past (older snapshots, most recent last), the current document, and
// future (undone snapshots, most recent first).
//
// History is not safe for concurrent use; Session adds the locking.
type History struct {
	past    []Document
	current Document
	future  []Document
}

// NewHistory starts a history at the given initial document.
func NewHistory(initial Document) *History {
	return &History{current: initial}
}

// Current returns the live document.
func (h *History) Current() Document {
	return h.current
}

// CanUndo reports whether an undo snapshot exists.
func (h *History) CanUndo() bool { return len(h.past) > 0 }

// CanRedo reports whether a redo snapshot exists.
func (h *History) CanRedo() bool { return len(h.future) > 0 }

// undoable reports whether an action participates in undo history. View
// changes and save-lifecycle transitions are cosmetic with respect to plan
// content, and a wholesale template load resets the editing session, so
// none of them are undoable.
func undoable(a Action) bool {
	switch a.(type) {
	case SelectDay, MarkSaving, MarkSaved, MarkSaveError, MarkPresetSaved,
		LoadTemplate, Undo, Redo:
		return false
	}
	return true
}

// Apply runs one action through the reducer (or performs undo/redo) and
// returns the new current document.
//
// An undoable action pushes the pre-action state onto the past stack only
// when the reducer actually changed the state; clamped-to-same-value edits
// and duplicate-add no-ops never pollute history. Any real edit clears the
// redo stack.
func (h *History) Apply(a Action) Document {
	switch a.(type) {
	case Undo:
		return h.undo()
	case Redo:
		return h.redo()
	}

	next := Reduce(h.current, a)
	if undoable(a) && !next.Equal(h.current) {
		h.past = append(h.past, h.current)
		if len(h.past) > HistoryLimit {
			h.past = h.past[len(h.past)-HistoryLimit:]
		}
		h.future = nil
	}
	if _, ok := a.(LoadTemplate); ok {
		// A fresh record invalidates snapshots of whatever was loaded
		// before it.
		h.past = nil
		h.future = nil
	}
	h.current = next
	return h.current
}

// undo restores the most recent past snapshot. The live Saving flag and
// TemplateID are carried forward: undoing must not resurrect a stale
// save-in-flight flag or a pre-first-save template identity.
func (h *History) undo() Document {
	if len(h.past) == 0 {
		return h.current
	}
	restored := h.past[len(h.past)-1]
	h.past = h.past[:len(h.past)-1]
	restored.Saving = h.current.Saving
	restored.TemplateID = h.current.TemplateID
	h.future = append([]Document{h.current}, h.future...)
	h.current = restored
	return h.current
}

// redo is symmetric to undo, popping from the future stack.
func (h *History) redo() Document {
	if len(h.future) == 0 {
		return h.current
	}
	restored := h.future[0]
	h.future = h.future[1:]
	restored.Saving = h.current.Saving
	restored.TemplateID = h.current.TemplateID
	h.past = append(h.past, h.current)
	h.current = restored
	return h.current
}

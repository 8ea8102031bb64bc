// internal/planner/action.go
package planner

// Action is one edit intent against a plan Document. The set of variants is
// closed: the reducer handles every one explicitly and the History manager
// decides undoability by type.
type Action interface {
	isAction()
}

// --- Content edits (undoable) ---

// AddMuscle appends a new slot at the end of a day's order.
// Sets of 0 means "use the default prescription".
type AddMuscle struct {
	Day      int
	MuscleID string
	Sets     int
}

// RemoveSlot deletes one slot by id.
type RemoveSlot struct {
	SlotID string
}

// SetSets updates the set count of one slot, clamped to [MinSets, MaxSets].
type SetSets struct {
	SlotID string
	Sets   int
}

// SetReps updates the rep range of one slot, clamped to [MinReps, MaxReps].
type SetReps struct {
	SlotID string
	RepMin int
	RepMax int
}

// SetAllSetsForMuscle bulk-updates every slot targeting a muscle, on every
// day, to the same set count.
type SetAllSetsForMuscle struct {
	MuscleID string
	Sets     int
}

// Reorder moves the slot at position From to position To within one day.
type Reorder struct {
	Day  int
	From int
	To   int
}

// MoveSlot relocates a slot to another day at the given position.
type MoveSlot struct {
	SlotID  string
	ToDay   int
	ToIndex int
}

// PasteDay clones every slot of one day onto another, appended after the
// target day's existing slots, with fresh ids.
type PasteDay struct {
	FromDay int
	ToDay   int
}

// LoadPreset replaces the slot collection with a preset's (already hydrated)
// slots. The working TemplateID is deliberately untouched: loading a preset
// edits the current plan, it does not switch records.
type LoadPreset struct {
	Slots []Slot
	Name  string
}

// ClearAll empties the slot collection.
type ClearAll struct{}

// SetName updates the plan name.
type SetName struct {
	Name string
}

// SetDescription updates the plan description.
type SetDescription struct {
	Description string
}

// --- View / save-lifecycle transitions (exempt from history) ---

// SelectDay changes which day the editor is showing. View-only: never marks
// the document dirty.
type SelectDay struct {
	Day int
}

// LoadTemplate replaces the document wholesale from a persisted record and
// resets the dirty/saving flags.
type LoadTemplate struct {
	TemplateID  string
	Name        string
	Description string
	Slots       []Slot
}

// MarkSaving flags a save as in flight.
type MarkSaving struct{}

// MarkSaved records a successful save of the working record: clears the
// dirty and saving flags and pins the (possibly newly allocated) template id.
type MarkSaved struct {
	TemplateID string
}

// MarkSaveError records a failed or timed-out save: clears the saving flag
// and leaves the document dirty so the next autosave cycle retries.
type MarkSaveError struct{}

// MarkPresetSaved records a successful save-as-preset. It only clears the
// saving flag: the preset is a separate record, so the working document's
// TemplateID and dirtiness are untouched.
type MarkPresetSaved struct{}

// Undo and Redo are interpreted by the History manager, not the reducer.
type Undo struct{}
type Redo struct{}

func (AddMuscle) isAction()           {}
func (RemoveSlot) isAction()          {}
func (SetSets) isAction()             {}
func (SetReps) isAction()             {}
func (SetAllSetsForMuscle) isAction() {}
func (Reorder) isAction()             {}
func (MoveSlot) isAction()            {}
func (PasteDay) isAction()            {}
func (LoadPreset) isAction()          {}
func (ClearAll) isAction()            {}
func (SetName) isAction()             {}
func (SetDescription) isAction()      {}
func (SelectDay) isAction()           {}
func (LoadTemplate) isAction()        {}
func (MarkSaving) isAction()          {}
func (MarkSaved) isAction()           {}
func (MarkSaveError) isAction()       {}
func (MarkPresetSaved) isAction()     {}
func (Undo) isAction()                {}
func (Redo) isAction()                {}

// internal/planner/document.go
//
// Package planner implements the in-memory state engine behind the muscle
// plan builder: the editable document model, its mutation reducer, bounded
// undo/redo, legacy-template hydration and debounced background saving.
// It has no knowledge of HTTP or MongoDB; persistence is injected as a
// function (see Autosave) or handled by the service layer.
package planner

// Numeric bounds for slot prescriptions. The reducer clamps into these
// ranges instead of rejecting input.
const (
	MinSets = 1
	MaxSets = 20
	MinReps = 1
	MaxReps = 100

	DefaultSets   = 3
	DefaultRepMin = 8
	DefaultRepMax = 12
)

// Slot is one (day, muscle) placement with its set/rep prescription.
// Within a document no two slots share (DayIndex, MuscleID), and SortOrder
// is dense per day starting at 0.
type Slot struct {
	ID        string `json:"id"`
	DayIndex  int    `json:"dayIndex"`
	MuscleID  string `json:"muscleId"`
	Sets      int    `json:"sets"`
	RepMin    int    `json:"repMin"`
	RepMax    int    `json:"repMax"`
	SortOrder int    `json:"sortOrder"`
}

// Document is the full editable plan state. It is a value type: the reducer
// never mutates a document in place, which is what makes whole-state undo
// snapshots safe.
//
// TemplateID is the hex id of the persisted record, empty until the first
// explicit save. SelectedDay is view-only and exempt from undo history.
// Dirty means the document differs from the last successfully saved state;
// Saving means a save is currently in flight.
type Document struct {
	TemplateID  string `json:"templateId,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Slots       []Slot `json:"slots"`
	SelectedDay int    `json:"selectedDayIndex"`
	Dirty       bool   `json:"isDirty"`
	Saving      bool   `json:"isSaving"`
}

// NewDocument returns an empty, never-persisted plan.
func NewDocument() Document {
	return Document{Name: "New Plan", SelectedDay: 0}
}

// cloneSlots copies the slot slice so a derived document never aliases its
// predecessor's backing array.
func cloneSlots(slots []Slot) []Slot {
	if len(slots) == 0 {
		return nil
	}
	out := make([]Slot, len(slots))
	copy(out, slots)
	return out
}

// Equal reports whether two documents are identical, slots included.
func (d Document) Equal(o Document) bool {
	if d.TemplateID != o.TemplateID ||
		d.Name != o.Name ||
		d.Description != o.Description ||
		d.SelectedDay != o.SelectedDay ||
		d.Dirty != o.Dirty ||
		d.Saving != o.Saving ||
		len(d.Slots) != len(o.Slots) {
		return false
	}
	for i := range d.Slots {
		if d.Slots[i] != o.Slots[i] {
			return false
		}
	}
	return true
}

// SlotsForDay returns the slots of one day in SortOrder, without mutating
// the document.
func (d Document) SlotsForDay(day int) []Slot {
	var out []Slot
	// Slots are kept grouped-and-ordered by the reducer, so a single pass
	// in slice order yields SortOrder order.
	for _, s := range d.Slots {
		if s.DayIndex == day {
			out = append(out, s)
		}
	}
	return out
}

// findSlot returns the index of the slot with the given id, or -1.
func findSlot(slots []Slot, id string) int {
	for i := range slots {
		if slots[i].ID == id {
			return i
		}
	}
	return -1
}

// dayHasMuscle reports whether a day already contains a muscle.
func dayHasMuscle(slots []Slot, day int, muscleID string) bool {
	for i := range slots {
		if slots[i].DayIndex == day && slots[i].MuscleID == muscleID {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

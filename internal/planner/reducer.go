// internal/planner/reducer.go
package planner

import (
	"sort"

	"github.com/google/uuid"
)

// Reduce maps (document, action) to a new document. It never mutates its
// input and it handles every action variant explicitly. Edits that would
// violate an invariant (duplicate muscle on a day, unknown slot id) are
// no-ops that return the input unchanged; out-of-range numbers are clamped,
// never rejected. The editing surface is forgiving by design.
//
// A no-op returning the input value unchanged is load-bearing: the History
// manager pushes an undo snapshot only when Reduce produced a different
// state, and it detects that with Document.Equal.
func Reduce(d Document, a Action) Document {
	switch a := a.(type) {

	case AddMuscle:
		if a.MuscleID == "" || dayHasMuscle(d.Slots, a.Day, a.MuscleID) {
			return d
		}
		sets := a.Sets
		if sets == 0 {
			sets = DefaultSets
		}
		out := d
		out.Slots = append(cloneSlots(d.Slots), Slot{
			ID:        uuid.NewString(),
			DayIndex:  a.Day,
			MuscleID:  a.MuscleID,
			Sets:      clamp(sets, MinSets, MaxSets),
			RepMin:    DefaultRepMin,
			RepMax:    DefaultRepMax,
			SortOrder: len(d.SlotsForDay(a.Day)),
		})
		canonicalize(out.Slots)
		out.Dirty = true
		return out

	case RemoveSlot:
		i := findSlot(d.Slots, a.SlotID)
		if i < 0 {
			return d
		}
		day := d.Slots[i].DayIndex
		out := d
		out.Slots = append(cloneSlots(d.Slots[:i]), d.Slots[i+1:]...)
		renumberDay(out.Slots, day)
		canonicalize(out.Slots)
		out.Dirty = true
		return out

	case SetSets:
		i := findSlot(d.Slots, a.SlotID)
		if i < 0 {
			return d
		}
		sets := clamp(a.Sets, MinSets, MaxSets)
		if d.Slots[i].Sets == sets {
			return d
		}
		out := d
		out.Slots = cloneSlots(d.Slots)
		out.Slots[i].Sets = sets
		out.Dirty = true
		return out

	case SetReps:
		i := findSlot(d.Slots, a.SlotID)
		if i < 0 {
			return d
		}
		repMin := clamp(a.RepMin, MinReps, MaxReps)
		repMax := clamp(a.RepMax, MinReps, MaxReps)
		if d.Slots[i].RepMin == repMin && d.Slots[i].RepMax == repMax {
			return d
		}
		out := d
		out.Slots = cloneSlots(d.Slots)
		out.Slots[i].RepMin = repMin
		out.Slots[i].RepMax = repMax
		out.Dirty = true
		return out

	case SetAllSetsForMuscle:
		sets := clamp(a.Sets, MinSets, MaxSets)
		changed := false
		out := d
		out.Slots = cloneSlots(d.Slots)
		for i := range out.Slots {
			if out.Slots[i].MuscleID == a.MuscleID && out.Slots[i].Sets != sets {
				out.Slots[i].Sets = sets
				changed = true
			}
		}
		if !changed {
			return d
		}
		out.Dirty = true
		return out

	case Reorder:
		day := d.SlotsForDay(a.Day)
		if a.From < 0 || a.From >= len(day) {
			return d
		}
		to := clamp(a.To, 0, len(day)-1)
		if to == a.From {
			return d
		}
		moved := day[a.From]
		rest := append(append([]Slot{}, day[:a.From]...), day[a.From+1:]...)
		reordered := append(append(append([]Slot{}, rest[:to]...), moved), rest[to:]...)
		out := d
		out.Slots = replaceDay(d.Slots, a.Day, reordered)
		out.Dirty = true
		return out

	case MoveSlot:
		i := findSlot(d.Slots, a.SlotID)
		if i < 0 {
			return d
		}
		slot := d.Slots[i]
		if slot.DayIndex == a.ToDay {
			// Same-day moves are reorders.
			from := slot.SortOrder
			return Reduce(d, Reorder{Day: a.ToDay, From: from, To: a.ToIndex})
		}
		if dayHasMuscle(d.Slots, a.ToDay, slot.MuscleID) {
			return d
		}
		fromDay := slot.DayIndex
		remaining := append(cloneSlots(d.Slots[:i]), d.Slots[i+1:]...)
		target := slotsForDay(remaining, a.ToDay)
		at := clamp(a.ToIndex, 0, len(target))
		slot.DayIndex = a.ToDay
		target = append(append(append([]Slot{}, target[:at]...), slot), target[at:]...)
		out := d
		out.Slots = replaceDay(remaining, a.ToDay, target)
		renumberDay(out.Slots, fromDay)
		canonicalize(out.Slots)
		out.Dirty = true
		return out

	case PasteDay:
		source := d.SlotsForDay(a.FromDay)
		if len(source) == 0 || a.FromDay == a.ToDay {
			return d
		}
		out := d
		out.Slots = cloneSlots(d.Slots)
		copied := false
		for _, s := range source {
			// Skip muscles the target day already has; pasting must not
			// break the one-muscle-per-day invariant.
			if dayHasMuscle(out.Slots, a.ToDay, s.MuscleID) {
				continue
			}
			clone := s
			clone.ID = uuid.NewString()
			clone.DayIndex = a.ToDay
			clone.SortOrder = len(slotsForDay(out.Slots, a.ToDay))
			out.Slots = append(out.Slots, clone)
			copied = true
		}
		if !copied {
			return d
		}
		renumberDay(out.Slots, a.ToDay)
		canonicalize(out.Slots)
		out.Dirty = true
		return out

	case LoadPreset:
		out := d
		out.Slots = cloneSlots(a.Slots)
		canonicalize(out.Slots)
		if a.Name != "" {
			out.Name = a.Name
		}
		out.Dirty = true
		return out

	case ClearAll:
		if len(d.Slots) == 0 {
			return d
		}
		out := d
		out.Slots = nil
		out.Dirty = true
		return out

	case SetName:
		if d.Name == a.Name {
			return d
		}
		out := d
		out.Name = a.Name
		out.Dirty = true
		return out

	case SetDescription:
		if d.Description == a.Description {
			return d
		}
		out := d
		out.Description = a.Description
		out.Dirty = true
		return out

	case SelectDay:
		if d.SelectedDay == a.Day {
			return d
		}
		out := d
		out.SelectedDay = a.Day
		return out

	case LoadTemplate:
		out := Document{
			TemplateID:  a.TemplateID,
			Name:        a.Name,
			Description: a.Description,
			Slots:       cloneSlots(a.Slots),
			SelectedDay: 0,
		}
		canonicalize(out.Slots)
		return out

	case MarkSaving:
		out := d
		out.Saving = true
		return out

	case MarkSaved:
		out := d
		out.Saving = false
		out.Dirty = false
		if a.TemplateID != "" {
			out.TemplateID = a.TemplateID
		}
		return out

	case MarkSaveError:
		out := d
		out.Saving = false
		return out

	case MarkPresetSaved:
		out := d
		out.Saving = false
		return out

	case Undo, Redo:
		// Interpreted by History; a bare reducer treats them as no-ops.
		return d
	}
	return d
}

// slotsForDay is SlotsForDay over a raw slice.
func slotsForDay(slots []Slot, day int) []Slot {
	var out []Slot
	for _, s := range slots {
		if s.DayIndex == day {
			out = append(out, s)
		}
	}
	return out
}

// replaceDay swaps one day's slots for the given (already ordered) sequence
// and returns a canonical slice. The day's SortOrder is re-derived densely.
func replaceDay(slots []Slot, day int, ordered []Slot) []Slot {
	var out []Slot
	for _, s := range slots {
		if s.DayIndex != day {
			out = append(out, s)
		}
	}
	for i, s := range ordered {
		s.SortOrder = i
		out = append(out, s)
	}
	canonicalize(out)
	return out
}

// renumberDay re-derives a dense 0..n-1 SortOrder for one day, preserving
// the slots' current relative order.
func renumberDay(slots []Slot, day int) {
	n := 0
	for i := range slots {
		if slots[i].DayIndex == day {
			slots[i].SortOrder = n
			n++
		}
	}
}

// canonicalize sorts the slice by (DayIndex, SortOrder) so that two
// logically identical documents are also slice-identical. Document.Equal
// and the history's no-op detection rely on this.
func canonicalize(slots []Slot) {
	sort.SliceStable(slots, func(i, j int) bool {
		if slots[i].DayIndex != slots[j].DayIndex {
			return slots[i].DayIndex < slots[j].DayIndex
		}
		return slots[i].SortOrder < slots[j].SortOrder
	})
}

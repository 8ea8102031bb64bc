// internal/planner/hydrate.go
package planner

import (
	"sort"

	"github.com/google/uuid"

	"peakform/coaching-app/internal/domain"
)

// HydrateSlots normalizes persisted slots to the current schema before they
// enter the reducer: slots saved by app versions that predate stable ids get
// a fresh uuid, missing rep ranges get the 8/12 default, out-of-range values
// are clamped, and each day's SortOrder is re-derived densely (older
// documents can carry gaps from deletions that never renumbered).
//
// The reducer never special-cases legacy shapes; it only ever sees fully
// hydrated slots.
func HydrateSlots(raw []domain.PlanSlot) []Slot {
	if len(raw) == 0 {
		return nil
	}
	slots := make([]Slot, 0, len(raw))
	for _, r := range raw {
		s := Slot{
			ID:        r.SlotID,
			DayIndex:  r.DayIndex,
			MuscleID:  r.MuscleID,
			Sets:      clamp(r.Sets, MinSets, MaxSets),
			RepMin:    DefaultRepMin,
			RepMax:    DefaultRepMax,
			SortOrder: r.SortOrder,
		}
		if s.ID == "" {
			s.ID = uuid.NewString()
		}
		if r.RepMin != nil {
			s.RepMin = clamp(*r.RepMin, MinReps, MaxReps)
		}
		if r.RepMax != nil {
			s.RepMax = clamp(*r.RepMax, MinReps, MaxReps)
		}
		slots = append(slots, s)
	}
	// Preserve the stored relative order within each day, then densify.
	sort.SliceStable(slots, func(i, j int) bool {
		if slots[i].DayIndex != slots[j].DayIndex {
			return slots[i].DayIndex < slots[j].DayIndex
		}
		return slots[i].SortOrder < slots[j].SortOrder
	})
	order := map[int]int{}
	for i := range slots {
		slots[i].SortOrder = order[slots[i].DayIndex]
		order[slots[i].DayIndex]++
	}
	return slots
}

// DocumentFromTemplate hydrates a persisted template into an editable
// document. The result is clean: not dirty, not saving.
func DocumentFromTemplate(t *domain.PlanTemplate) Document {
	return Document{
		TemplateID:  t.ID.Hex(),
		Name:        t.Name,
		Description: t.Description,
		Slots:       HydrateSlots(t.Slots),
	}
}

// RecordSlots converts runtime slots back to the persisted shape. The wire
// field names round-trip unchanged through the persistence layer.
func RecordSlots(slots []Slot) []domain.PlanSlot {
	if len(slots) == 0 {
		return nil
	}
	out := make([]domain.PlanSlot, 0, len(slots))
	for _, s := range slots {
		repMin, repMax := s.RepMin, s.RepMax
		out = append(out, domain.PlanSlot{
			SlotID:    s.ID,
			DayIndex:  s.DayIndex,
			MuscleID:  s.MuscleID,
			Sets:      s.Sets,
			RepMin:    &repMin,
			RepMax:    &repMax,
			SortOrder: s.SortOrder,
		})
	}
	return out
}

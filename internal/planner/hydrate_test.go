package planner_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"peakform/coaching-app/internal/domain"
	"peakform/coaching-app/internal/planner"
)

func intPtr(v int) *int { return &v }

func Test_HydrateSlots_Fills_Legacy_Gaps(t *testing.T) {
	t.Parallel()

	// A pre-stable-id template: no slot ids, no rep ranges, sortOrder gaps
	// left behind by deletions that never renumbered.
	raw := []domain.PlanSlot{
		{DayIndex: 1, MuscleID: "chest", Sets: 3, SortOrder: 0},
		{DayIndex: 1, MuscleID: "back", Sets: 4, SortOrder: 5},
		{DayIndex: 1, MuscleID: "arms", Sets: 2, SortOrder: 9},
	}

	slots := planner.HydrateSlots(raw)

	require.Len(t, slots, 3)
	seen := map[string]bool{}
	for i, s := range slots {
		assert.NotEmpty(t, s.ID, "slot %d must get an id", i)
		assert.False(t, seen[s.ID], "slot ids must be unique")
		seen[s.ID] = true
		assert.Equal(t, planner.DefaultRepMin, s.RepMin)
		assert.Equal(t, planner.DefaultRepMax, s.RepMax)
		assert.Equal(t, i, s.SortOrder, "sortOrder must be densified")
	}
	assert.Equal(t, "chest", slots[0].MuscleID, "relative order must survive")
	assert.Equal(t, "back", slots[1].MuscleID)
	assert.Equal(t, "arms", slots[2].MuscleID)
}

func Test_HydrateSlots_Preserves_Modern_Fields(t *testing.T) {
	t.Parallel()

	raw := []domain.PlanSlot{
		{SlotID: "s1", DayIndex: 0, MuscleID: "quads", Sets: 5, RepMin: intPtr(6), RepMax: intPtr(10), SortOrder: 0},
	}

	slots := planner.HydrateSlots(raw)

	require.Len(t, slots, 1)
	assert.Equal(t, "s1", slots[0].ID)
	assert.Equal(t, 6, slots[0].RepMin)
	assert.Equal(t, 10, slots[0].RepMax)
}

func Test_HydrateSlots_Clamps_Out_Of_Range_Values(t *testing.T) {
	t.Parallel()

	raw := []domain.PlanSlot{
		{SlotID: "s1", DayIndex: 0, MuscleID: "quads", Sets: 50, RepMin: intPtr(0), RepMax: intPtr(500), SortOrder: 0},
	}

	slots := planner.HydrateSlots(raw)

	require.Len(t, slots, 1)
	assert.Equal(t, planner.MaxSets, slots[0].Sets)
	assert.Equal(t, planner.MinReps, slots[0].RepMin)
	assert.Equal(t, planner.MaxReps, slots[0].RepMax)
}

func Test_HydrateSlots_Densifies_Per_Day_Not_Globally(t *testing.T) {
	t.Parallel()

	raw := []domain.PlanSlot{
		{SlotID: "b", DayIndex: 2, MuscleID: "back", Sets: 3, SortOrder: 7},
		{SlotID: "a", DayIndex: 0, MuscleID: "chest", Sets: 3, SortOrder: 3},
		{SlotID: "c", DayIndex: 2, MuscleID: "arms", Sets: 3, SortOrder: 1},
	}

	slots := planner.HydrateSlots(raw)

	require.Len(t, slots, 3)
	assert.Equal(t, "a", slots[0].ID)
	assert.Equal(t, 0, slots[0].SortOrder)
	// Day 2 re-sorted by stored sortOrder, then renumbered from zero.
	assert.Equal(t, "c", slots[1].ID)
	assert.Equal(t, 0, slots[1].SortOrder)
	assert.Equal(t, "b", slots[2].ID)
	assert.Equal(t, 1, slots[2].SortOrder)
}

func Test_HydrateSlots_Empty_Input(t *testing.T) {
	t.Parallel()

	assert.Nil(t, planner.HydrateSlots(nil))
	assert.Nil(t, planner.HydrateSlots([]domain.PlanSlot{}))
}

func Test_DocumentFromTemplate_Is_Clean(t *testing.T) {
	t.Parallel()

	id := primitive.NewObjectID()
	tpl := &domain.PlanTemplate{
		ID:          id,
		Name:        "Strength Block",
		Description: "12 week block",
		Slots: []domain.PlanSlot{
			{DayIndex: 0, MuscleID: "chest", Sets: 3, SortOrder: 0},
		},
	}

	doc := planner.DocumentFromTemplate(tpl)

	assert.Equal(t, id.Hex(), doc.TemplateID)
	assert.Equal(t, "Strength Block", doc.Name)
	assert.Equal(t, "12 week block", doc.Description)
	assert.False(t, doc.Dirty)
	assert.False(t, doc.Saving)
	assert.Equal(t, 0, doc.SelectedDay)
	require.Len(t, doc.Slots, 1)
	assert.NotEmpty(t, doc.Slots[0].ID)
}

func Test_RecordSlots_Round_Trips_Through_Hydration(t *testing.T) {
	t.Parallel()

	doc := buildPlan(
		planner.AddMuscle{Day: 0, MuscleID: "chest", Sets: 4},
		planner.AddMuscle{Day: 1, MuscleID: "back", Sets: 5},
	)

	rehydrated := planner.HydrateSlots(planner.RecordSlots(doc.Slots))

	require.Len(t, rehydrated, len(doc.Slots))
	for i := range doc.Slots {
		assert.Equal(t, doc.Slots[i], rehydrated[i])
	}
}

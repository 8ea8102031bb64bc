package planner_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"peakform/coaching-app/internal/planner"
)

// checkInvariants asserts the two structural document invariants: SortOrder
// is exactly 0..k-1 per day, and no day has the same muscle twice.
func checkInvariants(t *testing.T, doc planner.Document) {
	t.Helper()

	perDay := map[int][]int{}
	muscles := map[[2]interface{}]bool{}
	for _, s := range doc.Slots {
		perDay[s.DayIndex] = append(perDay[s.DayIndex], s.SortOrder)
		key := [2]interface{}{s.DayIndex, s.MuscleID}
		require.False(t, muscles[key], "duplicate muscle %q on day %d", s.MuscleID, s.DayIndex)
		muscles[key] = true
	}
	for day, orders := range perDay {
		seen := make([]bool, len(orders))
		for _, o := range orders {
			require.GreaterOrEqual(t, o, 0, "day %d has negative sortOrder", day)
			require.Less(t, o, len(orders), "day %d has sortOrder gap", day)
			require.False(t, seen[o], "day %d has duplicate sortOrder %d", day, o)
			seen[o] = true
		}
	}
}

// buildPlan dispatches a sequence of adds and returns the document.
func buildPlan(adds ...planner.AddMuscle) planner.Document {
	doc := planner.NewDocument()
	for _, a := range adds {
		doc = planner.Reduce(doc, a)
	}
	return doc
}

func slotID(t *testing.T, doc planner.Document, day int, muscle string) string {
	t.Helper()
	for _, s := range doc.Slots {
		if s.DayIndex == day && s.MuscleID == muscle {
			return s.ID
		}
	}
	t.Fatalf("no slot for muscle %q on day %d", muscle, day)
	return ""
}

func Test_AddMuscle_Appends_With_Defaults(t *testing.T) {
	t.Parallel()

	doc := planner.Reduce(planner.NewDocument(), planner.AddMuscle{Day: 1, MuscleID: "chest", Sets: 3})

	require.Len(t, doc.Slots, 1)
	slot := doc.Slots[0]
	assert.NotEmpty(t, slot.ID)
	assert.Equal(t, 1, slot.DayIndex)
	assert.Equal(t, "chest", slot.MuscleID)
	assert.Equal(t, 3, slot.Sets)
	assert.Equal(t, planner.DefaultRepMin, slot.RepMin)
	assert.Equal(t, planner.DefaultRepMax, slot.RepMax)
	assert.Equal(t, 0, slot.SortOrder)
	assert.True(t, doc.Dirty)
	checkInvariants(t, doc)
}

func Test_AddMuscle_Is_Idempotent(t *testing.T) {
	t.Parallel()

	once := planner.Reduce(planner.NewDocument(), planner.AddMuscle{Day: 1, MuscleID: "chest"})
	twice := planner.Reduce(once, planner.AddMuscle{Day: 1, MuscleID: "chest"})

	assert.True(t, once.Equal(twice), "second identical add must be a no-op")
}

func Test_AddMuscle_Uses_Default_Sets_When_Unset(t *testing.T) {
	t.Parallel()

	doc := planner.Reduce(planner.NewDocument(), planner.AddMuscle{Day: 0, MuscleID: "back"})
	require.Len(t, doc.Slots, 1)
	assert.Equal(t, planner.DefaultSets, doc.Slots[0].Sets)
}

func Test_SetSets_Clamps_Instead_Of_Rejecting(t *testing.T) {
	t.Parallel()

	// Spec'd editor scenario: add chest with 3 sets, then dial to 25.
	doc := planner.Reduce(planner.NewDocument(), planner.AddMuscle{Day: 1, MuscleID: "chest", Sets: 3})
	id := slotID(t, doc, 1, "chest")

	doc = planner.Reduce(doc, planner.SetSets{SlotID: id, Sets: 25})

	require.Len(t, doc.Slots, 1)
	assert.Equal(t, planner.MaxSets, doc.Slots[0].Sets)
	assert.Equal(t, 0, doc.Slots[0].SortOrder)
	checkInvariants(t, doc)
}

func Test_SetReps_Clamps_Both_Bounds(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name            string
		repMin, repMax  int
		wantMin, wantMax int
	}{
		{name: "InRange", repMin: 6, repMax: 10, wantMin: 6, wantMax: 10},
		{name: "BelowMin", repMin: 0, repMax: 10, wantMin: planner.MinReps, wantMax: 10},
		{name: "AboveMax", repMin: 6, repMax: 150, wantMin: 6, wantMax: planner.MaxReps},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			doc := planner.Reduce(planner.NewDocument(), planner.AddMuscle{Day: 0, MuscleID: "quads"})
			id := slotID(t, doc, 0, "quads")

			doc = planner.Reduce(doc, planner.SetReps{SlotID: id, RepMin: testCase.repMin, RepMax: testCase.repMax})

			assert.Equal(t, testCase.wantMin, doc.Slots[0].RepMin)
			assert.Equal(t, testCase.wantMax, doc.Slots[0].RepMax)
		})
	}
}

func Test_SetSets_Unknown_Slot_Is_NoOp(t *testing.T) {
	t.Parallel()

	doc := planner.Reduce(planner.NewDocument(), planner.AddMuscle{Day: 0, MuscleID: "quads"})
	after := planner.Reduce(doc, planner.SetSets{SlotID: "missing", Sets: 5})

	assert.True(t, doc.Equal(after))
}

func Test_SetAllSetsForMuscle_Updates_Every_Day(t *testing.T) {
	t.Parallel()

	doc := buildPlan(
		planner.AddMuscle{Day: 0, MuscleID: "chest", Sets: 3},
		planner.AddMuscle{Day: 2, MuscleID: "chest", Sets: 4},
		planner.AddMuscle{Day: 2, MuscleID: "back", Sets: 5},
	)

	doc = planner.Reduce(doc, planner.SetAllSetsForMuscle{MuscleID: "chest", Sets: 99})

	for _, s := range doc.Slots {
		if s.MuscleID == "chest" {
			assert.Equal(t, planner.MaxSets, s.Sets, "chest slot on day %d", s.DayIndex)
		} else {
			assert.Equal(t, 5, s.Sets, "other muscles must be untouched")
		}
	}
}

func Test_RemoveSlot_Renumbers_The_Day(t *testing.T) {
	t.Parallel()

	doc := buildPlan(
		planner.AddMuscle{Day: 1, MuscleID: "chest"},
		planner.AddMuscle{Day: 1, MuscleID: "back"},
		planner.AddMuscle{Day: 1, MuscleID: "arms"},
	)

	doc = planner.Reduce(doc, planner.RemoveSlot{SlotID: slotID(t, doc, 1, "back")})

	require.Len(t, doc.Slots, 2)
	day := doc.SlotsForDay(1)
	assert.Equal(t, "chest", day[0].MuscleID)
	assert.Equal(t, "arms", day[1].MuscleID)
	checkInvariants(t, doc)
}

func Test_RemoveSlot_Unknown_Id_Is_NoOp(t *testing.T) {
	t.Parallel()

	doc := buildPlan(planner.AddMuscle{Day: 1, MuscleID: "chest"})
	after := planner.Reduce(doc, planner.RemoveSlot{SlotID: "nope"})

	assert.True(t, doc.Equal(after))
}

func Test_Reorder_Moves_Within_Day(t *testing.T) {
	t.Parallel()

	doc := buildPlan(
		planner.AddMuscle{Day: 1, MuscleID: "chest"},
		planner.AddMuscle{Day: 1, MuscleID: "back"},
		planner.AddMuscle{Day: 1, MuscleID: "arms"},
		planner.AddMuscle{Day: 2, MuscleID: "quads"},
	)

	doc = planner.Reduce(doc, planner.Reorder{Day: 1, From: 2, To: 0})

	day := doc.SlotsForDay(1)
	require.Len(t, day, 3)
	assert.Equal(t, "arms", day[0].MuscleID)
	assert.Equal(t, "chest", day[1].MuscleID)
	assert.Equal(t, "back", day[2].MuscleID)
	// Untouched day keeps its order.
	assert.Equal(t, 0, doc.SlotsForDay(2)[0].SortOrder)
	checkInvariants(t, doc)
}

func Test_Reorder_Out_Of_Range_From_Is_NoOp(t *testing.T) {
	t.Parallel()

	doc := buildPlan(planner.AddMuscle{Day: 1, MuscleID: "chest"})
	after := planner.Reduce(doc, planner.Reorder{Day: 1, From: 5, To: 0})

	assert.True(t, doc.Equal(after))
}

func Test_MoveSlot_Relocates_And_Redensifies_Both_Days(t *testing.T) {
	t.Parallel()

	doc := buildPlan(
		planner.AddMuscle{Day: 1, MuscleID: "chest"},
		planner.AddMuscle{Day: 1, MuscleID: "back"},
		planner.AddMuscle{Day: 1, MuscleID: "arms"},
		planner.AddMuscle{Day: 2, MuscleID: "quads"},
	)

	doc = planner.Reduce(doc, planner.MoveSlot{
		SlotID:  slotID(t, doc, 1, "back"),
		ToDay:   2,
		ToIndex: 0,
	})

	day1 := doc.SlotsForDay(1)
	require.Len(t, day1, 2)
	assert.Equal(t, "chest", day1[0].MuscleID)
	assert.Equal(t, "arms", day1[1].MuscleID)

	day2 := doc.SlotsForDay(2)
	require.Len(t, day2, 2)
	assert.Equal(t, "back", day2[0].MuscleID)
	assert.Equal(t, "quads", day2[1].MuscleID)
	checkInvariants(t, doc)
}

func Test_MoveSlot_To_Day_With_Same_Muscle_Is_NoOp(t *testing.T) {
	t.Parallel()

	doc := buildPlan(
		planner.AddMuscle{Day: 1, MuscleID: "chest"},
		planner.AddMuscle{Day: 2, MuscleID: "chest"},
	)

	after := planner.Reduce(doc, planner.MoveSlot{
		SlotID: slotID(t, doc, 1, "chest"),
		ToDay:  2,
	})

	assert.True(t, doc.Equal(after), "document must be unchanged")
}

func Test_PasteDay_Clones_With_Fresh_Ids(t *testing.T) {
	t.Parallel()

	doc := buildPlan(
		planner.AddMuscle{Day: 1, MuscleID: "chest", Sets: 4},
		planner.AddMuscle{Day: 1, MuscleID: "back", Sets: 5},
		planner.AddMuscle{Day: 1, MuscleID: "arms", Sets: 2},
	)

	doc = planner.Reduce(doc, planner.PasteDay{FromDay: 1, ToDay: 2})

	source := doc.SlotsForDay(1)
	target := doc.SlotsForDay(2)
	require.Len(t, target, 3)
	for i := range target {
		assert.Equal(t, source[i].MuscleID, target[i].MuscleID)
		assert.Equal(t, source[i].Sets, target[i].Sets)
		assert.Equal(t, source[i].RepMin, target[i].RepMin)
		assert.Equal(t, source[i].RepMax, target[i].RepMax)
		assert.Equal(t, i, target[i].SortOrder)
		assert.NotEqual(t, source[i].ID, target[i].ID, "pasted slot must have a fresh id")
	}
	checkInvariants(t, doc)
}

func Test_PasteDay_Empty_Source_Is_NoOp(t *testing.T) {
	t.Parallel()

	doc := buildPlan(planner.AddMuscle{Day: 1, MuscleID: "chest"})
	after := planner.Reduce(doc, planner.PasteDay{FromDay: 3, ToDay: 1})

	assert.True(t, doc.Equal(after))
}

func Test_PasteDay_Skips_Muscles_Target_Already_Has(t *testing.T) {
	t.Parallel()

	doc := buildPlan(
		planner.AddMuscle{Day: 1, MuscleID: "chest"},
		planner.AddMuscle{Day: 1, MuscleID: "back"},
		planner.AddMuscle{Day: 2, MuscleID: "chest"},
	)

	doc = planner.Reduce(doc, planner.PasteDay{FromDay: 1, ToDay: 2})

	target := doc.SlotsForDay(2)
	require.Len(t, target, 2)
	assert.Equal(t, "chest", target[0].MuscleID)
	assert.Equal(t, "back", target[1].MuscleID)
	checkInvariants(t, doc)
}

func Test_ClearAll_Empties_And_Marks_Dirty(t *testing.T) {
	t.Parallel()

	doc := buildPlan(planner.AddMuscle{Day: 1, MuscleID: "chest"})
	doc = planner.Reduce(doc, planner.MarkSaved{TemplateID: "abc"})
	require.False(t, doc.Dirty)

	doc = planner.Reduce(doc, planner.ClearAll{})

	assert.Empty(t, doc.Slots)
	assert.True(t, doc.Dirty)
}

func Test_SelectDay_Never_Marks_Dirty(t *testing.T) {
	t.Parallel()

	doc := planner.Reduce(planner.NewDocument(), planner.SelectDay{Day: 3})

	assert.Equal(t, 3, doc.SelectedDay)
	assert.False(t, doc.Dirty)
}

func Test_Save_Transitions_Drive_Flags(t *testing.T) {
	t.Parallel()

	doc := buildPlan(planner.AddMuscle{Day: 1, MuscleID: "chest"})
	require.True(t, doc.Dirty)

	doc = planner.Reduce(doc, planner.MarkSaving{})
	assert.True(t, doc.Saving)
	assert.True(t, doc.Dirty)

	doc = planner.Reduce(doc, planner.MarkSaved{TemplateID: "64b000000000000000000001"})
	assert.False(t, doc.Saving)
	assert.False(t, doc.Dirty)
	assert.Equal(t, "64b000000000000000000001", doc.TemplateID)
}

func Test_MarkSaveError_Leaves_Document_Dirty(t *testing.T) {
	t.Parallel()

	doc := buildPlan(planner.AddMuscle{Day: 1, MuscleID: "chest"})
	doc = planner.Reduce(doc, planner.MarkSaving{})

	doc = planner.Reduce(doc, planner.MarkSaveError{})

	assert.False(t, doc.Saving)
	assert.True(t, doc.Dirty, "failed save must keep the document eligible for retry")
}

func Test_MarkPresetSaved_Only_Clears_Saving(t *testing.T) {
	t.Parallel()

	doc := buildPlan(planner.AddMuscle{Day: 1, MuscleID: "chest"})
	doc = planner.Reduce(doc, planner.MarkSaved{TemplateID: "abc"})
	doc = planner.Reduce(doc, planner.SetName{Name: "Push Pull"})
	doc = planner.Reduce(doc, planner.MarkSaving{})

	doc = planner.Reduce(doc, planner.MarkPresetSaved{})

	assert.False(t, doc.Saving)
	assert.True(t, doc.Dirty, "working copy stays dirty after a preset save")
	assert.Equal(t, "abc", doc.TemplateID, "preset save must not retarget the working record")
}

func Test_LoadTemplate_Resets_Flags(t *testing.T) {
	t.Parallel()

	dirty := buildPlan(planner.AddMuscle{Day: 1, MuscleID: "chest"})

	doc := planner.Reduce(dirty, planner.LoadTemplate{
		TemplateID: "64b000000000000000000002",
		Name:       "Hypertrophy Block",
		Slots: []planner.Slot{
			{ID: "s1", DayIndex: 0, MuscleID: "back", Sets: 4, RepMin: 8, RepMax: 12, SortOrder: 0},
		},
	})

	assert.False(t, doc.Dirty)
	assert.False(t, doc.Saving)
	assert.Equal(t, "Hypertrophy Block", doc.Name)
	assert.Equal(t, 0, doc.SelectedDay)
	require.Len(t, doc.Slots, 1)
}

func Test_LoadPreset_Marks_Dirty_And_Keeps_TemplateID(t *testing.T) {
	t.Parallel()

	doc := planner.Reduce(planner.NewDocument(), planner.MarkSaved{TemplateID: "abc"})

	preset := []planner.Slot{
		{ID: "p1", DayIndex: 0, MuscleID: "chest", Sets: 3, RepMin: 8, RepMax: 12, SortOrder: 0},
		{ID: "p2", DayIndex: 0, MuscleID: "back", Sets: 3, RepMin: 8, RepMax: 12, SortOrder: 1},
	}
	doc = planner.Reduce(doc, planner.LoadPreset{Slots: preset, Name: "Upper Body"})

	assert.True(t, doc.Dirty)
	assert.Equal(t, "abc", doc.TemplateID)
	assert.Equal(t, "Upper Body", doc.Name)
	if diff := cmp.Diff(preset, doc.Slots); diff != "" {
		t.Errorf("slots mismatch (-want +got):\n%s", diff)
	}
}

func Test_Reduce_Never_Mutates_Its_Input(t *testing.T) {
	t.Parallel()

	doc := buildPlan(
		planner.AddMuscle{Day: 1, MuscleID: "chest"},
		planner.AddMuscle{Day: 1, MuscleID: "back"},
	)
	snapshot := planner.Document{
		TemplateID:  doc.TemplateID,
		Name:        doc.Name,
		Description: doc.Description,
		Slots:       append([]planner.Slot{}, doc.Slots...),
		SelectedDay: doc.SelectedDay,
		Dirty:       doc.Dirty,
		Saving:      doc.Saving,
	}

	_ = planner.Reduce(doc, planner.SetSets{SlotID: doc.Slots[0].ID, Sets: 9})
	_ = planner.Reduce(doc, planner.Reorder{Day: 1, From: 0, To: 1})
	_ = planner.Reduce(doc, planner.ClearAll{})

	assert.True(t, doc.Equal(snapshot), "input document must be untouched")
}

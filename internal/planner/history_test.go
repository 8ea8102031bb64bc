package planner_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"peakform/coaching-app/internal/planner"
)

func Test_Undo_Restores_The_Previous_State(t *testing.T) {
	t.Parallel()

	h := planner.NewHistory(planner.NewDocument())
	before := h.Apply(planner.AddMuscle{Day: 1, MuscleID: "chest"})
	h.Apply(planner.AddMuscle{Day: 1, MuscleID: "back"})

	after := h.Apply(planner.Undo{})

	assert.True(t, before.Equal(after))
	assert.True(t, h.CanRedo())
}

func Test_Undo_On_Empty_History_Is_NoOp(t *testing.T) {
	t.Parallel()

	h := planner.NewHistory(planner.NewDocument())
	doc := h.Apply(planner.Undo{})

	assert.True(t, doc.Equal(planner.NewDocument()))
	assert.False(t, h.CanUndo())
	assert.False(t, h.CanRedo())
}

func Test_Redo_Reapplies_The_Undone_Edit(t *testing.T) {
	t.Parallel()

	h := planner.NewHistory(planner.NewDocument())
	h.Apply(planner.AddMuscle{Day: 1, MuscleID: "chest"})
	edited := h.Apply(planner.SetName{Name: "Push Day"})

	h.Apply(planner.Undo{})
	redone := h.Apply(planner.Redo{})

	assert.True(t, edited.Equal(redone))
	assert.False(t, h.CanRedo())
}

func Test_New_Edit_Clears_The_Redo_Stack(t *testing.T) {
	t.Parallel()

	h := planner.NewHistory(planner.NewDocument())
	h.Apply(planner.AddMuscle{Day: 1, MuscleID: "chest"})
	h.Apply(planner.AddMuscle{Day: 1, MuscleID: "back"})
	h.Apply(planner.Undo{})
	require.True(t, h.CanRedo())

	h.Apply(planner.AddMuscle{Day: 2, MuscleID: "quads"})

	assert.False(t, h.CanRedo(), "a real edit must invalidate redo")
}

func Test_NoOp_Actions_Do_Not_Pollute_History(t *testing.T) {
	t.Parallel()

	h := planner.NewHistory(planner.NewDocument())
	h.Apply(planner.AddMuscle{Day: 1, MuscleID: "chest"})
	require.True(t, h.CanUndo())

	// Duplicate add and unknown-slot edit both reduce to the same state.
	h.Apply(planner.AddMuscle{Day: 1, MuscleID: "chest"})
	h.Apply(planner.SetSets{SlotID: "missing", Sets: 5})

	h.Apply(planner.Undo{})
	assert.False(t, h.CanUndo(), "no-ops must not have pushed snapshots")
	assert.Empty(t, h.Current().Slots)
}

func Test_Exempt_Actions_Never_Push_Snapshots(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		action planner.Action
	}{
		{name: "SelectDay", action: planner.SelectDay{Day: 3}},
		{name: "MarkSaving", action: planner.MarkSaving{}},
		{name: "MarkSaved", action: planner.MarkSaved{TemplateID: "abc"}},
		{name: "MarkSaveError", action: planner.MarkSaveError{}},
		{name: "MarkPresetSaved", action: planner.MarkPresetSaved{}},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			h := planner.NewHistory(planner.NewDocument())
			h.Apply(testCase.action)

			assert.False(t, h.CanUndo())
		})
	}
}

func Test_Undo_Carries_Live_Saving_And_TemplateID_Forward(t *testing.T) {
	t.Parallel()

	h := planner.NewHistory(planner.NewDocument())
	h.Apply(planner.AddMuscle{Day: 1, MuscleID: "chest"})

	// A save completes after the edit: the snapshot on the past stack
	// predates both the template id and the saving flag.
	h.Apply(planner.MarkSaving{})
	h.Apply(planner.MarkSaved{TemplateID: "64b000000000000000000001"})
	h.Apply(planner.MarkSaving{})

	doc := h.Apply(planner.Undo{})

	assert.Empty(t, doc.Slots, "content must roll back")
	assert.Equal(t, "64b000000000000000000001", doc.TemplateID,
		"identity must not roll back with content")
	assert.True(t, doc.Saving, "in-flight save flag must survive undo")
}

func Test_History_Is_Bounded(t *testing.T) {
	t.Parallel()

	h := planner.NewHistory(planner.NewDocument())
	for i := 0; i < planner.HistoryLimit+10; i++ {
		h.Apply(planner.SetName{Name: fmt.Sprintf("rev %d", i)})
	}

	undos := 0
	for h.CanUndo() {
		h.Apply(planner.Undo{})
		undos++
	}

	assert.Equal(t, planner.HistoryLimit, undos)
	// The oldest reachable snapshot is rev 9, not the initial document.
	assert.Equal(t, "rev 9", h.Current().Name)
}

func Test_LoadTemplate_Clears_Both_Stacks(t *testing.T) {
	t.Parallel()

	h := planner.NewHistory(planner.NewDocument())
	h.Apply(planner.AddMuscle{Day: 1, MuscleID: "chest"})
	h.Apply(planner.AddMuscle{Day: 1, MuscleID: "back"})
	h.Apply(planner.Undo{})
	require.True(t, h.CanUndo())
	require.True(t, h.CanRedo())

	h.Apply(planner.LoadTemplate{TemplateID: "64b000000000000000000002", Name: "Other Plan"})

	assert.False(t, h.CanUndo(), "snapshots of the old record must be gone")
	assert.False(t, h.CanRedo())
}

func Test_Undo_Redo_Round_Trip_Is_Lossless(t *testing.T) {
	t.Parallel()

	h := planner.NewHistory(planner.NewDocument())
	states := []planner.Document{h.Current()}
	actions := []planner.Action{
		planner.AddMuscle{Day: 0, MuscleID: "chest"},
		planner.AddMuscle{Day: 0, MuscleID: "back"},
		planner.Reorder{Day: 0, From: 1, To: 0},
		planner.SetName{Name: "Upper"},
		planner.ClearAll{},
	}
	for _, a := range actions {
		states = append(states, h.Apply(a))
	}

	for i := len(states) - 2; i >= 0; i-- {
		got := h.Apply(planner.Undo{})
		require.True(t, states[i].Equal(got), "undo to state %d", i)
	}
	for i := 1; i < len(states); i++ {
		got := h.Apply(planner.Redo{})
		require.True(t, states[i].Equal(got), "redo to state %d", i)
	}
}

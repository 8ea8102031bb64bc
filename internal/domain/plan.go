// internal/domain/plan.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlanSlot is one muscle placement within a plan template as stored in the
// database. RepMin/RepMax and SlotID are pointers/optional because templates
// saved by older app versions predate those fields; the planner hydrates them
// before editing (see internal/planner/hydrate.go).
type PlanSlot struct {
	SlotID    string `bson:"slotId,omitempty" json:"id,omitempty"`
	DayIndex  int    `bson:"dayIndex" json:"dayIndex"`
	MuscleID  string `bson:"muscleId" json:"muscleId"`
	Sets      int    `bson:"sets" json:"sets"`
	RepMin    *int   `bson:"repMin,omitempty" json:"repMin,omitempty"`
	RepMax    *int   `bson:"repMax,omitempty" json:"repMax,omitempty"`
	SortOrder int    `bson:"sortOrder" json:"sortOrder"`
}

// PlanTemplate is a saved muscle plan. A preset is a template flagged as
// reusable: it shows up in the preset picker instead of the trainer's
// working plan list.
type PlanTemplate struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TrainerID   primitive.ObjectID `bson:"trainerId" json:"trainerId"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	IsPreset    bool               `bson:"isPreset" json:"isPreset"`
	Slots       []PlanSlot         `bson:"slots" json:"slots"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

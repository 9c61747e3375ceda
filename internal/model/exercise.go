package model

import (
	"time"
)

const (
	MuscleChest     = "chest"
	MuscleBack      = "back"
	MuscleLegs      = "legs"
	MuscleShoulders = "shoulders"
	MuscleArms      = "arms"
	MuscleCore      = "core"
	MuscleFullBody  = "full_body"
	MuscleCardio    = "cardio"
)

var MuscleGroups = []string{
	MuscleChest, MuscleBack, MuscleLegs, MuscleShoulders,
	MuscleArms, MuscleCore, MuscleFullBody, MuscleCardio,
}

func ValidMuscleGroup(g string) bool {
	for _, m := range MuscleGroups {
		if m == g {
			return true
		}
	}
	return false
}

// Exercise is a catalog entry; a nil OwnerID marks a global exercise.
type Exercise struct {
	ID          string    `db:"id" json:"id"`
	OwnerID     *string   `db:"owner_id" json:"owner_id,omitempty"`
	Name        string    `db:"name" json:"name"`
	SearchName  string    `db:"search_name" json:"-"`
	MuscleGroup string    `db:"muscle_group" json:"muscle_group"`
	Equipment   string    `db:"equipment" json:"equipment"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

func (e *Exercise) IsGlobal() bool {
	return e.OwnerID == nil
}

func (e *Exercise) OwnedBy(userID string) bool {
	return e.OwnerID != nil && *e.OwnerID == userID
}

package model

import (
	"math"
	"time"
)

const (
	WorkoutStrength = "strength"
	WorkoutCardio   = "cardio"
	WorkoutHIIT     = "hiit"
	WorkoutYoga     = "yoga"
	WorkoutOther    = "other"

	// DefaultWeightKg is used for calorie estimates when no weight is logged.
	DefaultWeightKg = 70.0
)

// metValues are metabolic equivalents per workout type.
var metValues = map[string]float64{
	WorkoutStrength: 5.0,
	WorkoutCardio:   8.0,
	WorkoutHIIT:     8.0,
	WorkoutYoga:     2.5,
	WorkoutOther:    4.0,
}

func ValidWorkoutType(t string) bool {
	_, ok := metValues[t]
	return ok
}

// EstimateCalories returns MET * kg * hours, rounded.
func EstimateCalories(workoutType string, weightKg float64, durationMin int) int {
	met, ok := metValues[workoutType]
	if !ok {
		met = metValues[WorkoutOther]
	}
	if weightKg <= 0 {
		weightKg = DefaultWeightKg
	}
	return int(math.Round(met * weightKg * float64(durationMin) / 60))
}

type Workout struct {
	ID             string    `db:"id" json:"id"`
	UserID         string    `db:"user_id" json:"-"`
	LogDate        string    `db:"log_date" json:"log_date"`
	Name           string    `db:"name" json:"name"`
	Type           string    `db:"type" json:"type"`
	DurationMin    int       `db:"duration_min" json:"duration_min"`
	CaloriesBurned int       `db:"calories_burned" json:"calories_burned"`
	Notes          string    `db:"notes" json:"notes"`
	PlanID         *string   `db:"plan_id" json:"plan_id,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`

	Exercises []*WorkoutExercise `db:"-" json:"exercises"`
	VolumeKg  float64            `db:"-" json:"volume_kg"`
}

type WorkoutExercise struct {
	ID          string  `db:"id" json:"id"`
	WorkoutID   string  `db:"workout_id" json:"-"`
	ExerciseID  *string `db:"exercise_id" json:"exercise_id,omitempty"`
	Name        string  `db:"name" json:"name"`
	Sets        int     `db:"sets" json:"sets"`
	Reps        int     `db:"reps" json:"reps"`
	WeightKg    float64 `db:"weight_kg" json:"weight_kg"`
	DurationSec int     `db:"duration_sec" json:"duration_sec"`
	SortOrder   int     `db:"sort_order" json:"sort_order"`
}

// Volume is the total lifted load, sets * reps * weight.
func (w *Workout) Volume() float64 {
	var v float64
	for _, e := range w.Exercises {
		v += float64(e.Sets*e.Reps) * e.WeightKg
	}
	return round1(v)
}

// WorkoutSummary aggregates workouts over a window.
type WorkoutSummary struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Count    int    `json:"count"`
	Minutes  int    `json:"minutes"`
	Calories int    `json:"calories"`
}

func NewWorkoutSummary(from, to string, workouts []*Workout) *WorkoutSummary {
	s := &WorkoutSummary{From: from, To: to, Count: len(workouts)}
	for _, w := range workouts {
		s.Minutes += w.DurationMin
		s.Calories += w.CaloriesBurned
	}
	return s
}

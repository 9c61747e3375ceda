package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/fittrack/internal/model"
	"github.com/templui/fittrack/internal/repository"
	"github.com/templui/fittrack/internal/testutil"
	"github.com/templui/fittrack/internal/validation"
)

func TestWorkoutCalorieEstimate(t *testing.T) {
	s := newServices(t, 10)
	user := testutil.CreateUser(t, s.conn, "ana@example.com", model.RoleUser)

	in := WorkoutInput{LogDate: "2026-03-02", Name: "Leg day", Type: model.WorkoutStrength, DurationMin: 60}
	workout, err := s.workouts.Create(user, in)
	require.NoError(t, err)
	assert.Equal(t, 350, workout.CaloriesBurned)

	_, err = s.weights.Log(user.ID, WeightInput{LogDate: "2026-03-01", Weight: 80})
	require.NoError(t, err)
	workout, err = s.workouts.Create(user, in)
	require.NoError(t, err)
	assert.Equal(t, 400, workout.CaloriesBurned)

	in.CaloriesBurned = ptr(123)
	workout, err = s.workouts.Create(user, in)
	require.NoError(t, err)
	assert.Equal(t, 123, workout.CaloriesBurned)

	week, err := s.workouts.Week(user.ID, "2026-03-04")
	require.NoError(t, err)
	assert.Equal(t, 3, week.Count)
	assert.Equal(t, 180, week.Minutes)
	assert.Equal(t, 873, week.Calories)
	assert.Equal(t, "2026-02-26", week.From)
}

func TestWorkoutExercises(t *testing.T) {
	s := newServices(t, 10)
	user := testutil.CreateUser(t, s.conn, "ana@example.com", model.RoleUser)
	other := testutil.CreateUser(t, s.conn, "ben@example.com", model.RoleUser)

	squat, err := s.exercises.Create(user, ExerciseInput{Name: "back squat", MuscleGroup: model.MuscleLegs})
	require.NoError(t, err)
	assert.Equal(t, "Back Squat", squat.Name)

	workout, err := s.workouts.Create(user, WorkoutInput{
		LogDate: "2026-03-02",
		Name:    "Legs",
		Exercises: []WorkoutLineInput{
			{ExerciseID: &squat.ID, Sets: 5, Reps: 5, WeightKg: 100},
			{Name: "Walking lunge", Sets: 3, Reps: 12, WeightKg: 20},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, model.WorkoutOther, workout.Type)
	require.Len(t, workout.Exercises, 2)
	assert.Equal(t, "Back Squat", workout.Exercises[0].Name)
	assert.Equal(t, 3220.0, workout.VolumeKg)

	stored, err := s.workouts.Get(user.ID, workout.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Exercises, 2)

	_, err = s.workouts.Create(other, WorkoutInput{
		LogDate:   "2026-03-02",
		Name:      "Borrowed",
		Exercises: []WorkoutLineInput{{ExerciseID: &squat.ID, Sets: 1, Reps: 1}},
	})
	verr, ok := validation.As(err)
	require.True(t, ok)
	assert.Equal(t, "exercises[0].exercise_id", verr.Field)

	updated, err := s.workouts.Update(user, workout.ID, WorkoutInput{LogDate: "2026-03-03", Name: "Legs", Type: model.WorkoutHIIT, DurationMin: 30})
	require.NoError(t, err)
	assert.Empty(t, updated.Exercises)
	assert.Equal(t, 280, updated.CaloriesBurned)

	_, err = s.workouts.Get(other.ID, workout.ID)
	assert.ErrorIs(t, err, repository.ErrWorkoutNotFound)

	require.NoError(t, s.workouts.Delete(user.ID, workout.ID))
	list, err := s.workouts.List(user.ID, "2026-03-01", "2026-03-31")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestWorkoutValidation(t *testing.T) {
	s := newServices(t, 10)
	user := testutil.CreateUser(t, s.conn, "ana@example.com", model.RoleUser)

	_, err := s.workouts.Create(user, WorkoutInput{LogDate: "2026-03-02", Name: "Swim", Type: "swimming"})
	verr, ok := validation.As(err)
	require.True(t, ok)
	assert.Equal(t, "type", verr.Field)

	_, err = s.workouts.Create(user, WorkoutInput{LogDate: "2026-03-02", Name: " "})
	verr, ok = validation.As(err)
	require.True(t, ok)
	assert.Equal(t, "name", verr.Field)
}

package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/fittrack/internal/model"
	"github.com/templui/fittrack/internal/testutil"
	"github.com/templui/fittrack/internal/validation"
)

func TestGoalLimit(t *testing.T) {
	s := newServices(t, 2)
	user := testutil.CreateUser(t, s.conn, "ana@example.com", model.RoleUser)

	first, err := s.goals.Create(user.ID, GoalInput{Type: model.GoalDailyCalories, TargetValue: 2200})
	require.NoError(t, err)
	assert.Equal(t, "Daily calories", first.Title)
	assert.Equal(t, model.Today(), first.StartDate)

	_, err = s.goals.Create(user.ID, GoalInput{Type: model.GoalWeeklyWorkouts, TargetValue: 4})
	require.NoError(t, err)

	_, err = s.goals.Create(user.ID, GoalInput{Type: model.GoalDailyProtein, TargetValue: 150})
	assert.ErrorIs(t, err, ErrGoalLimitReached)

	_, err = s.goals.Update(user.ID, first.ID, GoalUpdate{Status: ptr(model.GoalStatusAbandoned)})
	require.NoError(t, err)
	third, err := s.goals.Create(user.ID, GoalInput{Type: model.GoalDailyProtein, TargetValue: 150})
	require.NoError(t, err)

	_, err = s.goals.Update(user.ID, first.ID, GoalUpdate{Status: ptr(model.GoalStatusActive)})
	assert.ErrorIs(t, err, ErrGoalLimitReached)

	active, err := s.goals.List(user.ID, model.GoalStatusActive)
	require.NoError(t, err)
	assert.Len(t, active, 2)

	require.NoError(t, s.goals.Delete(user.ID, third.ID))
	all, err := s.goals.List(user.ID, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = s.goals.List(user.ID, "paused")
	assert.Error(t, err)
}

func TestGoalUnlimited(t *testing.T) {
	s := newServices(t, -1)
	user := testutil.CreateUser(t, s.conn, "ana@example.com", model.RoleUser)

	for i := 0; i < 5; i++ {
		_, err := s.goals.Create(user.ID, GoalInput{Type: model.GoalWeeklyWorkouts, TargetValue: 3})
		require.NoError(t, err)
	}
}

func TestGoalValidation(t *testing.T) {
	s := newServices(t, 10)
	user := testutil.CreateUser(t, s.conn, "ana@example.com", model.RoleUser)

	tests := []struct {
		name  string
		in    GoalInput
		field string
	}{
		{"type", GoalInput{Type: "bench_press", TargetValue: 100}, "type"},
		{"weight target", GoalInput{Type: model.GoalTargetWeight, TargetValue: 5}, "target_value"},
		{"workouts target", GoalInput{Type: model.GoalWeeklyWorkouts, TargetValue: 30}, "target_value"},
		{"target date", GoalInput{Type: model.GoalDailyCalories, TargetValue: 2000, StartDate: "2026-03-10", TargetDate: ptr("2026-03-01")}, "target_date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.goals.Create(user.ID, tt.in)
			verr, ok := validation.As(err)
			require.True(t, ok)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestGoalProgress(t *testing.T) {
	s := newServices(t, 10)
	user := testutil.CreateUser(t, s.conn, "ana@example.com", model.RoleUser)

	calories, err := s.goals.Create(user.ID, GoalInput{Type: model.GoalDailyCalories, TargetValue: 2000, StartDate: "2026-03-01"})
	require.NoError(t, err)
	_, err = s.meals.Create(user, MealInput{LogDate: "2026-03-02", MealType: model.MealLunch, Name: "Pasta", Calories: ptr(500.0)})
	require.NoError(t, err)

	p, err := s.goals.Progress(user.ID, calories.ID, "2026-03-02")
	require.NoError(t, err)
	require.NotNil(t, p.Current)
	assert.Equal(t, 500.0, *p.Current)
	assert.Equal(t, 25.0, p.Percent)
	assert.Equal(t, "kcal", p.Unit)
	assert.False(t, p.Reached)

	_, err = s.weights.Log(user.ID, WeightInput{LogDate: "2026-03-01", Weight: 90})
	require.NoError(t, err)
	weight, err := s.goals.Create(user.ID, GoalInput{Type: model.GoalTargetWeight, TargetValue: 80, StartDate: "2026-03-01"})
	require.NoError(t, err)
	require.NotNil(t, weight.StartValue)
	assert.Equal(t, 90.0, *weight.StartValue)

	_, err = s.weights.Log(user.ID, WeightInput{LogDate: "2026-03-15", Weight: 85})
	require.NoError(t, err)
	p, err = s.goals.Progress(user.ID, weight.ID, "2026-03-15")
	require.NoError(t, err)
	assert.Equal(t, 50.0, p.Percent)
	assert.Equal(t, model.GoalStatusActive, p.Goal.Status)

	_, err = s.weights.Log(user.ID, WeightInput{LogDate: "2026-04-01", Weight: 79.5})
	require.NoError(t, err)
	progress, err := s.goals.ActiveProgress(user.ID, "2026-04-01")
	require.NoError(t, err)
	require.Len(t, progress, 2)

	completed, err := s.goals.Get(user.ID, weight.ID)
	require.NoError(t, err)
	assert.Equal(t, model.GoalStatusCompleted, completed.Status)

	active, err := s.goals.List(user.ID, model.GoalStatusActive)
	require.NoError(t, err)
	assert.Len(t, active, 1)
}

func TestTargetWeightGoalStartsFromFirstLog(t *testing.T) {
	s := newServices(t, 10)
	user := testutil.CreateUser(t, s.conn, "ana@example.com", model.RoleUser)

	goal, err := s.goals.Create(user.ID, GoalInput{Type: model.GoalTargetWeight, TargetValue: 70, StartDate: "2026-03-01"})
	require.NoError(t, err)
	assert.Nil(t, goal.StartValue)

	_, err = s.weights.Log(user.ID, WeightInput{LogDate: "2026-03-02", Weight: 80})
	require.NoError(t, err)
	_, err = s.weights.Log(user.ID, WeightInput{LogDate: "2026-03-10", Weight: 71})
	require.NoError(t, err)

	p, err := s.goals.Progress(user.ID, goal.ID, "2026-03-10")
	require.NoError(t, err)
	assert.Equal(t, 90.0, p.Percent)
	assert.False(t, p.Reached)

	stored, err := s.goals.Get(user.ID, goal.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.StartValue)
	assert.Equal(t, 80.0, *stored.StartValue)

	_, err = s.weights.Log(user.ID, WeightInput{LogDate: "2026-03-20", Weight: 69.8})
	require.NoError(t, err)
	p, err = s.goals.Progress(user.ID, goal.ID, "2026-03-20")
	require.NoError(t, err)
	assert.Equal(t, 100.0, p.Percent)
	assert.True(t, p.Reached)

	stored, err = s.goals.Get(user.ID, goal.ID)
	require.NoError(t, err)
	assert.Equal(t, model.GoalStatusCompleted, stored.Status)
}

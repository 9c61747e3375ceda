package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/fittrack/internal/model"
	"github.com/templui/fittrack/internal/testutil"
	"github.com/templui/fittrack/internal/validation"
)

func widgetIDs(layout []*model.WidgetSlot) []string {
	ids := make([]string, len(layout))
	for i, slot := range layout {
		ids[i] = slot.Widget
	}
	return ids
}

func TestDashboardLayout(t *testing.T) {
	s := newServices(t, 10)
	user := testutil.CreateUser(t, s.conn, "ana@example.com", model.RoleUser)

	layout, err := s.dashboard.Layout(user.ID)
	require.NoError(t, err)
	assert.Equal(t, model.Widgets, widgetIDs(layout))

	moved, err := s.dashboard.MoveWidget(user.ID, 0, 5)
	require.NoError(t, err)
	assert.Equal(t, model.WidgetMacros, moved[0].Widget)
	assert.Equal(t, model.WidgetCalories, moved[5].Widget)

	stored, err := s.dashboard.Layout(user.ID)
	require.NoError(t, err)
	assert.Equal(t, widgetIDs(moved), widgetIDs(stored))

	_, err = s.dashboard.MoveWidget(user.ID, 0, 6)
	verr, ok := validation.As(err)
	require.True(t, ok)
	assert.Equal(t, "index", verr.Field)

	_, err = s.dashboard.SaveLayout(user.ID, LayoutInput{Widgets: []*model.WidgetSlot{{Widget: model.WidgetGoals, Visible: true}}})
	verr, ok = validation.As(err)
	require.True(t, ok)
	assert.Equal(t, "widgets", verr.Field)

	reversed := make([]*model.WidgetSlot, len(model.Widgets))
	for i, w := range model.Widgets {
		reversed[len(model.Widgets)-1-i] = &model.WidgetSlot{Widget: w, Visible: w != model.WidgetRecipes}
	}
	saved, err := s.dashboard.SaveLayout(user.ID, LayoutInput{Widgets: reversed})
	require.NoError(t, err)
	assert.Equal(t, model.WidgetRecipes, saved[0].Widget)
	assert.False(t, saved[0].Visible)

	stored, err = s.dashboard.Layout(user.ID)
	require.NoError(t, err)
	assert.Equal(t, model.WidgetRecipes, stored[0].Widget)
	assert.False(t, stored[0].Visible)
}

func TestDashboard(t *testing.T) {
	s := newServices(t, 10)
	user := testutil.CreateUser(t, s.conn, "ana@example.com", model.RoleUser)
	today := model.Today()

	empty, err := s.dashboard.Dashboard(user.ID, "")
	require.NoError(t, err)
	assert.Equal(t, today, empty.Date)
	assert.Nil(t, empty.CalorieTarget)
	assert.Nil(t, empty.LatestWeight)
	assert.Equal(t, 0, empty.Workouts.Count)
	assert.Empty(t, empty.Goals)

	birth := model.FormatDate(time.Now().AddDate(-30, 0, -1))
	_, err = s.users.UpdateProfile(user.ID, ProfileUpdate{
		Sex:           ptr(model.SexMale),
		BirthDate:     &birth,
		HeightCm:      ptr(180.0),
		ActivityLevel: ptr(model.ActivitySedentary),
	})
	require.NoError(t, err)
	_, err = s.weights.Log(user.ID, WeightInput{LogDate: model.AddDays(today, -3), Weight: 80})
	require.NoError(t, err)
	_, err = s.meals.Create(user, MealInput{LogDate: today, MealType: model.MealDinner, Name: "Steak", Calories: ptr(700.0), ProteinG: 60})
	require.NoError(t, err)
	_, err = s.workouts.Create(user, WorkoutInput{LogDate: today, Name: "Run", Type: model.WorkoutCardio, DurationMin: 30})
	require.NoError(t, err)

	d, err := s.dashboard.Dashboard(user.ID, today)
	require.NoError(t, err)
	require.NotNil(t, d.CalorieTarget)
	assert.Equal(t, 2136.0, *d.CalorieTarget)
	assert.Equal(t, 700.0, d.Nutrition.Calories)
	require.NotNil(t, d.LatestWeight)
	assert.Equal(t, 80.0, d.LatestWeight.WeightKg)
	assert.Equal(t, 1, d.Workouts.Count)
	assert.Equal(t, 320, d.Workouts.Calories)
	assert.Len(t, d.Layout, len(model.Widgets))

	_, err = s.goals.Create(user.ID, GoalInput{Type: model.GoalDailyCalories, TargetValue: 1800})
	require.NoError(t, err)
	d, err = s.dashboard.Dashboard(user.ID, today)
	require.NoError(t, err)
	assert.Equal(t, 1800.0, *d.CalorieTarget)
	require.Len(t, d.Goals, 1)

	_, err = s.dashboard.Dashboard(user.ID, "yesterday")
	assert.Error(t, err)
}

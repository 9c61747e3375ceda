package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGoalProgress(t *testing.T) {
	t.Run("daily calories", func(t *testing.T) {
		g := &Goal{Type: GoalDailyCalories, TargetValue: 2000}
		p := NewGoalProgress(g, "2026-03-01", ptr(1500.0))
		assert.Equal(t, 75.0, p.Percent)
		assert.False(t, p.Reached)
		assert.Equal(t, "kcal", p.Unit)
	})

	t.Run("weight loss", func(t *testing.T) {
		g := &Goal{Type: GoalTargetWeight, TargetValue: 80, StartValue: ptr(90.0)}
		p := NewGoalProgress(g, "2026-03-01", ptr(85.0))
		assert.Equal(t, 50.0, p.Percent)
		assert.False(t, p.Reached)

		p = NewGoalProgress(g, "2026-03-01", ptr(79.5))
		assert.Equal(t, 100.0, p.Percent)
		assert.True(t, p.Reached)

		p = NewGoalProgress(g, "2026-03-01", ptr(92.0))
		assert.Equal(t, 0.0, p.Percent)
	})

	t.Run("weight gain", func(t *testing.T) {
		g := &Goal{Type: GoalTargetWeight, TargetValue: 70, StartValue: ptr(60.0)}
		p := NewGoalProgress(g, "2026-03-01", ptr(62.5))
		assert.Equal(t, 25.0, p.Percent)
	})

	t.Run("no data", func(t *testing.T) {
		g := &Goal{Type: GoalWeeklyWorkouts, TargetValue: 3}
		p := NewGoalProgress(g, "2026-03-01", nil)
		assert.Nil(t, p.Current)
		assert.Zero(t, p.Percent)
	})
}

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMealDay(t *testing.T) {
	entries := []*MealEntry{
		{MealType: MealBreakfast, Calories: 300, ProteinG: 20.04},
		{MealType: MealBreakfast, Calories: 150, ProteinG: 5.03},
		{MealType: MealDinner, Calories: 700.4, FatG: 30},
	}

	day := NewMealDay("2026-03-01", entries)

	assert.Equal(t, 3, day.Entries)
	assert.Len(t, day.Meals[MealBreakfast], 2)
	assert.Empty(t, day.Meals[MealLunch])
	assert.Equal(t, 1150.0, day.Totals.Calories)
	assert.Equal(t, 25.1, day.Totals.ProteinG)
	assert.Equal(t, 450.0, day.ByMeal[MealBreakfast].Calories)
}

func TestDailyTotalsFillsGaps(t *testing.T) {
	entries := []*MealEntry{
		{LogDate: "2026-02-27", Calories: 2000},
		{LogDate: "2026-03-01", Calories: 1500},
		{LogDate: "2026-03-01", Calories: 250},
	}

	totals := DailyTotals("2026-02-27", "2026-03-01", entries)

	require.Len(t, totals, 3)
	assert.Equal(t, "2026-02-28", totals[1].Date)
	assert.Zero(t, totals[1].Calories)
	assert.Equal(t, 1750.0, totals[2].Calories)
}

func TestDaysBetween(t *testing.T) {
	n, err := DaysBetween("2026-01-01", "2026-01-31")
	require.NoError(t, err)
	assert.Equal(t, 31, n)

	_, err = DaysBetween("2026-1-1", "2026-01-31")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

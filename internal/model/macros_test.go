package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T {
	return &v
}

func TestToGrams(t *testing.T) {
	tests := []struct {
		name     string
		quantity float64
		unit     string
		serving  *float64
		want     float64
		wantErr  error
	}{
		{"grams", 150, UnitGram, nil, 150, nil},
		{"kilograms", 0.5, UnitKilogram, nil, 500, nil},
		{"ounces", 2, UnitOunce, nil, 56.69904625, nil},
		{"pounds", 1, UnitPound, nil, 453.59237, nil},
		{"cup", 0.5, UnitCup, nil, 120, nil},
		{"tablespoons", 2, UnitTablespoon, nil, 30, nil},
		{"servings", 1.5, UnitServing, ptr(40.0), 60, nil},
		{"serving without size", 1, UnitServing, nil, 0, ErrNoServingSize},
		{"unknown unit", 1, "handful", nil, 0, ErrUnknownUnit},
		{"zero quantity", 0, UnitGram, nil, 0, ErrInvalidQuantity},
		{"negative quantity", -3, UnitGram, nil, 0, ErrInvalidQuantity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToGrams(tt.quantity, tt.unit, tt.serving)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestFoodMacrosFor(t *testing.T) {
	oats := &Food{
		Name:     "Rolled oats",
		Calories: 379,
		ProteinG: 13.15,
		CarbsG:   67.7,
		FatG:     6.52,
		FiberG:   10.1,
		ServingG: ptr(40.0),
	}

	grams, macros, err := oats.MacrosFor(1, UnitServing)
	require.NoError(t, err)
	assert.Equal(t, 40.0, grams)
	assert.Equal(t, Macros{Calories: 152, ProteinG: 5.3, CarbsG: 27.1, FatG: 2.6, FiberG: 4}, macros)

	grams, macros, err = oats.MacrosFor(2, UnitOunce)
	require.NoError(t, err)
	assert.Equal(t, 56.7, grams)
	assert.Equal(t, 215.0, macros.Calories)
}

func TestMacrosAddScale(t *testing.T) {
	a := Macros{Calories: 100, ProteinG: 10, CarbsG: 5, FatG: 2, FiberG: 1}
	b := Macros{Calories: 50, ProteinG: 1.25}

	assert.Equal(t, Macros{Calories: 150, ProteinG: 11.25, CarbsG: 5, FatG: 2, FiberG: 1}, a.Add(b))
	assert.Equal(t, Macros{Calories: 50, ProteinG: 5, CarbsG: 2.5, FatG: 1, FiberG: 0.5}, a.Scale(0.5))
	assert.Equal(t, Macros{Calories: 150, ProteinG: 11.3, CarbsG: 5, FatG: 2, FiberG: 1}, a.Add(b).Rounded())
}

func TestRecipeComputeMacros(t *testing.T) {
	foods := map[string]*Food{
		"rice":    {ID: "rice", Name: "Rice", Calories: 130, ProteinG: 2.7, CarbsG: 28, FatG: 0.3},
		"chicken": {ID: "chicken", Name: "Chicken breast", Calories: 165, ProteinG: 31, FatG: 3.6},
	}
	r := &Recipe{
		Servings: 2,
		Ingredients: []*RecipeIngredient{
			{FoodID: "rice", Quantity: 300, Unit: UnitGram},
			{FoodID: "chicken", Quantity: 0.4, Unit: UnitKilogram},
			{FoodID: "missing", Quantity: 10, Unit: UnitGram},
		},
	}

	r.ComputeMacros(foods)
	assert.Equal(t, 1050.0, r.Total.Calories)
	assert.Equal(t, 525.0, r.PerServing.Calories)
	assert.Equal(t, "Chicken breast", r.Ingredients[1].FoodName)
	assert.Equal(t, 400.0, r.Ingredients[1].Grams)
	assert.Empty(t, r.Ingredients[2].FoodName)
	assert.True(t, r.Ingredients[2].Unresolved)
	assert.False(t, r.Ingredients[0].Unresolved)
}

func TestRecipeComputeMacrosUnconvertibleUnit(t *testing.T) {
	foods := map[string]*Food{
		"oats": {ID: "oats", Name: "Oats", Calories: 380},
	}
	r := &Recipe{
		Servings: 1,
		Ingredients: []*RecipeIngredient{
			{FoodID: "oats", Quantity: 100, Unit: UnitGram},
			{FoodID: "oats", Quantity: 1, Unit: UnitServing},
		},
	}

	r.ComputeMacros(foods)
	assert.Equal(t, 380.0, r.Total.Calories)
	assert.True(t, r.Ingredients[1].Unresolved)
	assert.Equal(t, "Oats", r.Ingredients[1].FoodName)
	assert.Zero(t, r.Ingredients[1].Grams)
}

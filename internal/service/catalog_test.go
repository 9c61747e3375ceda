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

func TestFoodCreateAndSearch(t *testing.T) {
	s := newServices(t, 10)
	user := testutil.CreateUser(t, s.conn, "ana@example.com", model.RoleUser)
	admin := testutil.CreateUser(t, s.conn, "admin@example.com", model.RoleAdmin)

	_, err := s.foods.Create(user, FoodInput{Name: "Skyr", Calories: 63, ProteinG: 11, Global: true})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = s.foods.Create(user, FoodInput{Name: "Impossible", ProteinG: 60, CarbsG: 50})
	verr, ok := validation.As(err)
	require.True(t, ok)
	assert.Equal(t, "macros", verr.Field)

	_, err = s.foods.Create(user, FoodInput{Name: "Skyr", ServingG: ptr(0.0)})
	verr, ok = validation.As(err)
	require.True(t, ok)
	assert.Equal(t, "serving_g", verr.Field)

	own, err := s.foods.Create(user, FoodInput{Name: "  Crème Brûlée ", Calories: 290, FatG: 22, CarbsG: 21, ProteinG: 4})
	require.NoError(t, err)
	assert.Equal(t, "Crème Brûlée", own.Name)
	require.NotNil(t, own.OwnerID)

	global, err := s.foods.Create(admin, FoodInput{Name: "Creme Caramel", Calories: 140, Global: true})
	require.NoError(t, err)
	assert.True(t, global.IsGlobal())

	other := testutil.CreateUser(t, s.conn, "bo@example.com", model.RoleUser)
	hidden := testutil.CreateFood(t, s.conn, other, "Creme Secret", model.Macros{Calories: 100}, nil)

	found, err := s.foods.Search(user.ID, "CREME", 0)
	require.NoError(t, err)
	var names []string
	for _, f := range found {
		names = append(names, f.Name)
	}
	assert.ElementsMatch(t, []string{"Crème Brûlée", "Creme Caramel"}, names)

	_, err = s.foods.Get(user, hidden.ID)
	assert.ErrorIs(t, err, repository.ErrFoodNotFound)

	got, err := s.foods.Get(admin, hidden.ID)
	require.NoError(t, err)
	assert.Equal(t, hidden.ID, got.ID)
}

func TestFoodUpdateDelete(t *testing.T) {
	s := newServices(t, 10)
	user := testutil.CreateUser(t, s.conn, "ana@example.com", model.RoleUser)
	admin := testutil.CreateUser(t, s.conn, "admin@example.com", model.RoleAdmin)
	global := testutil.CreateFood(t, s.conn, nil, "Banana", model.Macros{Calories: 89, CarbsG: 23}, ptr(118.0))

	_, err := s.foods.Update(user, global.ID, FoodInput{Name: "Banana", Calories: 1})
	assert.ErrorIs(t, err, ErrForbidden)
	assert.ErrorIs(t, s.foods.Delete(user, global.ID), ErrForbidden)

	updated, err := s.foods.Update(admin, global.ID, FoodInput{Name: "Banana, Ripe", Calories: 92, CarbsG: 23})
	require.NoError(t, err)
	assert.Equal(t, "Banana, Ripe", updated.Name)
	assert.True(t, updated.IsGlobal())

	own, err := s.foods.Create(user, FoodInput{Name: "Protein Bar", Calories: 350, ProteinG: 30, CarbsG: 35, FatG: 10})
	require.NoError(t, err)
	require.NoError(t, s.foods.Delete(user, own.ID))

	_, err = s.foods.Get(user, own.ID)
	assert.ErrorIs(t, err, repository.ErrFoodNotFound)
}

func TestFoodSeedGlobal(t *testing.T) {
	s := newServices(t, 10)
	seed := []FoodInput{
		{Name: "Apple", Calories: 52, CarbsG: 14, FiberG: 2.4, ServingG: ptr(182.0)},
		{Name: "Almonds", Calories: 579, ProteinG: 21, CarbsG: 22, FatG: 50},
	}

	added, err := s.foods.SeedGlobal(seed)
	require.NoError(t, err)
	assert.Equal(t, 2, added)

	added, err = s.foods.SeedGlobal(append(seed, FoodInput{Name: "Banana", Calories: 89, CarbsG: 23}))
	require.NoError(t, err)
	assert.Equal(t, 1, added)

	_, err = s.foods.SeedGlobal([]FoodInput{{Name: ""}})
	assert.Error(t, err)
}

func TestExerciseCatalog(t *testing.T) {
	s := newServices(t, 10)
	user := testutil.CreateUser(t, s.conn, "ana@example.com", model.RoleUser)
	other := testutil.CreateUser(t, s.conn, "bo@example.com", model.RoleUser)

	added, err := s.exercises.SeedGlobal([]ExerciseInput{
		{Name: "bench press", MuscleGroup: model.MuscleChest, Equipment: "barbell"},
		{Name: "Back Squat", MuscleGroup: model.MuscleLegs, Equipment: "barbell"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, added)

	added, err = s.exercises.SeedGlobal([]ExerciseInput{{Name: "Bench Press", MuscleGroup: model.MuscleChest}})
	require.NoError(t, err)
	assert.Zero(t, added)

	_, err = s.exercises.Create(user, ExerciseInput{Name: "Dips", MuscleGroup: "triceps"})
	verr, ok := validation.As(err)
	require.True(t, ok)
	assert.Equal(t, "muscle_group", verr.Field)

	_, err = s.exercises.Create(user, ExerciseInput{Name: "Dips", MuscleGroup: model.MuscleArms, Global: true})
	assert.ErrorIs(t, err, ErrForbidden)

	press, err := s.exercises.Create(user, ExerciseInput{Name: "incline press", MuscleGroup: model.MuscleChest})
	require.NoError(t, err)
	assert.Equal(t, "Incline Press", press.Name)

	chest, err := s.exercises.Search(user.ID, "press", model.MuscleChest)
	require.NoError(t, err)
	assert.Len(t, chest, 2)

	chest, err = s.exercises.Search(other.ID, "press", model.MuscleChest)
	require.NoError(t, err)
	assert.Len(t, chest, 1)

	_, err = s.exercises.Search(user.ID, "", "wings")
	verr, ok = validation.As(err)
	require.True(t, ok)
	assert.Equal(t, "muscle_group", verr.Field)

	assert.ErrorIs(t, s.exercises.Delete(other, press.ID), repository.ErrExerciseNotFound)
	require.NoError(t, s.exercises.Delete(user, press.ID))

	legs, err := s.exercises.Search(user.ID, "", model.MuscleLegs)
	require.NoError(t, err)
	require.Len(t, legs, 1)
	assert.ErrorIs(t, s.exercises.Delete(user, legs[0].ID), ErrForbidden)
}

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/fittrack/internal/model"
	"github.com/templui/fittrack/internal/repository"
	"github.com/templui/fittrack/internal/testutil"
	"github.com/templui/fittrack/internal/validation"
)

func TestRecipeMacros(t *testing.T) {
	s := newServices(t, 10)
	ctx := context.Background()
	user := testutil.CreateUser(t, s.conn, "ana@example.com", model.RoleUser)
	food := testutil.CreateFood(t, s.conn, nil, "Rolled oats", oats, nil)
	milk := testutil.CreateFood(t, s.conn, user, "Oat milk", model.Macros{Calories: 50, ProteinG: 1, CarbsG: 7, FatG: 2}, nil)

	recipe, err := s.recipes.Create(ctx, user.ID, RecipeInput{
		Name:         "  Overnight oats ",
		Servings:     2,
		Instructions: "Mix **well**.",
		Ingredients: []IngredientInput{
			{FoodID: food.ID, Quantity: 100, Unit: model.UnitGram},
			{FoodID: milk.ID, Quantity: 1, Unit: model.UnitCup},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Overnight oats", recipe.Name)
	assert.Equal(t, 500.0, recipe.Total.Calories)
	assert.Equal(t, 250.0, recipe.PerServing.Calories)
	assert.Contains(t, recipe.InstructionsHTML, "<strong>well</strong>")
	assert.Empty(t, recipe.ImageURL)

	list, err := s.recipes.List(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Oat milk", list[0].Ingredients[1].FoodName)

	other := testutil.CreateUser(t, s.conn, "ben@example.com", model.RoleUser)
	_, err = s.recipes.Detail(ctx, other.ID, recipe.ID)
	assert.ErrorIs(t, err, repository.ErrRecipeNotFound)

	_, err = s.recipes.Create(ctx, other.ID, RecipeInput{
		Name:        "Stolen",
		Ingredients: []IngredientInput{{FoodID: milk.ID, Quantity: 1, Unit: model.UnitCup}},
	})
	verr, ok := validation.As(err)
	require.True(t, ok)
	assert.Equal(t, "ingredients[0].food_id", verr.Field)

	_, err = s.recipes.Update(ctx, user.ID, recipe.ID, RecipeInput{
		Name:        "Overnight oats",
		Ingredients: []IngredientInput{{FoodID: food.ID, Quantity: 1, Unit: model.UnitServing}},
	})
	verr, ok = validation.As(err)
	require.True(t, ok)
	assert.Equal(t, "ingredients[0].unit", verr.Field)
}

func TestRecipeImport(t *testing.T) {
	s := newServices(t, 10)
	ctx := context.Background()
	user := testutil.CreateUser(t, s.conn, "ana@example.com", model.RoleUser)
	testutil.CreateFood(t, s.conn, nil, "Crème Fraîche", model.Macros{Calories: 290, FatG: 30, CarbsG: 3, ProteinG: 2}, nil)

	src := `---
name: Dip
servings: 4
ingredients:
  - food: creme fraiche
    quantity: 200
    unit: g
---
Stir and chill.
`
	recipe, err := s.recipes.Import(ctx, user.ID, []byte(src))
	require.NoError(t, err)
	assert.Equal(t, "Dip", recipe.Name)
	assert.Equal(t, 4, recipe.Servings)
	require.Len(t, recipe.Ingredients, 1)
	assert.Equal(t, "Crème Fraîche", recipe.Ingredients[0].FoodName)
	assert.Equal(t, 580.0, recipe.Total.Calories)

	_, err = s.recipes.Import(ctx, user.ID, []byte("# no frontmatter"))
	verr, ok := validation.As(err)
	require.True(t, ok)
	assert.Equal(t, "document", verr.Field)

	unknown := "---\nname: Mystery\ningredients:\n  - food: unobtainium\n    quantity: 1\n    unit: g\n---\n"
	_, err = s.recipes.Import(ctx, user.ID, []byte(unknown))
	verr, ok = validation.As(err)
	require.True(t, ok)
	assert.Equal(t, "ingredients[0].food", verr.Field)
}

func TestRecipeImage(t *testing.T) {
	s := newServices(t, 10)
	ctx := context.Background()
	user := testutil.CreateUser(t, s.conn, "ana@example.com", model.RoleUser)

	recipe, err := s.recipes.Create(ctx, user.ID, RecipeInput{Name: "Water"})
	require.NoError(t, err)

	_, err = s.recipes.UploadImage(ctx, user.ID, recipe.ID, upload(t, "image", "notes.txt", []byte("plain text")))
	verr, ok := validation.As(err)
	require.True(t, ok)
	assert.Equal(t, "image", verr.Field)

	withImage, err := s.recipes.UploadImage(ctx, user.ID, recipe.ID, upload(t, "image", "glass.png", pngHeader))
	require.NoError(t, err)
	assert.Contains(t, withImage.ImageURL, "https://cdn.example.com/public/recipes/")
	assert.Equal(t, 1, s.storage.len())

	_, err = s.recipes.UploadImage(ctx, user.ID, recipe.ID, upload(t, "image", "glass2.png", pngHeader))
	require.NoError(t, err)
	assert.Equal(t, 1, s.storage.len())

	require.NoError(t, s.recipes.Delete(ctx, user.ID, recipe.ID))
	assert.Equal(t, 0, s.storage.len())
}

func TestUploadWithoutStorage(t *testing.T) {
	conn := testutil.NewDB(t)
	files := NewFileService(repository.NewFileRepository(conn), nil)

	_, err := files.UploadRecipeImage(context.Background(), "user", "recipe", upload(t, "image", "glass.png", pngHeader))
	assert.ErrorIs(t, err, ErrStorageDisabled)
	assert.Empty(t, files.URL(context.Background(), &model.File{StoragePath: "public/recipes/x.png"}))
}

func TestRecipeSurvivesFoodLosingServingSize(t *testing.T) {
	s := newServices(t, 10)
	ctx := context.Background()
	user := testutil.CreateUser(t, s.conn, "ana@example.com", model.RoleUser)
	food := testutil.CreateFood(t, s.conn, nil, "Rolled oats", oats, nil)
	milk, err := s.foods.Create(user, FoodInput{Name: "Oat milk", Calories: 50, ProteinG: 1, CarbsG: 7, FatG: 2, ServingG: ptr(250.0)})
	require.NoError(t, err)

	recipe, err := s.recipes.Create(ctx, user.ID, RecipeInput{
		Name:     "Porridge",
		Servings: 1,
		Ingredients: []IngredientInput{
			{FoodID: food.ID, Quantity: 100, Unit: model.UnitGram},
			{FoodID: milk.ID, Quantity: 1, Unit: model.UnitServing},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 505.0, recipe.Total.Calories)

	_, err = s.foods.Update(user, milk.ID, FoodInput{Name: "Oat milk", Calories: 50, ProteinG: 1, CarbsG: 7, FatG: 2})
	require.NoError(t, err)

	list, err := s.recipes.List(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 380.0, list[0].Total.Calories)
	assert.True(t, list[0].Ingredients[1].Unresolved)
	assert.False(t, list[0].Ingredients[0].Unresolved)

	detail, err := s.recipes.Detail(ctx, user.ID, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, "Oat milk", detail.Ingredients[1].FoodName)

	entry, err := s.meals.Create(user, MealInput{
		LogDate:  "2026-03-02",
		MealType: model.MealBreakfast,
		RecipeID: &recipe.ID,
		Servings: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, 380.0, entry.Calories)
}

package repository

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/fittrack/internal/model"
	"github.com/templui/fittrack/internal/testutil"
	"github.com/templui/fittrack/internal/textutil"
)

func TestUserRepository(t *testing.T) {
	conn := testutil.NewDB(t)
	repo := NewUserRepository(conn)
	existing := testutil.CreateUser(t, conn, "ana@example.com", model.RoleUser)

	now := time.Now()
	err := repo.Create(&model.User{ID: uuid.New().String(), Email: "ana@example.com", PasswordHash: "x", Role: model.RoleUser, CreatedAt: now, UpdatedAt: now}, &model.Profile{Name: "Ana"})
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	got, err := repo.ByEmail("ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, existing.ID, got.ID)

	// A profile that cannot be stored leaves no user behind.
	profiles := NewProfileRepository(conn)
	taken, err := profiles.ByUserID(existing.ID)
	require.NoError(t, err)
	err = repo.Create(&model.User{ID: uuid.New().String(), Email: "bo@example.com", PasswordHash: "x", Role: model.RoleUser, CreatedAt: now, UpdatedAt: now}, &model.Profile{ID: taken.ID, Name: "Bo"})
	require.Error(t, err)
	_, err = repo.ByEmail("bo@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)

	created := &model.User{ID: uuid.New().String(), Email: "cy@example.com", PasswordHash: "x", Role: model.RoleUser, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repo.Create(created, &model.Profile{Name: "Cy"}))
	profile, err := profiles.ByUserID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cy", profile.Name)
	assert.Equal(t, model.UnitSystemMetric, profile.UnitSystem)
	require.NoError(t, repo.Delete(created.ID))

	require.NoError(t, repo.UpdateRole(existing.ID, model.RoleAdmin))
	got, err = repo.ByID(existing.ID)
	require.NoError(t, err)
	assert.True(t, got.IsAdmin())

	assert.ErrorIs(t, repo.UpdateRole("missing", model.RoleAdmin), ErrUserNotFound)

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.NoError(t, repo.Delete(existing.ID))
	_, err = repo.ByID(existing.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = NewProfileRepository(conn).ByUserID(existing.ID)
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestTokenConsumeOnce(t *testing.T) {
	conn := testutil.NewDB(t)
	repo := NewTokenRepository(conn)
	user := testutil.CreateUser(t, conn, "ana@example.com", model.RoleUser)

	require.NoError(t, repo.Create(&model.Token{
		UserID:    user.ID,
		Type:      model.TokenTypePasswordReset,
		Token:     "valid",
		ExpiresAt: time.Now().Add(time.Hour),
	}))
	require.NoError(t, repo.Create(&model.Token{
		UserID:    user.ID,
		Type:      model.TokenTypePasswordReset,
		Token:     "expired",
		ExpiresAt: time.Now().Add(-time.Minute),
	}))

	tok, err := repo.ConsumeToken("valid")
	require.NoError(t, err)
	assert.Equal(t, user.ID, tok.UserID)
	assert.True(t, tok.IsUsed())

	_, err = repo.ConsumeToken("valid")
	assert.ErrorIs(t, err, ErrTokenNotFound)

	_, err = repo.ConsumeToken("expired")
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestFoodSearch(t *testing.T) {
	conn := testutil.NewDB(t)
	repo := NewFoodRepository(conn)
	ana := testutil.CreateUser(t, conn, "ana@example.com", model.RoleUser)
	bob := testutil.CreateUser(t, conn, "bob@example.com", model.RoleUser)

	global := testutil.CreateFood(t, conn, nil, "Crème fraîche", model.Macros{Calories: 292}, nil)
	own := testutil.CreateFood(t, conn, ana, "Creme brulee", model.Macros{Calories: 340}, nil)
	testutil.CreateFood(t, conn, bob, "Creme caramel", model.Macros{Calories: 120}, nil)

	foods, err := repo.Search(ana.ID, textutil.Normalize("CRÈME"), 10)
	require.NoError(t, err)
	require.Len(t, foods, 2)
	assert.Equal(t, own.ID, foods[0].ID)
	assert.Equal(t, global.ID, foods[1].ID)

	byIDs, err := repo.ByIDs([]string{own.ID, global.ID, "missing"})
	require.NoError(t, err)
	assert.Len(t, byIDs, 2)

	found, err := repo.ByName(ana.ID, textutil.Normalize("creme brulee"))
	require.NoError(t, err)
	assert.Equal(t, own.ID, found.ID)

	_, err = repo.ByName(bob.ID, textutil.Normalize("creme brulee"))
	assert.ErrorIs(t, err, ErrFoodNotFound)
}

func TestRecipeIngredientsReplaced(t *testing.T) {
	conn := testutil.NewDB(t)
	repo := NewRecipeRepository(conn)
	user := testutil.CreateUser(t, conn, "ana@example.com", model.RoleUser)
	rice := testutil.CreateFood(t, conn, nil, "rice", model.Macros{Calories: 130}, nil)
	egg := testutil.CreateFood(t, conn, nil, "egg", model.Macros{Calories: 155}, nil)

	now := time.Now()
	recipe := &model.Recipe{
		ID: uuid.New().String(), UserID: user.ID, Name: "Fried rice", Servings: 2,
		CreatedAt: now, UpdatedAt: now,
		Ingredients: []*model.RecipeIngredient{
			{FoodID: rice.ID, Quantity: 300, Unit: model.UnitGram},
			{FoodID: egg.ID, Quantity: 100, Unit: model.UnitGram},
		},
	}
	require.NoError(t, repo.Create(recipe))

	got, err := repo.ByID(user.ID, recipe.ID)
	require.NoError(t, err)
	require.Len(t, got.Ingredients, 2)
	assert.Equal(t, rice.ID, got.Ingredients[0].FoodID)

	recipe.Ingredients = []*model.RecipeIngredient{{FoodID: egg.ID, Quantity: 2, Unit: model.UnitServing}}
	require.NoError(t, repo.Update(recipe))

	got, err = repo.ByID(user.ID, recipe.ID)
	require.NoError(t, err)
	require.Len(t, got.Ingredients, 1)
	assert.Equal(t, egg.ID, got.Ingredients[0].FoodID)

	_, err = repo.ByID("someone-else", recipe.ID)
	assert.ErrorIs(t, err, ErrRecipeNotFound)
}

func TestWeightUpsert(t *testing.T) {
	conn := testutil.NewDB(t)
	repo := NewWeightRepository(conn)
	user := testutil.CreateUser(t, conn, "ana@example.com", model.RoleUser)

	now := time.Now()
	first := &model.WeightLog{ID: uuid.New().String(), UserID: user.ID, LogDate: "2026-03-01", WeightKg: 80, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repo.Upsert(first))

	second := &model.WeightLog{ID: uuid.New().String(), UserID: user.ID, LogDate: "2026-03-01", WeightKg: 79.5, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repo.Upsert(second))
	assert.Equal(t, first.ID, second.ID)

	require.NoError(t, repo.Upsert(&model.WeightLog{ID: uuid.New().String(), UserID: user.ID, LogDate: "2026-03-03", WeightKg: 79, CreatedAt: now, UpdatedAt: now}))

	logs, err := repo.Range(user.ID, "2026-03-01", "2026-03-31")
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, 79.5, logs[0].WeightKg)

	latest, err := repo.Latest(user.ID, "2026-03-02")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-01", latest.LogDate)

	_, err = repo.Latest(user.ID, "2026-02-01")
	assert.ErrorIs(t, err, ErrWeightNotFound)

	oldest, err := repo.First(user.ID, "2026-03-02", "2026-03-31")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-03", oldest.LogDate)

	_, err = repo.First(user.ID, "2026-03-04", "2026-03-31")
	assert.ErrorIs(t, err, ErrWeightNotFound)
}

func TestWeightUpsertConcurrentSameDay(t *testing.T) {
	conn := testutil.NewDB(t)
	repo := NewWeightRepository(conn)
	user := testutil.CreateUser(t, conn, "ana@example.com", model.RoleUser)

	var wg sync.WaitGroup
	errs := make([]error, 6)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			now := time.Now()
			errs[i] = repo.Upsert(&model.WeightLog{
				ID: uuid.New().String(), UserID: user.ID, LogDate: "2026-03-01",
				WeightKg: 80 + float64(i)/10, CreatedAt: now, UpdatedAt: now,
			})
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
	logs, err := repo.Range(user.ID, "2026-03-01", "2026-03-01")
	require.NoError(t, err)
	assert.Len(t, logs, 1)
}

func TestPlanStatusGuard(t *testing.T) {
	conn := testutil.NewDB(t)
	repo := NewPlanRepository(conn)
	user := testutil.CreateUser(t, conn, "ana@example.com", model.RoleUser)

	now := time.Now()
	sets := 4
	plan := &model.WorkoutPlan{
		ID: uuid.New().String(), OwnerID: user.ID, Name: "Push", Status: model.PlanStatusDraft,
		CreatedAt: now, UpdatedAt: now,
		Exercises: []*model.PlanExercise{{Name: "Bench press", TargetSets: &sets}},
	}
	require.NoError(t, repo.Create(plan))

	require.NoError(t, plan.Submit())
	require.NoError(t, repo.UpdateStatus(plan, model.PlanStatusDraft))

	// A second writer still believing the plan is a draft loses.
	assert.ErrorIs(t, repo.UpdateStatus(plan, model.PlanStatusDraft), ErrPlanNotFound)

	// So does an edit loaded before the submit.
	stale := *plan
	stale.Status = model.PlanStatusDraft
	stale.Name = "Push (edited)"
	assert.ErrorIs(t, repo.Update(&stale, model.PlanStatusDraft), ErrPlanNotFound)

	pending, err := repo.ByStatus(model.PlanStatusPending)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.Len(t, pending[0].Exercises, 1)
	assert.Equal(t, 4, *pending[0].Exercises[0].TargetSets)
	assert.Nil(t, pending[0].Exercises[0].TargetReps)
}

func TestWorkoutLinesAndGoals(t *testing.T) {
	conn := testutil.NewDB(t)
	workouts := NewWorkoutRepository(conn)
	goals := NewGoalRepository(conn)
	user := testutil.CreateUser(t, conn, "ana@example.com", model.RoleUser)

	now := time.Now()
	w := &model.Workout{
		ID: uuid.New().String(), UserID: user.ID, LogDate: "2026-03-02", Name: "Legs", Type: model.WorkoutStrength,
		DurationMin: 45, CreatedAt: now, UpdatedAt: now,
		Exercises: []*model.WorkoutExercise{{Name: "Squat", Sets: 3, Reps: 5, WeightKg: 100}},
	}
	require.NoError(t, workouts.Create(w))

	list, err := workouts.Range(user.ID, "2026-03-01", "2026-03-07")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 1500.0, list[0].VolumeKg)

	for i := 0; i < 2; i++ {
		require.NoError(t, goals.Create(&model.Goal{
			ID: uuid.New().String(), UserID: user.ID, Type: model.GoalDailyCalories, Title: "kcal",
			TargetValue: 2000, StartDate: "2026-03-01", Status: model.GoalStatusActive, CreatedAt: now, UpdatedAt: now,
		}))
	}
	count, err := goals.CountActive(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	completed, err := goals.Goals(user.ID, model.GoalStatusCompleted)
	require.NoError(t, err)
	assert.Empty(t, completed)
}

func TestLayoutSave(t *testing.T) {
	conn := testutil.NewDB(t)
	repo := NewLayoutRepository(conn)
	user := testutil.CreateUser(t, conn, "ana@example.com", model.RoleUser)

	empty, err := repo.Layout(user.ID)
	require.NoError(t, err)
	assert.Empty(t, empty)

	layout, err := model.MoveWidget(model.DefaultLayout(user.ID), 5, 0)
	require.NoError(t, err)
	layout[1].Visible = false
	require.NoError(t, repo.Save(user.ID, layout))

	got, err := repo.Layout(user.ID)
	require.NoError(t, err)
	require.Len(t, got, len(model.Widgets))
	assert.Equal(t, model.WidgetRecipes, got[0].Widget)
	assert.False(t, got[1].Visible)
	assert.Equal(t, 5, got[5].SortOrder)
}

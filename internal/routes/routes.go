package routes

import (
	"net/http"

	"github.com/templui/fittrack/internal/app"
	"github.com/templui/fittrack/internal/handler"
	"github.com/templui/fittrack/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	health := handler.NewHealthHandler(app.DB)
	auth := handler.NewAuthHandler(app.AuthService)
	account := handler.NewAccountHandler(app.AuthService, app.UserService)
	catalog := handler.NewCatalogHandler(app.FoodService, app.ExerciseService)
	meal := handler.NewMealHandler(app.MealService)
	recipe := handler.NewRecipeHandler(app.RecipeService)
	weight := handler.NewWeightHandler(app.WeightService)
	workout := handler.NewWorkoutHandler(app.WorkoutService)
	plan := handler.NewPlanHandler(app.PlanService)
	goal := handler.NewGoalHandler(app.GoalService)
	dashboard := handler.NewDashboardHandler(app.DashboardService)

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	mux.HandleFunc("GET /healthz", health.Healthz)

	// Auth (rate limited per client IP)
	rateLimit := middleware.RateLimit(middleware.NewRateLimiter(app.Cfg.AuthRateLimit, app.Cfg.AuthRateWindow, app.Cfg.TrustedProxies))

	mux.Handle("POST /api/auth/register", rateLimit(http.HandlerFunc(auth.Register)))
	mux.Handle("POST /api/auth/login", rateLimit(http.HandlerFunc(auth.Login)))
	mux.Handle("POST /api/auth/forgot-password", rateLimit(http.HandlerFunc(auth.ForgotPassword)))
	mux.Handle("POST /api/auth/reset-password", rateLimit(http.HandlerFunc(auth.ResetPassword)))
	mux.HandleFunc("POST /api/auth/logout", auth.Logout)

	// ============================================================================
	// PROTECTED ROUTES (/api/*)
	// ============================================================================

	protected := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, middleware.RequireAuth(h))
	}

	// Account
	protected("GET /api/me", account.Me)
	protected("PATCH /api/me/profile", account.UpdateProfile)
	protected("POST /api/me/password", account.ChangePassword)
	protected("DELETE /api/me", account.DeleteAccount)

	// Foods
	protected("GET /api/foods", catalog.SearchFoods)
	protected("POST /api/foods", catalog.CreateFood)
	protected("GET /api/foods/{id}", catalog.GetFood)
	protected("PUT /api/foods/{id}", catalog.UpdateFood)
	protected("DELETE /api/foods/{id}", catalog.DeleteFood)

	// Exercises
	protected("GET /api/exercises", catalog.SearchExercises)
	protected("POST /api/exercises", catalog.CreateExercise)
	protected("DELETE /api/exercises/{id}", catalog.DeleteExercise)

	// Meals
	protected("GET /api/meals", meal.List)
	protected("GET /api/meals/summary", meal.Summary)
	protected("POST /api/meals", meal.Create)
	protected("PUT /api/meals/{id}", meal.Update)
	protected("DELETE /api/meals/{id}", meal.Delete)

	// Recipes
	protected("GET /api/recipes", recipe.List)
	protected("POST /api/recipes", recipe.Create)
	protected("POST /api/recipes/import", recipe.Import)
	protected("GET /api/recipes/{id}", recipe.Get)
	protected("PUT /api/recipes/{id}", recipe.Update)
	protected("DELETE /api/recipes/{id}", recipe.Delete)
	protected("POST /api/recipes/{id}/image", recipe.UploadImage)
	protected("DELETE /api/recipes/{id}/image", recipe.DeleteImage)

	// Weights
	protected("GET /api/weights", weight.List)
	protected("GET /api/weights/stats", weight.Stats)
	protected("POST /api/weights", weight.Log)
	protected("DELETE /api/weights/{id}", weight.Delete)

	// Workouts
	protected("GET /api/workouts", workout.List)
	protected("POST /api/workouts", workout.Create)
	protected("GET /api/workouts/{id}", workout.Get)
	protected("PUT /api/workouts/{id}", workout.Update)
	protected("DELETE /api/workouts/{id}", workout.Delete)

	// Workout plans
	protected("GET /api/plans", plan.List)
	protected("GET /api/plans/public", plan.Public)
	protected("POST /api/plans", plan.Create)
	protected("GET /api/plans/{id}", plan.Get)
	protected("PUT /api/plans/{id}", plan.Update)
	protected("DELETE /api/plans/{id}", plan.Delete)
	protected("POST /api/plans/{id}/submit", plan.Submit)
	protected("POST /api/plans/{id}/copy", plan.Copy)
	protected("POST /api/plans/{id}/start", plan.Start)

	// Goals
	protected("GET /api/goals", goal.List)
	protected("POST /api/goals", goal.Create)
	protected("GET /api/goals/{id}", goal.Get)
	protected("PUT /api/goals/{id}", goal.Update)
	protected("DELETE /api/goals/{id}", goal.Delete)
	protected("GET /api/goals/{id}/progress", goal.Progress)

	// Dashboard
	protected("GET /api/dashboard", dashboard.Dashboard)
	protected("GET /api/dashboard/layout", dashboard.Layout)
	protected("PUT /api/dashboard/layout", dashboard.SaveLayout)
	protected("POST /api/dashboard/layout/move", dashboard.MoveWidget)

	// ============================================================================
	// ADMIN ROUTES (/api/admin/*)
	// ============================================================================

	admin := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, middleware.RequireAdmin(h))
	}

	admin("GET /api/admin/users", account.ListUsers)
	admin("PATCH /api/admin/users/{id}/role", account.SetRole)
	admin("GET /api/admin/plans/pending", plan.Pending)
	admin("POST /api/admin/plans/{id}/review", plan.Review)

	return middleware.Chain(mux,
		middleware.RequestID,
		middleware.Recover,
		middleware.CORS(app.Cfg.CORSOrigins),
		middleware.AuthMiddleware(app.AuthService),
		middleware.RequestLogging,
	)
}

package app

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/templui/fittrack/internal/config"
	"github.com/templui/fittrack/internal/db"
	"github.com/templui/fittrack/internal/markdown"
	"github.com/templui/fittrack/internal/repository"
	"github.com/templui/fittrack/internal/service"
	"github.com/templui/fittrack/internal/storage"
)

type App struct {
	Cfg              *config.Config
	DB               *sqlx.DB
	AuthService      *service.AuthService
	UserService      *service.UserService
	EmailService     *service.EmailService
	FileService      *service.FileService
	FoodService      *service.FoodService
	ExerciseService  *service.ExerciseService
	MealService      *service.MealService
	RecipeService    *service.RecipeService
	WeightService    *service.WeightService
	WorkoutService   *service.WorkoutService
	PlanService      *service.PlanService
	GoalService      *service.GoalService
	DashboardService *service.DashboardService
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if cfg.DBAutoMigrate {
		if err := db.RunMigrations(database.DB, cfg.DBDriver); err != nil {
			_ = database.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	// Storage
	fileStorage, err := storage.New(ctx, cfg)
	if err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	return Wire(cfg, database, fileStorage), nil
}

// Wire builds repositories and services on an open database. A nil storage
// disables recipe images.
func Wire(cfg *config.Config, database *sqlx.DB, fileStorage storage.Storage) *App {
	// Repositories
	userRepository := repository.NewUserRepository(database)
	profileRepository := repository.NewProfileRepository(database)
	tokenRepository := repository.NewTokenRepository(database)
	fileRepository := repository.NewFileRepository(database)
	foodRepository := repository.NewFoodRepository(database)
	exerciseRepository := repository.NewExerciseRepository(database)
	mealRepository := repository.NewMealRepository(database)
	recipeRepository := repository.NewRecipeRepository(database)
	weightRepository := repository.NewWeightRepository(database)
	workoutRepository := repository.NewWorkoutRepository(database)
	planRepository := repository.NewPlanRepository(database)
	goalRepository := repository.NewGoalRepository(database)
	layoutRepository := repository.NewLayoutRepository(database)

	// Services
	emailService := service.NewEmailService(
		cfg.ResendAPIKey,
		cfg.EmailFrom,
		cfg.AppURL,
		cfg.AppName,
		cfg.IsDevelopment(),
	)
	fileService := service.NewFileService(fileRepository, fileStorage)
	authService := service.NewAuthService(
		userRepository,
		profileRepository,
		tokenRepository,
		layoutRepository,
		emailService,
		cfg.JWTSecret,
		cfg.IsProduction(),
		cfg.JWTExpiry,
		cfg.TokenPasswordResetExpiry,
	)
	userService := service.NewUserService(userRepository, profileRepository, weightRepository, authService, fileService, emailService)

	foodService := service.NewFoodService(foodRepository)
	exerciseService := service.NewExerciseService(exerciseRepository)
	recipeService := service.NewRecipeService(recipeRepository, foodRepository, fileService, markdown.NewParser())
	mealService := service.NewMealService(mealRepository, foodService, recipeService)
	weightService := service.NewWeightService(weightRepository)
	workoutService := service.NewWorkoutService(workoutRepository, exerciseService, weightService)
	planService := service.NewPlanService(planRepository, userRepository, profileRepository, exerciseService, workoutService, emailService)
	goalService := service.NewGoalService(goalRepository, mealService, workoutService, weightService, cfg.MaxActiveGoals)
	dashboardService := service.NewDashboardService(layoutRepository, userService, mealService, weightService, workoutService, goalService)

	return &App{
		Cfg:              cfg,
		DB:               database,
		AuthService:      authService,
		UserService:      userService,
		EmailService:     emailService,
		FileService:      fileService,
		FoodService:      foodService,
		ExerciseService:  exerciseService,
		MealService:      mealService,
		RecipeService:    recipeService,
		WeightService:    weightService,
		WorkoutService:   workoutService,
		PlanService:      planService,
		GoalService:      goalService,
		DashboardService: dashboardService,
	}
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}

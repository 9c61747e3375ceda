package service

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"github.com/templui/fittrack/internal/markdown"
	"github.com/templui/fittrack/internal/repository"
	"github.com/templui/fittrack/internal/testutil"
	"golang.org/x/crypto/bcrypt"
)

// services wires every service against a fresh database.
type services struct {
	conn      *sqlx.DB
	storage   *memStorage
	auth      *AuthService
	users     *UserService
	files     *FileService
	foods     *FoodService
	exercises *ExerciseService
	meals     *MealService
	recipes   *RecipeService
	weights   *WeightService
	workouts  *WorkoutService
	plans     *PlanService
	goals     *GoalService
	dashboard *DashboardService
}

func newServices(t *testing.T, maxActiveGoals int) *services {
	t.Helper()

	conn := testutil.NewDB(t)
	store := newMemStorage()

	userRepo := repository.NewUserRepository(conn)
	profileRepo := repository.NewProfileRepository(conn)
	layoutRepo := repository.NewLayoutRepository(conn)
	foodRepo := repository.NewFoodRepository(conn)
	weightRepo := repository.NewWeightRepository(conn)

	email := NewEmailService("", "noreply@example.com", "http://localhost:5173", "FitTrack", true)
	files := NewFileService(repository.NewFileRepository(conn), store)
	auth := NewAuthService(userRepo, profileRepo, repository.NewTokenRepository(conn), layoutRepo, email,
		"test-secret", false, time.Hour, time.Hour).WithBcryptCost(bcrypt.MinCost)
	users := NewUserService(userRepo, profileRepo, weightRepo, auth, files, email)

	foods := NewFoodService(foodRepo)
	exercises := NewExerciseService(repository.NewExerciseRepository(conn))
	recipes := NewRecipeService(repository.NewRecipeRepository(conn), foodRepo, files, markdown.NewParser())
	meals := NewMealService(repository.NewMealRepository(conn), foods, recipes)
	weights := NewWeightService(weightRepo)
	workouts := NewWorkoutService(repository.NewWorkoutRepository(conn), exercises, weights)
	plans := NewPlanService(repository.NewPlanRepository(conn), userRepo, profileRepo, exercises, workouts, email)
	goals := NewGoalService(repository.NewGoalRepository(conn), meals, workouts, weights, maxActiveGoals)

	return &services{
		conn:      conn,
		storage:   store,
		auth:      auth,
		users:     users,
		files:     files,
		foods:     foods,
		exercises: exercises,
		meals:     meals,
		recipes:   recipes,
		weights:   weights,
		workouts:  workouts,
		plans:     plans,
		goals:     goals,
		dashboard: NewDashboardService(layoutRepo, users, meals, weights, workouts, goals),
	}
}

// memStorage keeps objects in memory.
type memStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newMemStorage() *memStorage {
	return &memStorage{objects: make(map[string][]byte)}
}

func (m *memStorage) Save(_ context.Context, path, _ string, file io.Reader) error {
	data, err := io.ReadAll(file)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[path] = data
	return nil
}

func (m *memStorage) Delete(_ context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, path)
	return nil
}

func (m *memStorage) URL(_ context.Context, path string) string {
	return "https://cdn.example.com/" + path
}

func (m *memStorage) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}

// pngHeader is enough of a PNG for content sniffing.
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func upload(t *testing.T, field, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))

	_, header, err := req.FormFile(field)
	require.NoError(t, err)
	return header
}

func ptr[T any](v T) *T {
	return &v
}

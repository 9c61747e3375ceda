package handler

import (
	"net/http"

	"github.com/templui/fittrack/internal/service"
)

// CatalogHandler serves the food and exercise catalogs.
type CatalogHandler struct {
	foodService     *service.FoodService
	exerciseService *service.ExerciseService
}

func NewCatalogHandler(foodService *service.FoodService, exerciseService *service.ExerciseService) *CatalogHandler {
	return &CatalogHandler{
		foodService:     foodService,
		exerciseService: exerciseService,
	}
}

func (h *CatalogHandler) SearchFoods(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(w, r, err)
		return
	}

	foods, err := h.foodService.Search(currentUser(r).ID, r.URL.Query().Get("q"), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, foods)
}

func (h *CatalogHandler) CreateFood(w http.ResponseWriter, r *http.Request) {
	var req service.FoodInput
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	food, err := h.foodService.Create(currentUser(r), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, food)
}

func (h *CatalogHandler) GetFood(w http.ResponseWriter, r *http.Request) {
	food, err := h.foodService.Get(currentUser(r), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, food)
}

func (h *CatalogHandler) UpdateFood(w http.ResponseWriter, r *http.Request) {
	var req service.FoodInput
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	food, err := h.foodService.Update(currentUser(r), r.PathValue("id"), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, food)
}

func (h *CatalogHandler) DeleteFood(w http.ResponseWriter, r *http.Request) {
	if err := h.foodService.Delete(currentUser(r), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CatalogHandler) SearchExercises(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	exercises, err := h.exerciseService.Search(currentUser(r).ID, q.Get("q"), q.Get("muscle_group"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, exercises)
}

func (h *CatalogHandler) CreateExercise(w http.ResponseWriter, r *http.Request) {
	var req service.ExerciseInput
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	exercise, err := h.exerciseService.Create(currentUser(r), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, exercise)
}

func (h *CatalogHandler) DeleteExercise(w http.ResponseWriter, r *http.Request) {
	if err := h.exerciseService.Delete(currentUser(r), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package handler

import (
	"net/http"

	"github.com/templui/fittrack/internal/service"
)

type WorkoutHandler struct {
	workoutService *service.WorkoutService
}

func NewWorkoutHandler(workoutService *service.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{workoutService: workoutService}
}

func (h *WorkoutHandler) List(w http.ResponseWriter, r *http.Request) {
	from, to := dateRange(r)
	workouts, err := h.workoutService.List(currentUser(r).ID, from, to)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, workouts)
}

func (h *WorkoutHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.WorkoutInput
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	workout, err := h.workoutService.Create(currentUser(r), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, workout)
}

func (h *WorkoutHandler) Get(w http.ResponseWriter, r *http.Request) {
	workout, err := h.workoutService.Get(currentUser(r).ID, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, workout)
}

func (h *WorkoutHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req service.WorkoutInput
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	workout, err := h.workoutService.Update(currentUser(r), r.PathValue("id"), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, workout)
}

func (h *WorkoutHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.workoutService.Delete(currentUser(r).ID, r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package handler

import (
	"net/http"

	"github.com/templui/fittrack/internal/service"
)

type GoalHandler struct {
	goalService *service.GoalService
}

func NewGoalHandler(goalService *service.GoalService) *GoalHandler {
	return &GoalHandler{
		goalService: goalService,
	}
}

func (h *GoalHandler) List(w http.ResponseWriter, r *http.Request) {
	goals, err := h.goalService.List(currentUser(r).ID, r.URL.Query().Get("status"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, goals)
}

func (h *GoalHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.GoalInput
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	goal, err := h.goalService.Create(currentUser(r).ID, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, goal)
}

func (h *GoalHandler) Get(w http.ResponseWriter, r *http.Request) {
	goal, err := h.goalService.Get(currentUser(r).ID, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, goal)
}

func (h *GoalHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req service.GoalUpdate
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	goal, err := h.goalService.Update(currentUser(r).ID, r.PathValue("id"), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, goal)
}

func (h *GoalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.goalService.Delete(currentUser(r).ID, r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *GoalHandler) Progress(w http.ResponseWriter, r *http.Request) {
	progress, err := h.goalService.Progress(currentUser(r).ID, r.PathValue("id"), todayParam(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, progress)
}

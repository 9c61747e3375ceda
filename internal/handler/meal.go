package handler

import (
	"net/http"

	"github.com/templui/fittrack/internal/service"
)

type MealHandler struct {
	mealService *service.MealService
}

func NewMealHandler(mealService *service.MealService) *MealHandler {
	return &MealHandler{mealService: mealService}
}

// List answers ?date= with the grouped day and ?from&to with a flat list.
func (h *MealHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := currentUser(r).ID
	q := r.URL.Query()

	if date := q.Get("date"); date != "" || (q.Get("from") == "" && q.Get("to") == "") {
		if date == "" {
			date = todayParam(r)
		}
		day, err := h.mealService.Day(userID, date)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, day)
		return
	}

	from, to := dateRange(r)
	entries, err := h.mealService.Range(userID, from, to)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *MealHandler) Summary(w http.ResponseWriter, r *http.Request) {
	from, to := dateRange(r)
	totals, err := h.mealService.Summary(currentUser(r).ID, from, to)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, totals)
}

func (h *MealHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.MealInput
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	entry, err := h.mealService.Create(currentUser(r), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (h *MealHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req service.MealUpdate
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	entry, err := h.mealService.Update(currentUser(r), r.PathValue("id"), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (h *MealHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.mealService.Delete(currentUser(r).ID, r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

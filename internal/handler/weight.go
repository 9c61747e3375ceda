package handler

import (
	"net/http"

	"github.com/templui/fittrack/internal/service"
)

type WeightHandler struct {
	weightService *service.WeightService
}

func NewWeightHandler(weightService *service.WeightService) *WeightHandler {
	return &WeightHandler{weightService: weightService}
}

func (h *WeightHandler) Log(w http.ResponseWriter, r *http.Request) {
	var req service.WeightInput
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	log, err := h.weightService.Log(currentUser(r).ID, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, log)
}

func (h *WeightHandler) List(w http.ResponseWriter, r *http.Request) {
	from, to := dateRange(r)
	logs, err := h.weightService.List(currentUser(r).ID, from, to)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

func (h *WeightHandler) Stats(w http.ResponseWriter, r *http.Request) {
	days, err := queryInt(r, "days")
	if err != nil {
		writeError(w, r, err)
		return
	}

	stats, err := h.weightService.Stats(currentUser(r).ID, days)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *WeightHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.weightService.Delete(currentUser(r).ID, r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

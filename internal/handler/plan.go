package handler

import (
	"net/http"

	"github.com/templui/fittrack/internal/service"
)

type PlanHandler struct {
	planService *service.PlanService
}

func NewPlanHandler(planService *service.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

func (h *PlanHandler) List(w http.ResponseWriter, r *http.Request) {
	plans, err := h.planService.List(currentUser(r).ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, plans)
}

func (h *PlanHandler) Public(w http.ResponseWriter, r *http.Request) {
	plans, err := h.planService.Public()
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, plans)
}

func (h *PlanHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.PlanInput
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	plan, err := h.planService.Create(currentUser(r), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, plan)
}

func (h *PlanHandler) Get(w http.ResponseWriter, r *http.Request) {
	plan, err := h.planService.Get(currentUser(r), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (h *PlanHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req service.PlanInput
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	plan, err := h.planService.Update(currentUser(r), r.PathValue("id"), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (h *PlanHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.planService.Delete(currentUser(r), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *PlanHandler) Submit(w http.ResponseWriter, r *http.Request) {
	plan, err := h.planService.Submit(currentUser(r), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (h *PlanHandler) Copy(w http.ResponseWriter, r *http.Request) {
	plan, err := h.planService.Copy(currentUser(r), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, plan)
}

// Start accepts an optional {log_date}; an empty body logs today.
func (h *PlanHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req struct {
		LogDate string `json:"log_date"`
	}
	if r.ContentLength != 0 {
		if err := readJSON(w, r, &req); err != nil {
			writeError(w, r, err)
			return
		}
	}

	workout, err := h.planService.Start(currentUser(r), r.PathValue("id"), req.LogDate)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, workout)
}

func (h *PlanHandler) Pending(w http.ResponseWriter, r *http.Request) {
	plans, err := h.planService.Pending(currentUser(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, plans)
}

func (h *PlanHandler) Review(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Decision string `json:"decision"`
		Note     string `json:"note"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	plan, err := h.planService.Review(r.Context(), currentUser(r), r.PathValue("id"), req.Decision, req.Note)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

package handler

import (
	"net/http"

	"github.com/templui/fittrack/internal/service"
)

type DashboardHandler struct {
	dashboardService *service.DashboardService
}

func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.dashboardService.Dashboard(currentUser(r).ID, todayParam(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dashboard)
}

func (h *DashboardHandler) Layout(w http.ResponseWriter, r *http.Request) {
	layout, err := h.dashboardService.Layout(currentUser(r).ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, layout)
}

func (h *DashboardHandler) SaveLayout(w http.ResponseWriter, r *http.Request) {
	var req service.LayoutInput
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	layout, err := h.dashboardService.SaveLayout(currentUser(r).ID, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, layout)
}

func (h *DashboardHandler) MoveWidget(w http.ResponseWriter, r *http.Request) {
	var req struct {
		From *int `json:"from"`
		To   *int `json:"to"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.From == nil || req.To == nil {
		writeError(w, r, errMissingIndex)
		return
	}

	layout, err := h.dashboardService.MoveWidget(currentUser(r).ID, *req.From, *req.To)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, layout)
}

package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/templui/fittrack/internal/model"
	"github.com/templui/fittrack/internal/repository"
	"github.com/templui/fittrack/internal/service"
	"github.com/templui/fittrack/internal/validation"
)

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{repository.ErrMealNotFound, http.StatusNotFound},
		{fmt.Errorf("loading: %w", repository.ErrPlanNotFound), http.StatusNotFound},
		{service.ErrEmailAlreadyExists, http.StatusConflict},
		{service.ErrGoalLimitReached, http.StatusConflict},
		{model.ErrInvalidTransition, http.StatusConflict},
		{errBadRequest, http.StatusBadRequest},
		{service.ErrInvalidToken, http.StatusBadRequest},
		{service.ErrInvalidCredentials, http.StatusUnauthorized},
		{service.ErrForbidden, http.StatusForbidden},
		{service.ErrInvalidCurrentPassword, http.StatusForbidden},
		{service.ErrStorageDisabled, http.StatusServiceUnavailable},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.status, errorStatus(tt.err), tt.err.Error())
	}
}

func TestWriteError(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/meals", nil)

	rec := httptest.NewRecorder()
	writeError(rec, r, validation.Newf("log_date", "must be a date in YYYY-MM-DD format"))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.JSONEq(t, `{"error":"must be a date in YYYY-MM-DD format","field":"log_date"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	writeError(rec, r, errors.New("pq: connection refused"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, rec.Body.String())
}

func TestDateRange(t *testing.T) {
	from, to := dateRange(httptest.NewRequest("GET", "/?to=2026-03-31", nil))
	assert.Equal(t, "2026-03-02", from)
	assert.Equal(t, "2026-03-31", to)

	from, to = dateRange(httptest.NewRequest("GET", "/?from=2026-03-01&to=2026-03-07", nil))
	assert.Equal(t, "2026-03-01", from)
	assert.Equal(t, "2026-03-07", to)

	_, err := queryInt(httptest.NewRequest("GET", "/?limit=ten", nil), "limit")
	assert.Error(t, err)
}

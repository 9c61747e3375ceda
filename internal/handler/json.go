package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/templui/fittrack/internal/ctxkeys"
	"github.com/templui/fittrack/internal/model"
	"github.com/templui/fittrack/internal/repository"
	"github.com/templui/fittrack/internal/service"
	"github.com/templui/fittrack/internal/validation"
)

const maxBodyBytes = 1 << 20

var errBadRequest = errors.New("invalid request body")

var errMissingIndex = validation.Newf("index", "from and to are required")

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// notFound lists the sentinels answered with 404.
var notFound = []error{
	repository.ErrUserNotFound,
	repository.ErrProfileNotFound,
	repository.ErrFoodNotFound,
	repository.ErrExerciseNotFound,
	repository.ErrMealNotFound,
	repository.ErrRecipeNotFound,
	repository.ErrWeightNotFound,
	repository.ErrWorkoutNotFound,
	repository.ErrPlanNotFound,
	repository.ErrGoalNotFound,
	repository.ErrFileNotFound,
}

// conflict lists the sentinels answered with 409.
var conflict = []error{
	service.ErrEmailAlreadyExists,
	service.ErrGoalLimitReached,
	service.ErrCannotDemoteSelf,
	model.ErrInvalidTransition,
}

func readJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// writeError maps service and repository errors to a status code. Anything
// unknown is logged and answered with 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	if ve, ok := validation.As(err); ok {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: ve.Message, Field: ve.Field})
		return
	}

	status := errorStatus(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		slog.Error("request failed",
			"error", err,
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", ctxkeys.RequestID(r.Context()),
		)
		message = "internal server error"
	}

	writeJSON(w, status, errorResponse{Error: message})
}

func errorStatus(err error) int {
	for _, target := range notFound {
		if errors.Is(err, target) {
			return http.StatusNotFound
		}
	}
	for _, target := range conflict {
		if errors.Is(err, target) {
			return http.StatusConflict
		}
	}

	switch {
	case errors.Is(err, errBadRequest), errors.Is(err, service.ErrInvalidToken):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden), errors.Is(err, service.ErrInvalidCurrentPassword):
		return http.StatusForbidden
	case errors.Is(err, service.ErrStorageDisabled):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// queryInt reads an optional integer query parameter.
func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, validation.Newf(name, "must be an integer")
	}
	return v, nil
}

// dateRange reads from and to, defaulting to the 30 days ending today.
func dateRange(r *http.Request) (string, string) {
	q := r.URL.Query()
	to := q.Get("to")
	if to == "" {
		to = model.Today()
	}
	from := q.Get("from")
	if from == "" {
		from = model.AddDays(to, -29)
	}
	return from, to
}

func currentUser(r *http.Request) *model.User {
	return ctxkeys.User(r.Context())
}

// todayParam returns ?date= or today.
func todayParam(r *http.Request) string {
	if date := r.URL.Query().Get("date"); date != "" {
		return date
	}
	return model.Today()
}

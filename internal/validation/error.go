package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/templui/fittrack/internal/model"
)

// Error is an input validation failure for a single field.
type Error struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return e.Field + ": " + e.Message
}

// Field attaches a field name to a plain validation error.
func Field(field string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Field: field, Message: err.Error()}
}

func Newf(field, format string, args ...any) *Error {
	return &Error{Field: field, Message: fmt.Sprintf(format, args...)}
}

// As unwraps a validation error, if any.
func As(err error) (*Error, bool) {
	var verr *Error
	ok := errors.As(err, &verr)
	return verr, ok
}

func Required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return Newf(field, "is required")
	}
	return nil
}

func MaxLen(field, value string, max int) error {
	if len([]rune(value)) > max {
		return Newf(field, "must be at most %d characters", max)
	}
	return nil
}

func NonNegative(field string, v float64) error {
	if v < 0 {
		return Newf(field, "must not be negative")
	}
	return nil
}

func Range(field string, v, min, max float64) error {
	if v < min || v > max {
		return Newf(field, "must be between %g and %g", min, max)
	}
	return nil
}

func IntRange(field string, v, min, max int) error {
	if v < min || v > max {
		return Newf(field, "must be between %d and %d", min, max)
	}
	return nil
}

// Date checks for a YYYY-MM-DD calendar date.
func Date(field, value string) error {
	if _, err := model.ParseDate(value); err != nil {
		return Newf(field, "must be a date in YYYY-MM-DD format")
	}
	return nil
}

// DateRange checks both ends and that the span does not exceed maxDays.
func DateRange(from, to string, maxDays int) error {
	if err := Date("from", from); err != nil {
		return err
	}
	if err := Date("to", to); err != nil {
		return err
	}
	days, _ := model.DaysBetween(from, to)
	if days < 1 {
		return Newf("to", "must not be before from")
	}
	if days > maxDays {
		return Newf("to", "range must not exceed %d days", maxDays)
	}
	return nil
}

// First returns the first non-nil error.
func First(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

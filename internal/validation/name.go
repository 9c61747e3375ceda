package validation

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// ValidateName requires a non-blank display name of at most 100 characters
func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)

	if trimmed == "" {
		return errors.New("name is required")
	}

	if utf8.RuneCountInString(trimmed) > 100 {
		return errors.New("name is too long (max 100 characters)")
	}

	return nil
}

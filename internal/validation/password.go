package validation

import (
	"errors"
	"strings"
)

var commonPatterns = []string{
	"password", "123456", "qwerty", "letmein", "welcome",
	"fittrack", "iloveyou", "abc123", "111111", "football",
}

// ValidatePassword validates password strength: 8 to 72 bytes, no common patterns
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return errors.New("password must be at least 8 characters")
	}

	// Maximum length: 72 bytes (bcrypt limitation)
	// bcrypt silently truncates passwords longer than 72 bytes, which is a security risk
	if len(password) > 72 {
		return errors.New("password must not exceed 72 characters")
	}

	// Check for common/weak patterns
	lower := strings.ToLower(password)
	for _, pattern := range commonPatterns {
		if strings.Contains(lower, pattern) {
			return errors.New("password is too common, please choose a stronger one")
		}
	}

	return nil
}

package common

import (
	"regexp"
	"strings"
)

var emailRegex = regexp.MustCompile(`^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`)

func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if len(name) < 2 || len(name) > 100 {
		return NewValidationError("name", "must be between 2 and 100 characters")
	}
	return nil
}

func ValidatePassword(password string) error {
	if len(password) < 6 {
		return NewValidationError("password", "must be at least 6 characters long")
	}
	if len(password) > 100 {
		return NewValidationError("password", "is too long")
	}
	return nil
}

func ValidateEmail(email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailRegex.MatchString(email) {
		return NewValidationError("email", "invalid email format")
	}
	return nil
}

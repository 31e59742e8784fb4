package validation

import (
	"regexp"
)

// Validation rule patterns
var (
	// Campus email pattern
	EmailPattern = `^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,4}$`

	// Username: letters, digits, underscore, 3-30 chars
	UsernamePattern = `^[a-zA-Z0-9_]{3,30}$`

	PasswordMinLength = 8

	NameMinLength = 2
	NameMaxLength = 100
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	Email    *regexp.Regexp
	Username *regexp.Regexp
}{
	Email:    regexp.MustCompile(EmailPattern),
	Username: regexp.MustCompile(UsernamePattern),
}

// IsValidEmail reports whether the value matches the email pattern.
func IsValidEmail(value string) bool {
	return CompiledPatterns.Email.MatchString(value)
}

// IsValidUsername reports whether the value matches the username pattern.
func IsValidUsername(value string) bool {
	return CompiledPatterns.Username.MatchString(value)
}

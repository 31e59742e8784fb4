package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidEmail(t *testing.T) {
	valid := []string{
		"jdoe@campus.edu",
		"first.last@university.ac.in",
		"user+tag@mail.example.com",
	}
	for _, email := range valid {
		assert.True(t, IsValidEmail(email), email)
	}

	invalid := []string{
		"",
		"not-an-email",
		"missing@tld",
		"UPPER@CASE.EDU",
		"spaces in@mail.com",
	}
	for _, email := range invalid {
		assert.False(t, IsValidEmail(email), email)
	}
}

func TestIsValidUsername(t *testing.T) {
	valid := []string{"jdoe42", "user_name", "abc"}
	for _, username := range valid {
		assert.True(t, IsValidUsername(username), username)
	}

	invalid := []string{"", "ab", "has space", "has-dash", "waytoolongusernamethatgoesonandonpast30chars"}
	for _, username := range invalid {
		assert.False(t, IsValidUsername(username), username)
	}
}

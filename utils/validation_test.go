package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatPhoneNumber(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"98765 43210", "9876543210", false},
		{"+91 98765 43210", "9876543210", false},
		{"09876543210", "9876543210", false},
		// a ten digit number that happens to start with 91 is kept whole
		{"9123456789", "9123456789", false},
		{"12345", "", true},
		{"5876543210", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := FormatPhoneNumber(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateName(t *testing.T) {
	for _, name := range []string{"", "Asha", "O'Brien", "Jean-Luc", "Ana Maria", "Zoë"} {
		valid, msg := ValidateName(name)
		assert.True(t, valid, "%q: %s", name, msg)
	}
	for _, name := range []string{"4sha", "A", "Asha!", "<b>Asha</b>", "Robert; DROP TABLE users"} {
		valid, _ := ValidateName(name)
		assert.False(t, valid, name)
	}
}

func TestValidatePassword(t *testing.T) {
	valid, msg := ValidatePassword("Secret@123")
	assert.True(t, valid, msg)

	tests := map[string]string{
		"Sh@1":        "Password must be between 8 and 72 characters long",
		"secret@123":  "Password must contain at least one uppercase letter",
		"Secret1234":  "Password must contain at least one special character (@$!%*?&)",
		"Secret@123#": "Password can only contain letters, numbers, and special characters (@$!%*?&)",
		"Secret@1;--": "Password: SQL injection detected: SQL comment found",
	}
	for password, want := range tests {
		valid, msg := ValidatePassword(password)
		assert.False(t, valid, password)
		assert.Equal(t, want, msg, password)
	}
}

func TestValidateEmailAndInjection(t *testing.T) {
	valid, _ := ValidateEmail("learner@example.com")
	assert.True(t, valid)

	valid, _ = ValidateEmail("not-an-email")
	assert.False(t, valid)

	valid, msg := ValidateSQLInjection("x' UNION ALL SELECT password FROM users")
	assert.False(t, valid)
	assert.Contains(t, msg, "UNION SELECT")

	valid, _ = ValidateXSS(`<img src=x onerror =alert(1)>`)
	assert.False(t, valid)
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "Learn Go", SanitizeString("  <b>Learn</b> Go "))
	assert.Equal(t, "Tom &amp; Jerry", SanitizeString("Tom & Jerry"))
	assert.Equal(t, "logo", SanitizeString("logo data:image/png;base64,AAAA"))
}

func TestValidateStringLength(t *testing.T) {
	assert.NoError(t, ValidateStringLength("ün", 2, 50))
	assert.Error(t, ValidateStringLength(" a ", 2, 50))
	assert.Error(t, ValidateStringLength("abcdef", 2, 5))
}

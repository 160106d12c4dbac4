package utils

import (
	"fmt"
	"html"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// inputRule pairs a pattern with the message reported when it matches
type inputRule struct {
	pattern *regexp.Regexp
	message string
}

func rule(pattern, message string) inputRule {
	return inputRule{pattern: regexp.MustCompile(pattern), message: message}
}

var (
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	namePattern     = regexp.MustCompile(`^\p{L}+(?:[ '\-]\p{L}+)*$`)
	passwordCharset = regexp.MustCompile(`^[A-Za-z\d@$!%*?&]+$`)

	htmlTag = regexp.MustCompile(`<[^>]*>`)
	jsEvent = regexp.MustCompile(`(?i)on\w+\s*=\s*"[^"]*"`)
	dataURI = regexp.MustCompile(`data:[^;]+;base64,[^"'\s]+`)

	sqlRules = []inputRule{
		rule(`(?i)union(\s+all)?\s+select`, "SQL injection detected: 'UNION SELECT' pattern found"),
		rule(`(?i)insert\s+into`, "SQL injection detected: 'INSERT INTO' pattern found"),
		rule(`(?i)delete\s+from`, "SQL injection detected: 'DELETE FROM' pattern found"),
		rule(`(?i)drop\s+table`, "SQL injection detected: 'DROP TABLE' pattern found"),
		rule(`--\s*$|/\*.*\*/`, "SQL injection detected: SQL comment found"),
		rule(`(?i)xp_cmdshell|exec\s*\(|waitfor\s+delay`, "SQL injection detected: command execution found"),
		rule(`;`, "SQL injection detected: Multiple SQL statements detected"),
	}

	xssRules = []inputRule{
		rule(`(?i)<script`, "XSS detected: Script tag found"),
		rule(`(?i)(java|vb)script:`, "XSS detected: script protocol found"),
		rule(`(?i)on(load|error|click)\s*=`, "XSS detected: inline event handler found"),
		rule(`(?i)(eval|alert)\(`, "XSS detected: script call found"),
		rule(`(?i)document\.(cookie|write)|window\.location`, "XSS detected: DOM access found"),
	}

	passwordRules = []inputRule{
		rule(`[a-z]`, "Password must contain at least one lowercase letter"),
		rule(`[A-Z]`, "Password must contain at least one uppercase letter"),
		rule(`[0-9]`, "Password must contain at least one number"),
		rule(`[@$!%*?&]`, "Password must contain at least one special character (@$!%*?&)"),
	}
)

// firstMatch returns the message of the first rule matching input
func firstMatch(rules []inputRule, input string) (string, bool) {
	for _, r := range rules {
		if r.pattern.MatchString(input) {
			return r.message, true
		}
	}
	return "", false
}

// SanitizeString strips markup from free text and escapes what remains
func SanitizeString(input string) string {
	cleaned := htmlTag.ReplaceAllString(input, "")
	cleaned = jsEvent.ReplaceAllString(cleaned, "")
	cleaned = dataURI.ReplaceAllString(cleaned, "")
	return html.EscapeString(strings.TrimSpace(cleaned))
}

// ValidateSQLInjection reports false with a reason when input looks like SQL
func ValidateSQLInjection(input string) (bool, string) {
	if msg, found := firstMatch(sqlRules, input); found {
		return false, msg
	}
	return true, ""
}

// ValidateXSS reports false with a reason when input carries script
func ValidateXSS(input string) (bool, string) {
	if msg, found := firstMatch(xssRules, input); found {
		return false, msg
	}
	return true, ""
}

// safeInput runs both injection checks and prefixes the field name
func safeInput(field, input string) (bool, string) {
	if valid, msg := ValidateSQLInjection(input); !valid {
		return false, field + ": " + msg
	}
	if valid, msg := ValidateXSS(input); !valid {
		return false, field + ": " + msg
	}
	return true, ""
}

// ValidateEmail checks an account or contact email address
func ValidateEmail(email string) (bool, string) {
	if valid, msg := safeInput("Email", email); !valid {
		return false, msg
	}
	email = strings.TrimSpace(email)
	if len(email) > 254 || !emailPattern.MatchString(email) {
		return false, "Invalid email format. Please enter a valid email address"
	}
	return true, ""
}

// ValidatePassword enforces the account password policy. bcrypt ignores
// bytes past 72 so longer passwords are refused.
func ValidatePassword(password string) (bool, string) {
	if valid, msg := safeInput("Password", password); !valid {
		return false, msg
	}
	if len(password) < 8 || len(password) > 72 {
		return false, "Password must be between 8 and 72 characters long"
	}
	for _, r := range passwordRules {
		if !r.pattern.MatchString(password) {
			return false, r.message
		}
	}
	if !passwordCharset.MatchString(password) {
		return false, "Password can only contain letters, numbers, and special characters (@$!%*?&)"
	}
	return true, ""
}

// FormatPhoneNumber normalizes an Indian mobile number to its ten digits.
// A leading 0 or 91 country code is accepted.
func FormatPhoneNumber(phone string) (string, error) {
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, phone)

	switch {
	case len(digits) == 11 && strings.HasPrefix(digits, "0"):
		digits = digits[1:]
	case len(digits) == 12 && strings.HasPrefix(digits, "91"):
		digits = digits[2:]
	}

	if len(digits) != 10 {
		return "", fmt.Errorf("phone number must be exactly 10 digits")
	}
	if digits[0] < '6' || digits[0] > '9' {
		return "", fmt.Errorf("phone number must start with 6, 7, 8, or 9")
	}
	return digits, nil
}

// ValidatePhone returns the formatted number, or the reason it was refused.
// An empty number is allowed.
func ValidatePhone(phone string) (bool, string) {
	if phone == "" {
		return true, ""
	}
	if valid, msg := safeInput("Phone", phone); !valid {
		return false, msg
	}
	formatted, err := FormatPhoneNumber(phone)
	if err != nil {
		return false, err.Error()
	}
	return true, formatted
}

// ValidateName checks a first or last name. An empty name is allowed.
func ValidateName(name string) (bool, string) {
	if name == "" {
		return true, ""
	}
	if valid, msg := safeInput("Name", name); !valid {
		return false, msg
	}
	name = strings.TrimSpace(name)
	if n := utf8.RuneCountInString(name); n < 2 || n > 50 {
		return false, "Name must be between 2 and 50 characters long"
	}
	if !namePattern.MatchString(name) {
		return false, "Name can only contain letters, spaces, hyphens and apostrophes"
	}
	return true, ""
}

func ValidateConfirmPassword(password, confirmPassword string) (bool, string) {
	if password != confirmPassword {
		return false, "Passwords do not match"
	}
	return true, ""
}

// ValidatePrice validates a course price in whole currency units
func ValidatePrice(price int64) error {
	if price < 0 {
		return fmt.Errorf("price cannot be negative")
	}
	return nil
}

// ValidateStringLength checks the trimmed length of str in characters
func ValidateStringLength(str string, min, max int) error {
	length := utf8.RuneCountInString(strings.TrimSpace(str))
	if length < min {
		return fmt.Errorf("must be at least %d characters long", min)
	}
	if length > max {
		return fmt.Errorf("must not exceed %d characters", max)
	}
	return nil
}

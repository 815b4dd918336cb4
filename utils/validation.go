package utils

import (
	"regexp"
	"strings"

	"github.com/shreshta-sdc/shreshta-server/constants"
)

var (
	memberNamePattern = regexp.MustCompile(`^[a-zA-Z0-9\s\-_.]+$`)
	phonePattern      = regexp.MustCompile(`^\+?[0-9]+$`)
	utrPattern        = regexp.MustCompile(`^[0-9]+$`)
	emailPattern      = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// IsValidMemberName validates a team member's display name.
func IsValidMemberName(name string) bool {
	if len(name) < constants.MinNameLength || len(name) > constants.MaxNameLength {
		return false
	}

	trimmed := strings.TrimSpace(name)
	if len(trimmed) == 0 || len(trimmed) != len(name) {
		return false
	}

	if ContainsMaliciousPattern(name) {
		return false
	}

	if !memberNamePattern.MatchString(name) {
		return false
	}

	// No runs of separators
	if strings.Contains(name, "  ") ||
		strings.Contains(name, "--") ||
		strings.Contains(name, "__") {
		return false
	}

	return true
}

// IsValidPhone validates an Indian mobile number as entered on the
// form: digits only (optional +country prefix), 10-13 digits.
func IsValidPhone(phone string) bool {
	p := strings.TrimSpace(phone)
	if !phonePattern.MatchString(p) {
		return false
	}
	digits := strings.TrimPrefix(p, "+")
	return len(digits) >= constants.MinPhoneDigits && len(digits) <= constants.MaxPhoneDigits
}

// IsValidUTR validates the claimed bank transaction reference at form
// time: a plain digit string within bank-issued length bounds. The
// matcher itself never re-validates; empty strings simply never match.
func IsValidUTR(utr string) bool {
	u := strings.TrimSpace(utr)
	if len(u) < constants.MinUTRLength || len(u) > constants.MaxUTRLength {
		return false
	}
	return utrPattern.MatchString(u)
}

// IsValidEmail does a structural check on the sign-in email.
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(strings.TrimSpace(email))
}

// IsValidCollegeName validates the free-text college field.
func IsValidCollegeName(name string) bool {
	trimmed := strings.TrimSpace(name)
	if len(trimmed) == 0 || len(trimmed) > constants.MaxCollegeNameLength {
		return false
	}
	return !ContainsMaliciousPattern(trimmed)
}

// ContainsMaliciousPattern rejects input carrying injection payloads
// or abusive repetition before it reaches the store or sheet mirror.
func ContainsMaliciousPattern(input string) bool {
	lowerInput := strings.ToLower(input)
	for _, pattern := range constants.SecurityMaliciousPatterns {
		if strings.Contains(lowerInput, pattern) {
			return true
		}
	}

	if hasExcessiveRepeats(input, constants.MaxCharacterRepeats) {
		return true
	}

	for _, char := range input {
		if char < constants.ControlCharMin &&
			char != constants.ControlCharTab &&
			char != constants.ControlCharLF &&
			char != constants.ControlCharCR {
			return true
		}
	}

	return false
}

func hasExcessiveRepeats(input string, maxRepeats int) bool {
	if len(input) == 0 {
		return false
	}

	count := 1
	prev := rune(0)

	for _, char := range input {
		if char == prev {
			count++
			if count > maxRepeats {
				return true
			}
		} else {
			count = 1
			prev = char
		}
	}

	return false
}

// SanitizeString strips control characters and trims whitespace from
// free-text form values before they are stored or mirrored.
func SanitizeString(s string) string {
	var cleaned strings.Builder
	for _, r := range s {
		if r >= 32 || r == '\n' || r == '\t' {
			cleaned.WriteRune(r)
		}
	}
	return strings.TrimSpace(cleaned.String())
}

// TruncateString shortens s to maxLen with an ellipsis indicator.
func TruncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= len(constants.TruncateIndicator) {
		return constants.TruncateIndicator[:maxLen]
	}
	return s[:maxLen-len(constants.TruncateIndicator)] + constants.TruncateIndicator
}

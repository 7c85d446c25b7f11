// Package sanitizer normalizes guest-supplied contact data before
// validation and storage. All functions are idempotent and handle bad
// input by returning an empty string rather than an error.
package sanitizer

import (
	"strings"
	"unicode"
)

func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool

	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		} else {
			result.WriteRune(r)
			lastWasSpace = false
		}
	}

	return result.String()
}

func NormalizeName(name string) string {
	return TrimAndNormalize(name)
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizePhone strips separators, keeping digits and a single leading
// plus. Anything else (letters, empty input) yields "".
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return ""
	}

	var result strings.Builder
	for i, r := range phone {
		switch {
		case r >= '0' && r <= '9':
			result.WriteRune(r)
		case r == '+' && i == 0:
			result.WriteRune(r)
		case r == ' ' || r == '-' || r == '(' || r == ')' || r == '.':
			// separator, drop
		default:
			return ""
		}
	}

	normalized := result.String()
	if normalized == "" || normalized == "+" {
		return ""
	}
	return normalized
}

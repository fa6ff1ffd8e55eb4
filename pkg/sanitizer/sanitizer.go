// Package sanitizer normalizes tenant-supplied input before validation and
// storage. All functions are idempotent and handle bad input by returning
// empty values rather than errors.
package sanitizer

import (
	"strings"
	"unicode"
)

// TrimAndNormalize trims leading/trailing whitespace and collapses interior
// whitespace runs to a single space.
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
			continue
		}
		result.WriteRune(r)
		lastWasSpace = false
	}

	return result.String()
}

// NormalizeEmail lowercases and trims an email address. Format validation is
// the validator's job, not ours.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizePhone strips spaces, dashes and parentheses so numbers compare in
// E.164 form.
func NormalizePhone(s string) string {
	var result strings.Builder
	for _, r := range strings.TrimSpace(s) {
		switch {
		case r == '+' || unicode.IsDigit(r):
			result.WriteRune(r)
		case r == ' ' || r == '-' || r == '(' || r == ')':
			// dropped
		default:
			return strings.TrimSpace(s)
		}
	}
	return result.String()
}

// NormalizeList trims every entry, drops empties, and removes duplicates
// while preserving first-seen order.
func NormalizeList(items []string) []string {
	if len(items) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(items))
	result := make([]string, 0, len(items))

	for _, item := range items {
		normalized := TrimAndNormalize(item)
		if normalized == "" {
			continue
		}
		if _, dup := seen[normalized]; dup {
			continue
		}
		seen[normalized] = struct{}{}
		result = append(result, normalized)
	}

	if len(result) == 0 {
		return nil
	}
	return result
}

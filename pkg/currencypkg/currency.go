// Package currencypkg provides common currency related functionality for apps.
package currencypkg

import "strings"

// Constants for the currencies used as defaults across the app.
const (
	JOD = "JOD"
	USD = "USD"
	EUR = "EUR"
)

// Default is the currency of postings that name none.
const Default = JOD

// Normalize upper-cases and trims the currency code, falling back to
// fallback and then to Default when it is blank.
func Normalize(currency, fallback string) string {
	c := strings.ToUpper(strings.TrimSpace(currency))
	if c != "" {
		return c
	}

	if f := strings.ToUpper(strings.TrimSpace(fallback)); f != "" {
		return f
	}

	return Default
}

// IsCode returns true if the currency looks like an ISO 4217 alphabetic code.
func IsCode(currency string) bool {
	if len(currency) != 3 {
		return false
	}

	for _, r := range currency {
		if r < 'A' || r > 'Z' {
			return false
		}
	}

	return true
}

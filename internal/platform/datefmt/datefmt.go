// Package datefmt normalizes the plain-date strings the domain stores.
// Dates are kept as YYYY-MM-DD text so lexicographic comparison equals
// chronological comparison; every date entering the system passes through
// Normalize first.
package datefmt

import (
	"fmt"
	"strings"
	"time"
)

const layout = "2006-01-02"

// Normalize truncates a date-with-time value to its date portion and
// validates the result is a zero-padded ISO date.
func Normalize(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if i := strings.IndexAny(s, "T "); i >= 0 {
		s = s[:i]
	}
	if _, err := time.Parse(layout, s); err != nil {
		return "", fmt.Errorf("date invalide %q, format attendu YYYY-MM-DD", raw)
	}
	return s, nil
}

// Today returns the current date as a YYYY-MM-DD string.
func Today() string {
	return time.Now().Format(layout)
}

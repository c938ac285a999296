package util

import (
	"strings"
	"time"

	"fintrack/internal/apperr"
)

// ParseDate parses a transaction date. Accepts RFC3339, a bare datetime or a
// bare date; empty input defaults to now.
func ParseDate(s string) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return time.Now(), nil
	}
	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, apperr.Validation("invalid date %q, want YYYY-MM-DD", s)
}

// ValidateCurrency checks a 3-letter ISO-style currency code.
func ValidateCurrency(code string) error {
	if len(code) != 3 {
		return apperr.Validation("invalid currency %q", code)
	}
	for _, ch := range code {
		if ch < 'A' || ch > 'Z' {
			return apperr.Validation("invalid currency %q", code)
		}
	}
	return nil
}

// ValidateMonth checks a calendar month number.
func ValidateMonth(month int) error {
	if month < 1 || month > 12 {
		return apperr.Validation("month must be 1-12, got %d", month)
	}
	return nil
}

// MonthWindow returns [first day, first day of next month) for a calendar
// month, in local time.
func MonthWindow(year, month int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.Local)
	return start, start.AddDate(0, 1, 0)
}

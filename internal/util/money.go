package util

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"fintrack/internal/apperr"
)

// maxAmountCents caps single amounts at 100 million units.
const maxAmountCents = 100_000_000_00

// ParseAmount converts a decimal amount string (e.g. "12.34") into minor
// units. The amount must be positive and carry at most two decimals.
func ParseAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, apperr.Validation("amount is required")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, apperr.Validation("invalid amount %q", s)
	}
	return CheckAmount(f)
}

// CheckAmount converts a positive decimal amount into minor units.
func CheckAmount(f float64) (int64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, apperr.Validation("invalid amount")
	}
	cents := int64(math.Round(f * 100))
	if cents <= 0 {
		return 0, apperr.Validation("amount must be positive")
	}
	if cents > maxAmountCents {
		return 0, apperr.Validation("amount too large")
	}
	return cents, nil
}

// FormatCents renders minor units as a fixed two-decimal string.
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

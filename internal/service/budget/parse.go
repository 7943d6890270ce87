package budget

import (
	"strconv"
	"strings"

	"github.com/renohub/core/internal/domain"
)

// ParseAmount accepts the loose numeric formats users type in chat:
// "45000", "45 000", "45,000.50", "45000р", "45к" (thousands shorthand).
// No off-the-shelf currency parser fits this grammar, so it's hand-rolled
// as suffix trimming and separator normalization ahead of strconv.ParseFloat
// rather than a regex, kept small since the grammar is one rule deep.
func ParseAmount(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, domain.Validation("amount is required")
	}

	multiplier := 1.0
	lower := strings.ToLower(s)
	switch {
	case strings.HasSuffix(lower, "млн"):
		multiplier = 1_000_000
		s = s[:len(s)-len("млн")]
	case strings.HasSuffix(lower, "к"):
		multiplier = 1000
		s = s[:len(s)-len("к")]
	case strings.HasSuffix(lower, "k"):
		multiplier = 1000
		s = s[:len(s)-len("k")]
	}

	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "р")
	s = strings.TrimSuffix(s, "руб")
	s = strings.TrimSuffix(s, "₽")
	s = strings.TrimSpace(s)

	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "") // non-breaking space, common in pasted amounts
	if strings.Contains(s, ",") && strings.Contains(s, ".") {
		s = strings.ReplaceAll(s, ",", "") // comma used as a thousands separator alongside a decimal point
	} else {
		s = strings.ReplaceAll(s, ",", ".") // comma used as the decimal separator
	}

	if s == "" {
		return 0, domain.Validation("amount is required")
	}

	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, domain.Validation("couldn't parse that as an amount")
	}
	value *= multiplier
	if value < 0 {
		return 0, domain.Validation("amount cannot be negative")
	}
	return value, nil
}

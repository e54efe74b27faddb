package forms

import (
	"strconv"
	"strings"
)

// NormalizePhone strips everything but digits and checks for the national
// shape: exactly 12 digits starting with 998. The canonical stored form is
// the digits prefixed with "+", so "998901234567", "+998901234567" and a
// contact share all normalize identically.
func NormalizePhone(raw string) (string, bool) {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	d := digits.String()
	if len(d) != 12 || !strings.HasPrefix(d, "998") {
		return "", false
	}
	return "+" + d, true
}

func ValidUsername(raw string) bool {
	trimmed := strings.TrimSpace(raw)
	return strings.HasPrefix(trimmed, "@") && len(trimmed) >= 2
}

func ValidSalary(raw string) bool {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	return err == nil && n > 0
}

func ValidAge(raw string) bool {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	return err == nil && n >= 14 && n <= 100
}

func nonEmpty(raw string) bool {
	return strings.TrimSpace(raw) != ""
}

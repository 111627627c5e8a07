package utils

import (
	"errors"
	"strings"
	"unicode"
)

// ErrInvalidPhone signals that a phone string holds no digits at all.
var ErrInvalidPhone = errors.New("phone number required")

// NormalizePhone reduces a caller-supplied phone number to a canonical
// E.164-like form so identity lookups behave the same regardless of
// formatting. Bare 10-digit numbers are assumed to be US numbers.
func NormalizePhone(phone string) (string, error) {
	var b strings.Builder
	for _, r := range phone {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if digits == "" {
		return "", ErrInvalidPhone
	}
	if len(digits) == 11 && strings.HasPrefix(digits, "1") {
		digits = digits[1:]
	}
	if len(digits) == 10 {
		return "+1" + digits, nil
	}
	return "+" + digits, nil
}

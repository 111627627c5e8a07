package utils

import (
	"errors"
	"testing"
)

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"5551234567", "+15551234567"},
		{"15551234567", "+15551234567"},
		{"+1 (555) 123-4567", "+15551234567"},
		{"555.123.4567", "+15551234567"},
		{"+442071838750", "+442071838750"},
		{"442071838750", "+442071838750"},
		{"123", "+123"},
	}
	for _, tc := range cases {
		got, err := NormalizePhone(tc.in)
		if err != nil {
			t.Fatalf("NormalizePhone(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("NormalizePhone(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizePhoneIdempotent(t *testing.T) {
	once, err := NormalizePhone("(555) 123-4567")
	if err != nil {
		t.Fatalf("first pass: %v", err)
	}
	twice, err := NormalizePhone(once)
	if err != nil {
		t.Fatalf("second pass: %v", err)
	}
	if once != twice {
		t.Fatalf("normalization not idempotent: %q vs %q", once, twice)
	}
}

func TestNormalizePhoneRejectsEmpty(t *testing.T) {
	for _, in := range []string{"", "   ", "abc", "---"} {
		if _, err := NormalizePhone(in); !errors.Is(err, ErrInvalidPhone) {
			t.Fatalf("NormalizePhone(%q): expected ErrInvalidPhone, got %v", in, err)
		}
	}
}

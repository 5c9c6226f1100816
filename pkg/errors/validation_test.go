package errors

import (
	"math"
	"strings"
	"testing"
)

func TestValidatePrefix(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"empty", "", false},
		{"simple", "ABC-", false},
		{"unicode", "Ü-", false},
		{"too long", strings.Repeat("x", 65), true},
		{"slash", "a/b", true},
		{"backslash", `a\b`, true},
		{"newline", "a\nb", true},
		{"null byte", "a\x00b", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePrefix(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePrefix(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateRange(t *testing.T) {
	tests := []struct {
		start, end int
		wantErr    bool
	}{
		{1, 10, false},
		{10, 1, false},
		{0, MaxLabels - 1, false},
		{0, MaxLabels, true},
		{math.MaxInt - 1, math.MaxInt, false},
		{math.MinInt, math.MinInt + 1, false},
		{math.MinInt, math.MaxInt, true},
		{-1, MaxLabels - 2, false},
	}
	for _, tt := range tests {
		err := ValidateRange(tt.start, tt.end)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateRange(%d, %d) error = %v, wantErr %v", tt.start, tt.end, err, tt.wantErr)
		}
		if err != nil && !Is(err, ErrCodeInvalidInput) {
			t.Errorf("ValidateRange code = %v", GetCode(err))
		}
	}
}

func TestSafeFilename(t *testing.T) {
	tests := map[string]string{
		"ABC-":     "ABC-",
		"a/b:c":    "a_b_c",
		"  ":       "labels",
		"..":       "labels",
		"x\ty":     "x_y",
		"Lot 2024": "Lot 2024",
	}
	for in, want := range tests {
		if got := SafeFilename(in); got != want {
			t.Errorf("SafeFilename(%q) = %q, want %q", in, got, want)
		}
	}
}

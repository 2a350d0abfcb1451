// ABOUTME: Tests for numeric input sanitizing.
// ABOUTME: Covers comma decimals, stray characters and empty input.
package nutrition

import "testing"

func TestSanitizeNumeric(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"120", "120"},
		{"12.5g", "12.5"},
		{"1,5", "1.5"},
		{"1.2.3", "1.23"},
		{"abc", ""},
		{"-4", "4"},
		{" 3 00 ", "300"},
	}
	for _, tt := range tests {
		if got := SanitizeNumeric(tt.in); got != tt.want {
			t.Errorf("SanitizeNumeric(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseNumeric(t *testing.T) {
	if got := ParseNumeric("250 g"); got != 250 {
		t.Errorf("ParseNumeric = %f, want 250", got)
	}
	if got := ParseNumeric(""); got != 0 {
		t.Errorf("ParseNumeric(empty) = %f, want 0", got)
	}
	if got := ParseNumeric("."); got != 0 {
		t.Errorf("ParseNumeric(.) = %f, want 0", got)
	}
}

func TestParseOptionalNumeric(t *testing.T) {
	if got := ParseOptionalNumeric(""); got != nil {
		t.Errorf("expected nil for blank input, got %v", *got)
	}
	got := ParseOptionalNumeric("0")
	if got == nil || *got != 0 {
		t.Error("expected explicit zero to be preserved")
	}
}

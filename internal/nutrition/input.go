// ABOUTME: Numeric input sanitizing for weights and macro fields.
// ABOUTME: Strips everything but digits and one decimal separator.
package nutrition

import (
	"strconv"
	"strings"
)

// SanitizeNumeric keeps digits and the first decimal separator. A comma is
// accepted as a decimal separator and normalized to a dot.
func SanitizeNumeric(input string) string {
	var b strings.Builder
	seenDot := false
	for _, r := range input {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case (r == '.' || r == ',') && !seenDot:
			seenDot = true
			b.WriteRune('.')
		}
	}
	return b.String()
}

// ParseNumeric sanitizes input and converts it to a number. Empty or
// unparseable input reads as zero.
func ParseNumeric(input string) float64 {
	s := SanitizeNumeric(input)
	if s == "" || s == "." {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// ParseOptionalNumeric is like ParseNumeric but returns nil for input with no
// digits, so a blank macro field stays unknown instead of becoming zero.
func ParseOptionalNumeric(input string) *float64 {
	s := SanitizeNumeric(input)
	if strings.Trim(s, ".") == "" {
		return nil
	}
	v := ParseNumeric(s)
	return &v
}

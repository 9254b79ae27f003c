package utils

import (
	"strconv"
	"strings"
)

// FormatWithCommas renders n with thousands separators for display.
func FormatWithCommas(n int) string {
	s := strconv.Itoa(n)
	start := 0
	if s[0] == '-' {
		start = 1
	}
	digits := len(s) - start
	if digits <= 3 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + (digits-1)/3)
	b.WriteString(s[:start])
	lead := digits % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(s[start : start+lead])
	for i := start + lead; i < len(s); i += 3 {
		b.WriteByte(',')
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

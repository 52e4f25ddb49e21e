package frontend

import (
	"strings"
	"unicode"
)

const (
	defaultFanout = 10
	maxFanout     = 50
	// saturation keeps absurdly long digit strings from overflowing.
	saturation = 1 << 31
)

// parseCount interprets the n query value. The leading integer is used, so
// "12abc" is 12; anything without one, and zero, selects the default. Values
// are capped at maxFanout. Negative values pass through and produce an empty
// result list.
func parseCount(raw string) int {
	n, ok := leadingInt(raw)
	if !ok || n == 0 {
		n = defaultFanout
	}
	return min(n, maxFanout)
}

func leadingInt(raw string) (int, bool) {
	s := strings.TrimLeftFunc(raw, unicode.IsSpace)
	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}
	n, digits := 0, 0
	for _, c := range s {
		if c < '0' || c > '9' {
			break
		}
		digits++
		if n < saturation {
			n = n*10 + int(c-'0')
		}
	}
	if digits == 0 {
		return 0, false
	}
	if neg {
		n = -n
	}
	return n, true
}

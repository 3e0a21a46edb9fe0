// Package utils holds small text helpers shared across packages.
package utils

import "unicode/utf8"

// Truncate shortens s so the result is at most max runes, appending an
// ellipsis when cut.
func Truncate(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

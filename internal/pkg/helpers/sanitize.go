package helpers

import (
	"strings"
	"unicode"
)

// Sanitize removes every rune that is not a letter, digit or whitespace,
// keeping the remaining runes in their original order.
func Sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, s)
}

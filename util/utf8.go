package util

import (
	"unicode/utf8"
)

// TruncateUTF8 cuts the given string to at most maxBytes without splitting a multi-byte rune
func TruncateUTF8(s string, maxBytes int) string {
	if len(s) <= maxBytes {
		return s
	}
	cut := maxBytes
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

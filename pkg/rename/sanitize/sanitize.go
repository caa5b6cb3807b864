// Package sanitize makes synthesized file stems safe to use as file names on
// every platform the tool runs on.
package sanitize

import (
	"strings"
	"unicode"
)

const (
	// MaxLength is the maximum stem length in characters.
	MaxLength = 240

	// Fallback replaces a stem that is empty after cleaning.
	Fallback = "untitled"

	replacement = '_'
)

// illegal holds the printable characters that Windows refuses in file names.
const illegal = `<>:"/\|?*`

// Sanitize replaces illegal characters with underscores, trims trailing
// whitespace and dots, and truncates to MaxLength characters. It is
// idempotent and must only be applied to a stem, never to an extension.
func Sanitize(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if isIllegal(r) {
			b.WriteRune(replacement)
			continue
		}
		b.WriteRune(r)
	}

	runes := []rune(trimTail(b.String()))
	if len(runes) > MaxLength {
		// Truncation can expose new trailing whitespace or dots.
		runes = []rune(trimTail(string(runes[:MaxLength])))
	}
	if len(runes) == 0 {
		return Fallback
	}
	return string(runes)
}

// IsClean reports whether name is already in sanitized form.
func IsClean(name string) bool {
	return Sanitize(name) == name
}

func isIllegal(r rune) bool {
	return r < 0x20 || strings.ContainsRune(illegal, r)
}

func trimTail(s string) string {
	return strings.TrimRightFunc(s, func(r rune) bool {
		return r == '.' || unicode.IsSpace(r)
	})
}

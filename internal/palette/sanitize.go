package palette

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// ansiRE matches CSI, OSC, charset and other two-byte escape sequences.
var ansiRE = regexp.MustCompile(`\x1b(?:` +
	`\[[0-9;?]*[A-Za-z]` +
	`|` +
	`\].*?(?:\x1b\\|\x07)` +
	`|` +
	`[()][A-B0-2]` +
	`|` +
	`[#*+\-./][A-Za-z0-9]` +
	`)`)

// Sanitize makes a label safe to draw on one terminal line: escape
// sequences are removed, invalid UTF-8 becomes U+FFFD, and remaining
// control characters become spaces.
func Sanitize(s string) string {
	s = ansiRE.ReplaceAllString(s, "")
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, string(utf8.RuneError))
	}
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, s)
}

// MiddleTruncate shortens s to at most width display columns by replacing
// its middle with an ellipsis. Paths keep both their root and their leaf
// that way. Below three columns s is cut from the right.
func MiddleTruncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	if width < 3 {
		return headOf(s, width)
	}

	const ellipsis = "…"
	room := width - 1
	return headOf(s, (room+1)/2) + ellipsis + tailOf(s, room/2)
}

// headOf returns the longest prefix of s at most width columns wide.
func headOf(s string, width int) string {
	w := 0
	for i, r := range s {
		w += runewidth.RuneWidth(r)
		if w > width {
			return s[:i]
		}
	}
	return s
}

// tailOf returns the longest suffix of s at most width columns wide.
func tailOf(s string, width int) string {
	w := 0
	cut := len(s)
	for cut > 0 {
		r, size := utf8.DecodeLastRuneInString(s[:cut])
		w += runewidth.RuneWidth(r)
		if w > width {
			break
		}
		cut -= size
	}
	return s[cut:]
}

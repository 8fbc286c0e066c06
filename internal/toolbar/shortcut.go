package toolbar

// shortcutLetters skips A, C, V and X, which are taken by edit bindings.
const shortcutLetters = "BDEFGHIJKLMNOPQRSTUWYZ"

// ShortcutFor returns the shortcut key of the result at index i, or "" when
// the index has none.
func ShortcutFor(i int) string {
	switch {
	case i < 0:
		return ""
	case i < 9:
		return string(rune('1' + i))
	case i-9 < len(shortcutLetters):
		return shortcutLetters[i-9 : i-8]
	default:
		return ""
	}
}

// IndexForShortcut is the inverse of ShortcutFor. Letters match in either
// case.
func IndexForShortcut(key string) (int, bool) {
	if len(key) != 1 {
		return 0, false
	}
	c := key[0]
	if c >= '1' && c <= '9' {
		return int(c - '1'), true
	}
	if c >= 'a' && c <= 'z' {
		c -= 'a' - 'A'
	}
	for i := 0; i < len(shortcutLetters); i++ {
		if shortcutLetters[i] == c {
			return 9 + i, true
		}
	}
	return 0, false
}

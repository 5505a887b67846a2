package codec

import (
	"strconv"
	"strings"
)

// escapeMarker is appended to literal strings whose shape collides with a
// type encoding. Two ASCII characters: a backslash and a zero.
const escapeMarker = `\0`

// isTypeLike reports whether a literal string would be mistaken for an
// encoded value: a numeric prefix with one of the type suffixes, or an
// array payload prefix.
func isTypeLike(s string) bool {
	if len(s) < 2 {
		return false
	}

	switch s[len(s)-1] {
	case 'b', 's', 'L', 'f', 'd':
		if _, err := strconv.ParseFloat(s[:len(s)-1], 64); err == nil {
			return true
		}
	}

	if len(s) > 2 && s[1] == ';' {
		switch s[0] {
		case 'B', 'I', 'L':
			return true
		}
	}

	return false
}

// needsEscape reports whether encoding must append the escape marker. A
// string already ending in the marker is escaped again, so decoding's single
// strip lands on the original literal.
func needsEscape(s string) bool {
	return isTypeLike(s) || strings.HasSuffix(s, escapeMarker)
}

package textutil

import (
	"strings"
	"unicode/utf8"
)

// IsHTMLComment reports whether s is an HTML comment such as "<!-- note -->".
func IsHTMLComment(s string) bool {
	trimmed := strings.TrimSpace(s)
	return strings.HasPrefix(trimmed, "<!--")
}

// Interpolated reports whether s contains a Ruby string interpolation.
func Interpolated(s string) bool {
	return strings.Contains(s, "#{")
}

// Unquote strips one pair of matching surrounding quotes from s.
func Unquote(s string) (string, bool) {
	if len(s) < 2 {
		return s, false
	}
	first, last := s[0], s[len(s)-1]
	if (first == '"' || first == '\'') && first == last {
		return s[1 : len(s)-1], true
	}
	return s, false
}

// Truncate shortens a string to maxLen runes, appending "..." if truncated.
func Truncate(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	return string([]rune(s)[:maxLen]) + "..."
}

// UnescapeQuotes resolves backslash-escaped quotes left in the content of
// a string literal.
func UnescapeQuotes(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	return strings.NewReplacer(`\'`, `'`, `\"`, `"`).Replace(s)
}

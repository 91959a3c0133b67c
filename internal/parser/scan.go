package parser

// Skip helpers walk the head of a tag line: indentation, %name, .class/#id
// shorthand and attribute blocks. Each takes a byte offset and returns the
// offset after the skipped part, or pos unchanged when nothing matches.

// SkipIndent skips leading spaces and tabs.
func SkipIndent(s string, pos int) int {
	for pos < len(s) && (s[pos] == ' ' || s[pos] == '\t') {
		pos++
	}
	return pos
}

// SkipTagName skips a %name element token.
func SkipTagName(s string, pos int) int {
	if pos >= len(s) || s[pos] != '%' {
		return pos
	}
	end := pos + 1
	for end < len(s) && (isWordByte(s[end]) || s[end] == ':' || s[end] == '-') {
		end++
	}
	if end == pos+1 {
		return pos
	}
	return end
}

// SkipShorthand skips any run of .class and #id tokens.
func SkipShorthand(s string, pos int) int {
	for pos+1 < len(s) && (s[pos] == '.' || s[pos] == '#') && (isWordByte(s[pos+1]) || s[pos+1] == '-') {
		pos++
		for pos < len(s) && (isWordByte(s[pos]) || s[pos] == '-') {
			pos++
		}
	}
	return pos
}

// SkipAttributeBlocks skips consecutive {...}, (...) and [...] blocks.
func SkipAttributeBlocks(s string, pos int) int {
	for pos < len(s) {
		switch s[pos] {
		case '{', '(', '[':
			pos = BlockEnd(s, pos)
		default:
			return pos
		}
	}
	return pos
}

// SkipTagHead skips indentation, element name, shorthand and attribute
// blocks.
func SkipTagHead(s string) int {
	pos := SkipIndent(s, 0)
	pos = SkipTagName(s, pos)
	pos = SkipShorthand(s, pos)
	return SkipAttributeBlocks(s, pos)
}

// BlockEnd returns the offset just past the bracket that closes the block
// opened at pos. Brackets inside quoted strings are ignored. An unclosed
// block extends to the end of s.
func BlockEnd(s string, pos int) int {
	depth := 0
	for i := pos; i < len(s); i++ {
		switch c := s[i]; c {
		case '\'', '"':
			i = stringEnd(s, i)
		case '{', '(', '[':
			depth++
		case '}', ')', ']':
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return len(s)
}

// stringEnd returns the offset of the quote closing the string opened at
// pos, honouring backslash escapes.
func stringEnd(s string, pos int) int {
	q := s[pos]
	for i := pos + 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case q:
			return i
		}
	}
	return len(s) - 1
}

func isWordByte(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

package replacer

import (
	"regexp"
	"strings"

	"i18n-extractor/internal/finder"
	"i18n-extractor/internal/parser"
)

// Locate returns the byte range of text in line. For tag lines the scan
// starts after the tag head so that a match inside the attributes is not
// taken for content, or right after the attribute key for attribute
// placements. A quoted occurrence includes its quotes.
func Locate(line, text string, typ parser.LineType, place finder.Placement, attribute string) (int, int, bool) {
	from := 0
	if typ == parser.LineTag {
		from = ScanStart(line, place, attribute)
	}
	start, end, ok := findSpan(line, text, from)
	if ok && typ == parser.LinePlain {
		start = widenEscape(line, start)
	}
	return start, end, ok
}

// widenEscape pulls in the backslash that escapes a plain line's first
// character, so the escape goes away with the text it protected.
func widenEscape(line string, start int) int {
	if start > 0 && line[start-1] == '\\' && start-1 == parser.SkipIndent(line, 0) {
		return start - 1
	}
	return start
}

// ScanStart returns where the search for a tag's text begins.
func ScanStart(line string, place finder.Placement, attribute string) int {
	if place == finder.PlaceContent {
		return parser.SkipTagHead(line)
	}
	pos := parser.SkipIndent(line, 0)
	pos = parser.SkipTagName(line, pos)
	pos = parser.SkipShorthand(line, pos)
	if loc := attributeKey(attribute).FindStringIndex(line[pos:]); loc != nil {
		return pos + loc[1]
	}
	return pos
}

// attributeKey matches the spellings of an attribute key: name: value,
// name=value, :name => value, "name": value and "name" => value.
func attributeKey(name string) *regexp.Regexp {
	n := regexp.QuoteMeta(name)
	return regexp.MustCompile(`\b` + n + `:\s*` +
		`|\b` + n + `\s*=\s*` +
		`|:` + n + `\s*=>\s*` +
		`|["']` + n + `["']:\s*` +
		`|["']` + n + `["']\s*=>\s*`)
}

// findSpan scans left to right from for text, preferring at each position
// an occurrence wrapped in matching quotes.
func findSpan(line, text string, from int) (int, int, bool) {
	if text == "" {
		return 0, 0, false
	}
	for p := from; p < len(line); p++ {
		if c := line[p]; c == '\'' || c == '"' {
			end := p + 1 + len(text)
			if end < len(line) && line[end] == c && strings.HasPrefix(line[p+1:], text) {
				return p, end + 1, true
			}
		}
		if strings.HasPrefix(line[p:], text) {
			return p, p + len(text), true
		}
	}
	return 0, 0, false
}

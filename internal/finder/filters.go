package finder

import (
	"regexp"
	"strings"
)

// Filter drops candidates that are not prose. Apply receives the surviving
// candidates and the full text they were found in.
type Filter struct {
	Name  string
	Apply func(items []string, text string) []string
}

// Chain is the ordered filter chain run over quoted-literal candidates.
var Chain = []Filter{
	{Name: "quote-artifacts", Apply: dropQuoteArtifacts},
	{Name: "ui-glyphs", Apply: dropGlyphs},
	{Name: "partial-renders", Apply: dropPartialName},
	{Name: "component-names", Apply: dropComponentName},
	{Name: "data-bind-values", Apply: dropDataBindValue},
	{Name: "programmatic", Apply: dropProgrammatic},
}

// Glyphs are single UI elements that are never translated.
var Glyphs = map[string]bool{
	"•": true, "x": true, "×": true, "+": true, "|": true, "‧": true,
	"*": true, "-": true, "(": true, ")": true, "{": true, "}": true,
	"[": true, "]": true, "&times;": true, "&nbsp;x": true,
}

func keep(items []string, pred func(string) bool) []string {
	out := make([]string, 0, len(items))
	for _, s := range items {
		if pred(s) {
			out = append(out, s)
		}
	}
	return out
}

func dropQuoteArtifacts(items []string, _ string) []string {
	return keep(items, func(s string) bool {
		return s != "" && s != "'" && s != `"` && !strings.HasPrefix(s, ",")
	})
}

func dropGlyphs(items []string, _ string) []string {
	return keep(items, func(s string) bool { return !Glyphs[s] })
}

func dropPartialName(items []string, text string) []string {
	return dropCaptured(items, renderPartial, text)
}

func dropComponentName(items []string, text string) []string {
	return dropCaptured(items, component, text)
}

// dropCaptured removes the candidate equal to the first participating
// capture group of re in text.
func dropCaptured(items []string, re *regexp.Regexp, text string) []string {
	loc := re.FindStringSubmatchIndex(text)
	if loc == nil {
		return items
	}
	for g := 2; g+1 < len(loc); g += 2 {
		if loc[g] < 0 {
			continue
		}
		name := text[loc[g]:loc[g+1]]
		return keep(items, func(s string) bool { return s != name })
	}
	return items
}

func dropDataBindValue(items []string, text string) []string {
	return dropCaptured(items, dataBind, text)
}

var (
	formatToken  = regexp.MustCompile(`%\w`)
	lowerIdent   = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)
	joinedTokens = regexp.MustCompile(`\b[a-z]+[-_/][a-z]+\b`)
)

// programmaticMarkers are substrings that only show up in code or in
// date/time formats.
var programmaticMarkers = []string{
	"()", "$data", "$parent", "$root", "$index",
	"yy", "-mm-", "-dd-", "h:mm",
}

// Programmatic reports whether s looks like an identifier, binding or
// format string rather than prose.
func Programmatic(s string) bool {
	if formatToken.MatchString(s) || lowerIdent.MatchString(s) || joinedTokens.MatchString(s) {
		return true
	}
	for _, m := range programmaticMarkers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}

func dropProgrammatic(items []string, _ string) []string {
	return keep(items, func(s string) bool { return !Programmatic(s) })
}

package interpolation

import (
	"fmt"
	"regexp"
	"strings"
)

// Mapping stores one #{expr} interpolation and the i18n variable that
// replaces it.
type Mapping struct {
	// Original is the full interpolation, e.g. #{@user.name}.
	Original string
	// Expr is the Ruby expression inside the braces.
	Expr string
	// Name is the i18n variable name, e.g. user_name.
	Name string
	// Placeholder is the i18n placeholder, e.g. %{user_name}.
	Placeholder string
	Index       int
}

// varMatch stores a detected interpolation position.
type varMatch struct {
	start, end int
	expr       string
}

var nonWord = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// Protect replaces every #{expr} in text with an %{name} placeholder.
// Returns the i18n-ready string and the mappings in order of appearance.
func Protect(text string) (string, []Mapping) {
	matches := find(text)
	if len(matches) == 0 {
		return text, nil
	}

	mappings := make([]Mapping, 0, len(matches))
	byExpr := make(map[string]string)
	used := make(map[string]bool)
	for i, m := range matches {
		name, seen := byExpr[m.expr]
		if !seen {
			name = uniqueName(variableName(m.expr, i+1), used)
			byExpr[m.expr] = name
			used[name] = true
		}
		mappings = append(mappings, Mapping{
			Original:    text[m.start:m.end],
			Expr:        m.expr,
			Name:        name,
			Placeholder: "%{" + name + "}",
			Index:       i + 1,
		})
	}

	result := text
	// Replace in reverse order to preserve indices.
	for i := len(matches) - 1; i >= 0; i-- {
		m := matches[i]
		result = result[:m.start] + mappings[i].Placeholder + result[m.end:]
	}
	return result, mappings
}

// CallArgs renders the keyword arguments a t() call needs for mappings,
// e.g. ", user_name: (@user.name)". Repeated variables appear once.
func CallArgs(mappings []Mapping) string {
	var b strings.Builder
	seen := make(map[string]bool)
	for _, m := range mappings {
		if seen[m.Name] {
			continue
		}
		seen[m.Name] = true
		fmt.Fprintf(&b, ", %s: (%s)", m.Name, m.Expr)
	}
	return b.String()
}

// find locates #{...} spans with balanced braces.
func find(text string) []varMatch {
	var out []varMatch
	for i := 0; i+1 < len(text); i++ {
		if text[i] != '#' || text[i+1] != '{' {
			continue
		}
		depth := 0
		for j := i + 1; j < len(text); j++ {
			switch text[j] {
			case '{':
				depth++
			case '}':
				depth--
			}
			if depth == 0 {
				out = append(out, varMatch{start: i, end: j + 1, expr: strings.TrimSpace(text[i+2 : j])})
				i = j
				break
			}
		}
	}
	return out
}

func variableName(expr string, index int) string {
	name := strings.Trim(nonWord.ReplaceAllString(strings.ToLower(expr), "_"), "_")
	if name == "" || (name[0] >= '0' && name[0] <= '9') {
		return fmt.Sprintf("var_%d", index)
	}
	return name
}

func uniqueName(name string, used map[string]bool) string {
	if !used[name] {
		return name
	}
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s_%d", name, n)
		if !used[candidate] {
			return candidate
		}
	}
}

package finder

import (
	"regexp"
	"strings"
)

// Kind tags the shape of an extraction result.
type Kind int

const (
	None Kind = iota
	Single
	Multiple
)

func (k Kind) String() string {
	switch k {
	case Single:
		return "single"
	case Multiple:
		return "multiple"
	default:
		return "none"
	}
}

// Result is what the candidate extractor found in one text span.
type Result struct {
	Kind  Kind
	Text  string
	Texts []string
}

// NoMatch is the empty result.
func NoMatch() Result { return Result{} }

// One wraps a single string.
func One(s string) Result { return Result{Kind: Single, Text: s} }

// Many wraps an ordered list; zero items collapse to none and one item to
// a single result.
func Many(items []string) Result {
	switch len(items) {
	case 0:
		return NoMatch()
	case 1:
		return One(items[0])
	default:
		return Result{Kind: Multiple, Texts: items}
	}
}

// Values returns the matched strings in order.
func (r Result) Values() []string {
	switch r.Kind {
	case Single:
		return []string{r.Text}
	case Multiple:
		return r.Texts
	default:
		return nil
	}
}

// Empty reports whether there is nothing to translate: no match, or a
// single empty string.
func (r Result) Empty() bool {
	return r.Kind == None || (r.Kind == Single && r.Text == "")
}

// Extractor finds translatable strings in a text span.
type Extractor interface {
	Extract(text string) Result
}

// RuleExtractor runs the pattern rule cascade and the filter chain.
type RuleExtractor struct{}

func NewRuleExtractor() *RuleExtractor { return &RuleExtractor{} }

func (RuleExtractor) Extract(text string) Result {
	return Extract(text)
}

// Extract runs the cascade over text. The first structural branch that
// applies decides the result; text matching nothing passes through.
func Extract(text string) Result {
	var res Result

	if m := arrayOfStrings.FindStringSubmatch(text); m != nil {
		res = Many(splitArray(m[1]))
	} else if nestedFormFor.MatchString(text) || attributePlaceholders[strings.TrimSpace(text)] {
		return NoMatch()
	} else if literals := QuotedLiterals(text); len(literals) > 0 {
		for _, f := range Chain {
			literals = f.Apply(literals, text)
		}
		res = Many(literals)
	} else {
		res = One(text)
		for _, r := range Rules {
			if r.Arity != CaptureOne {
				continue
			}
			if m := r.Pattern.FindStringSubmatch(text); m != nil {
				res = One(m[1])
				break
			}
		}
	}

	return Many(dropGlyphs(res.Values(), text))
}

func splitArray(body string) []string {
	body = strings.NewReplacer("'", "", `"`, "").Replace(body)
	if body == "" {
		return nil
	}
	return strings.Split(body, ", ")
}

// QuotedLiterals returns the contents of the quoted strings in text, in
// order, leaving out strings already passed to a translation call and
// values of a class key.
func QuotedLiterals(text string) []string {
	var out []string
	for _, loc := range quotedStrings.FindAllStringIndex(text, -1) {
		if classKey.MatchString(text[:loc[0]]) {
			continue
		}
		s := text[loc[0]+1 : loc[1]-1]
		if Translated(s, text) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// Translated reports whether s already appears as the argument of a t()
// call in text. The closing parenthesis is not required so that calls with
// interpolation arguments count.
func Translated(s, text string) bool {
	re := regexp.MustCompile(`(?:^|[^\w])t\(\s*['"]?` + regexp.QuoteMeta(s))
	return re.MatchString(text)
}

// CouldMatch is a cheap pre-check: after leading whitespace the text opens
// a string literal, or some rule matches it.
func CouldMatch(text string) bool {
	trimmed := strings.TrimLeft(text, " \t")
	if strings.HasPrefix(trimmed, "'") || strings.HasPrefix(trimmed, `"`) {
		return true
	}
	for _, r := range Rules {
		if r.Pattern.MatchString(text) {
			return true
		}
	}
	return false
}

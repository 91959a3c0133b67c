package finder

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"i18n-extractor/internal/hashlit"
	"i18n-extractor/internal/parser"
	"i18n-extractor/internal/textutil"
)

// Placement says where in a line an extracted string sits.
type Placement int

const (
	PlaceContent Placement = iota
	PlaceAttribute
)

func (p Placement) String() string {
	if p == PlaceAttribute {
		return "attribute"
	}
	return "content"
}

// Extraction is one translatable span found on a line.
type Extraction struct {
	LineType      parser.LineType
	Match         Result
	Place         Placement
	AttributeName string
	Line          parser.SourceLine
}

// TranslatableAttributes are the tag attributes whose literal values are
// extracted, in emission order.
var TranslatableAttributes = []string{"title", "alt", "placeholder", "aria-label"}

// Classifier routes each line type to its extraction strategy.
type Classifier struct {
	extractor Extractor
}

// NewClassifier creates a Classifier. A nil extractor uses the rule cascade.
func NewClassifier(ex Extractor) *Classifier {
	if ex == nil {
		ex = NewRuleExtractor()
	}
	return &Classifier{extractor: ex}
}

// Classify returns the extractions for line. Line types without a strategy
// yield none and must be left untouched.
func (c *Classifier) Classify(line parser.SourceLine) []Extraction {
	switch line.Type {
	case parser.LinePlain:
		return c.plain(line)
	case parser.LineTag:
		return c.tag(line)
	case parser.LineScript:
		return c.script(line)
	default:
		return nil
	}
}

func (c *Classifier) plain(line parser.SourceLine) []Extraction {
	txt := line.Text
	if textutil.IsHTMLComment(txt) || utf8.RuneCountInString(txt) == 1 {
		return nil
	}
	return []Extraction{{LineType: parser.LinePlain, Match: One(txt), Line: line}}
}

func (c *Classifier) tag(line parser.SourceLine) []Extraction {
	if line.Tag == nil {
		return nil
	}
	var out []Extraction

	for _, name := range TranslatableAttributes {
		value, ok := AttributeValue(line.Tag, name)
		if !ok {
			continue
		}
		out = append(out, Extraction{
			LineType:      parser.LineTag,
			Match:         One(value),
			Place:         PlaceAttribute,
			AttributeName: name,
			Line:          line,
		})
	}

	txt := line.Tag.Value
	if txt == "" {
		return out
	}
	content := Extraction{LineType: parser.LineTag, Place: PlaceContent, Line: line}
	switch {
	case line.Tag.Parse && !CouldMatch(txt):
		content.Match = One("")
	case line.Tag.Parse:
		content.Match = c.extractor.Extract(txt)
	default:
		// Plain text inside a tag is forwarded as is; running the cascade
		// would misread quotes that are part of the prose.
		if utf8.RuneCountInString(txt) <= 1 || textutil.IsHTMLComment(txt) || len(dropGlyphs([]string{txt}, txt)) == 0 {
			return out
		}
		content.Match = One(txt)
	}
	return append(out, content)
}

func (c *Classifier) script(line parser.SourceLine) []Extraction {
	match := One("")
	if CouldMatch(line.Text) {
		match = c.extractor.Extract(line.Text)
	}
	return []Extraction{{LineType: parser.LineScript, Match: match, Line: line}}
}

// AttributeValue returns the literal string value of the named attribute.
// It looks in the static attributes, then the dynamic attribute hashes,
// then the raw attribute hash source. A dynamic hash that does not parse
// counts as the attribute being absent.
func AttributeValue(tag *parser.TagFields, name string) (string, bool) {
	if v, ok := tag.Attributes[name]; ok {
		return v, true
	}
	for _, src := range []string{tag.DynamicAttributes.Old, tag.DynamicAttributes.New} {
		if src == "" {
			continue
		}
		h, err := hashlit.Parse(src)
		if err != nil {
			continue
		}
		if v, ok := h.String(name); ok {
			return v, true
		}
	}
	re := regexp.MustCompile(`(?:\b` + regexp.QuoteMeta(name) + `\s*:|:` + regexp.QuoteMeta(name) + `\s*=>)\s*([^,]+)`)
	for _, hash := range tag.AttributesHashes {
		m := re.FindStringSubmatch(hash)
		if m == nil {
			continue
		}
		if v, ok := textutil.Unquote(strings.TrimSpace(m[1])); ok {
			return v, true
		}
		return "", false
	}
	return "", false
}

// MultiValue reports whether the extraction carries an ordered list, as
// for script lines passing several literals.
func (e Extraction) MultiValue() bool {
	return e.Match.Kind == Multiple
}

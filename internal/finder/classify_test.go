package finder

import (
	"testing"

	"i18n-extractor/internal/parser"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func classify(raw string) []Extraction {
	return NewClassifier(nil).Classify(parser.ParseLine(raw))
}

func TestClassifier_TagContent(t *testing.T) {
	got := classify("%p Hello world")
	require.Len(t, got, 1)
	assert.Equal(t, parser.LineTag, got[0].LineType)
	assert.Equal(t, PlaceContent, got[0].Place)
	assert.Equal(t, One("Hello world"), got[0].Match)
}

func TestClassifier_TagAttributes(t *testing.T) {
	got := classify("%img{alt: 'Company logo', src: logo_path}")
	require.Len(t, got, 1)
	assert.Equal(t, PlaceAttribute, got[0].Place)
	assert.Equal(t, "alt", got[0].AttributeName)
	assert.Equal(t, One("Company logo"), got[0].Match)

	got = classify(`%input(type="text" placeholder="Your email")`)
	require.Len(t, got, 1)
	assert.Equal(t, "placeholder", got[0].AttributeName)
	assert.Equal(t, One("Your email"), got[0].Match)
}

func TestClassifier_AttributesBeforeContent(t *testing.T) {
	got := classify("%a{title: 'Open menu'} Menu")
	require.Len(t, got, 2)
	assert.Equal(t, PlaceAttribute, got[0].Place)
	assert.Equal(t, "Open menu", got[0].Match.Text)
	assert.Equal(t, PlaceContent, got[1].Place)
	assert.Equal(t, "Menu", got[1].Match.Text)
}

func TestClassifier_TagScriptContent(t *testing.T) {
	got := classify(`%p= link_to "Sign in", login_path`)
	require.Len(t, got, 1)
	assert.Equal(t, One("Sign in"), got[0].Match)

	got = classify("%p= current_user.name")
	require.Len(t, got, 1)
	assert.True(t, got[0].Match.Empty())
}

func TestClassifier_TagSkipsGlyphAndSingleRune(t *testing.T) {
	assert.Empty(t, classify("%span ×"))
	assert.Empty(t, classify("%span A"))
	assert.Empty(t, classify("%span <!-- note -->"))
}

func TestClassifier_Script(t *testing.T) {
	got := classify(`= f.input :email, label: 'BLAH', hint: 'BLABBLOO'`)
	require.Len(t, got, 1)
	assert.Equal(t, parser.LineScript, got[0].LineType)
	assert.True(t, got[0].MultiValue())
	assert.Equal(t, []string{"BLAH", "BLABBLOO"}, got[0].Match.Values())

	got = classify("= render_sidebar")
	require.Len(t, got, 1)
	assert.True(t, got[0].Match.Empty())
}

func TestClassifier_Plain(t *testing.T) {
	got := classify("  Welcome back")
	require.Len(t, got, 1)
	assert.Equal(t, parser.LinePlain, got[0].LineType)
	assert.Equal(t, One("Welcome back"), got[0].Match)

	assert.Empty(t, classify("  x"))
	assert.Empty(t, classify("<!-- hidden -->"))
}

func TestClassifier_IgnoredTypes(t *testing.T) {
	for _, raw := range []string{"-# note", "/ comment", "!!! 5", "- if admin?", ":javascript"} {
		assert.Empty(t, classify(raw), raw)
	}
}

type stubExtractor struct{ calls []string }

func (s *stubExtractor) Extract(text string) Result {
	s.calls = append(s.calls, text)
	return One("stub")
}

func TestClassifier_UsesGivenExtractor(t *testing.T) {
	stub := &stubExtractor{}
	got := NewClassifier(stub).Classify(parser.ParseLine(`= link_to 'Home', root_path`))
	require.Len(t, got, 1)
	assert.Equal(t, One("stub"), got[0].Match)
	assert.Equal(t, []string{"link_to 'Home', root_path"}, stub.calls)
}

func TestAttributeValue(t *testing.T) {
	tag := parser.ParseLine(`%a{title: "Hi #{name}", 'aria-label': 'Close'}`).Tag
	require.NotNil(t, tag)

	v, ok := AttributeValue(tag, "aria-label")
	assert.True(t, ok)
	assert.Equal(t, "Close", v)

	// Interpolated values come from the raw hash source.
	v, ok = AttributeValue(tag, "title")
	assert.True(t, ok)
	assert.Equal(t, "Hi #{name}", v)

	tag = parser.ParseLine(`%a{title: link_title, href: '#'}`).Tag
	_, ok = AttributeValue(tag, "title")
	assert.False(t, ok)

	_, ok = AttributeValue(tag, "alt")
	assert.False(t, ok)
}

func TestPlacement_String(t *testing.T) {
	assert.Equal(t, "content", PlaceContent.String())
	assert.Equal(t, "attribute", PlaceAttribute.String())
}

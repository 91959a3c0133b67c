package replacer

import (
	"strings"
	"testing"

	"i18n-extractor/internal/finder"
	"i18n-extractor/internal/keyname"
	"i18n-extractor/internal/parser"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const viewPath = "app/views/users/new.html.haml"

func replace(t *testing.T, req Request, opts keyname.Options) Result {
	t.Helper()
	if req.Path == "" {
		req.Path = viewPath
	}
	res, err := Replace(req, opts)
	require.NoError(t, err)
	return res
}

func TestReplace_TagContent(t *testing.T) {
	res := replace(t, Request{Line: "%p Hello world", Match: "Hello world", Type: parser.LineTag}, keyname.Options{})
	assert.True(t, res.Changed)
	assert.Equal(t, "%p= t('.hello_world')", res.ModifiedLine)
	assert.Equal(t, "hello_world", res.KeyName)
	assert.Equal(t, "Hello world", res.ReplacedText)
	assert.Equal(t, viewPath, res.Path)
}

func TestReplace_Idempotent(t *testing.T) {
	first := replace(t, Request{Line: "  %p Hello world", Match: "Hello world", Type: parser.LineTag}, keyname.Options{})
	require.True(t, first.Changed)

	second := replace(t, Request{
		Line:     first.ModifiedLine,
		Match:    "t('.hello_world')",
		Type:     parser.LineTag,
		TagParse: true,
	}, keyname.Options{})
	assert.False(t, second.Changed)
	assert.Equal(t, first.ModifiedLine, second.ModifiedLine)
}

func TestReplace_TagScriptContent(t *testing.T) {
	res := replace(t, Request{Line: `%p= "Hello"`, Match: "Hello", Type: parser.LineTag, TagParse: true}, keyname.Options{})
	assert.Equal(t, "%p= t('.hello')", res.ModifiedLine)

	res = replace(t, Request{
		Line:     `%p= link_to "Sign in", login_path`,
		Match:    "Sign in",
		Type:     parser.LineTag,
		TagParse: true,
	}, keyname.Options{})
	assert.Equal(t, "%p= link_to t('.sign_in'), login_path", res.ModifiedLine)
}

func TestReplace_TagInterpolatedString(t *testing.T) {
	res := replace(t, Request{Line: `%p= "Hi #{name}"`, Match: "Hi #{name}", Type: parser.LineTag, TagParse: true}, keyname.Options{})
	assert.Equal(t, "%p= t('.hi', name: (name))", res.ModifiedLine)
	require.Len(t, res.Interpolations, 1)
	assert.Equal(t, "%{name}", res.Interpolations[0].Placeholder)
}

func TestReplace_TagAttribute(t *testing.T) {
	res := replace(t, Request{
		Line:          "%img{alt: 'Company logo', src: logo_path}",
		Match:         "Company logo",
		Type:          parser.LineTag,
		Place:         finder.PlaceAttribute,
		AttributeName: "alt",
	}, keyname.Options{})
	assert.Equal(t, "%img{alt: t('.company_logo'), src: logo_path}", res.ModifiedLine)
}

func TestReplace_AttributeSkipsEarlierOccurrence(t *testing.T) {
	res := replace(t, Request{
		Line:          "%a{href: '#Help', title: 'Help'} Help",
		Match:         "Help",
		Type:          parser.LineTag,
		Place:         finder.PlaceAttribute,
		AttributeName: "title",
	}, keyname.Options{})
	assert.Equal(t, "%a{href: '#Help', title: t('.help')} Help", res.ModifiedLine)
}

func TestReplace_HTMLAttributeIsWrapped(t *testing.T) {
	res := replace(t, Request{
		Line:          `%input(placeholder="Your email")`,
		Match:         "Your email",
		Type:          parser.LineTag,
		Place:         finder.PlaceAttribute,
		AttributeName: "placeholder",
	}, keyname.Options{})
	assert.Equal(t, `%input(placeholder="#{t('.your_email')}")`, res.ModifiedLine)
}

func TestReplace_Plain(t *testing.T) {
	res := replace(t, Request{Line: "  Welcome back", Match: "Welcome back", Type: parser.LinePlain}, keyname.Options{})
	assert.Equal(t, "  = t('.welcome_back')", res.ModifiedLine)

	res = replace(t, Request{Line: "  Hello #{@user.name}", Match: "Hello #{@user.name}", Type: parser.LinePlain}, keyname.Options{})
	assert.Equal(t, "  = t('.hello', user_name: (@user.name))", res.ModifiedLine)
	assert.Equal(t, "hello", res.KeyName)
}

func TestReplace_EscapedPlainLine(t *testing.T) {
	res := replace(t, Request{Line: `  \- Not a script line`, Match: "- Not a script line", Type: parser.LinePlain}, keyname.Options{})
	assert.Equal(t, "  = t('.not_a_script_line')", res.ModifiedLine)

	res = replace(t, Request{Line: `\= Equals here`, Match: "= Equals here", Type: parser.LinePlain}, keyname.Options{})
	assert.Equal(t, "= t('.equals_here')", res.ModifiedLine)
}

func TestReplace_SingleQuotedInterpolationIsLiteral(t *testing.T) {
	res := replace(t, Request{Line: `= 'Cost #{x} each'`, Match: "Cost #{x} each", Type: parser.LineScript}, keyname.Options{})
	assert.Equal(t, "= t('.cost_each')", res.ModifiedLine)
	assert.Empty(t, res.Interpolations)

	res = replace(t, Request{Line: `= "Cost #{x} each"`, Match: "Cost #{x} each", Type: parser.LineScript}, keyname.Options{})
	assert.Equal(t, "= t('.cost_each', x: (x))", res.ModifiedLine)
}

func TestReplace_Script(t *testing.T) {
	res := replace(t, Request{Line: `= link_to "Sign in", login_path`, Match: "Sign in", Type: parser.LineScript}, keyname.Options{})
	assert.Equal(t, "= link_to t('.sign_in'), login_path", res.ModifiedLine)

	res = replace(t, Request{Line: `  ~ "Preformatted"`, Match: "Preformatted", Type: parser.LineScript}, keyname.Options{})
	assert.Equal(t, "  ~ t('.preformatted')", res.ModifiedLine)
}

func TestReplace_LeavesLineAlone(t *testing.T) {
	tests := []struct {
		name string
		req  Request
	}{
		{"translated", Request{Line: "%p= t('.hello')", Match: "t('.hello')", Type: parser.LineTag}},
		{"lone interpolation", Request{Line: `%p= "#{name}"`, Match: `"#{name}"`, Type: parser.LineTag}},
		{"not found", Request{Line: "%p Hello", Match: "Missing", Type: parser.LineTag}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := replace(t, tt.req, keyname.Options{})
			assert.False(t, res.Changed)
			assert.Equal(t, tt.req.Line, res.ModifiedLine)
		})
	}
}

func TestReplace_PrefixedKeys(t *testing.T) {
	opts := keyname.Options{AddFilenamePrefix: true, BasePath: "app/views/"}

	res := replace(t, Request{Line: "%p Hello", Match: "Hello", Type: parser.LineTag}, opts)
	assert.Equal(t, "%p= t('users.new.hello')", res.ModifiedLine)
	assert.Equal(t, "users.new.hello", res.KeyName)

	res = replace(t, Request{Line: "%p= t('.hello')", Match: "t('.hello')", Type: parser.LineTag, TagParse: true}, opts)
	assert.True(t, res.Changed)
	assert.Equal(t, "%p= t('users.new.hello')", res.ModifiedLine)
}

func TestReplace_UndefinedLineType(t *testing.T) {
	_, err := Replace(Request{Line: "x", Match: "x", Type: parser.LineType("bogus")}, keyname.Options{})
	assert.ErrorIs(t, err, ErrUndefinedLineType)
}

func TestCall(t *testing.T) {
	assert.Equal(t, "t('.title')", Call("title", nil, keyname.Options{}))
	assert.Equal(t, "t('users.title')", Call("users.title", nil, keyname.Options{AddFilenamePrefix: true}))
}

func TestLocate(t *testing.T) {
	line := "%a{title: 'Home'} Home"

	start, end, ok := Locate(line, "Home", parser.LineTag, finder.PlaceContent, "")
	require.True(t, ok)
	assert.Equal(t, "Home", line[start:end])
	assert.Equal(t, 18, start)

	start, end, ok = Locate(line, "Home", parser.LineTag, finder.PlaceAttribute, "title")
	require.True(t, ok)
	assert.Equal(t, "'Home'", line[start:end])

	start, end, ok = Locate(`= link_to "Go", go_path`, "Go", parser.LineScript, finder.PlaceContent, "")
	require.True(t, ok)
	assert.Equal(t, `"Go"`, `= link_to "Go", go_path`[start:end])

	start, _, ok = Locate(`  \# not an id`, "# not an id", parser.LinePlain, finder.PlaceContent, "")
	require.True(t, ok)
	assert.Equal(t, 2, start)

	_, _, ok = Locate(line, "", parser.LineTag, finder.PlaceContent, "")
	assert.False(t, ok)
}

func TestScanStart(t *testing.T) {
	for _, line := range []string{
		`%a{:title => 'x'}`,
		`%a{"title": 'x'}`,
		`%a(title='x')`,
		`%a.btn{title: 'x'}`,
	} {
		assert.Equal(t, strings.Index(line, "'x'"), ScanStart(line, finder.PlaceAttribute, "title"), line)
	}
	assert.Equal(t, 2, ScanStart("%p Hello", finder.PlaceContent, ""))
}

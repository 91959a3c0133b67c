package finder

import "regexp"

// Arity is the capture contract of a rule.
type Arity int

const (
	// CaptureOne rules return their first capture group.
	CaptureOne Arity = iota
	// CaptureList rules return an ordered list of strings.
	CaptureList
)

// Rule is one entry of the ordered pattern rule set.
type Rule struct {
	Name    string
	Pattern *regexp.Regexp
	Arity   Arity
}

var (
	linkToBlockDouble = regexp.MustCompile(`link_to\s*\(?"(.*?)"\)?.*\sdo\s*$`)
	linkToBlockSingle = regexp.MustCompile(`link_to\s*\(?'(.*?)'\)?.*\sdo\s*$`)
	linkToDouble      = regexp.MustCompile(`link_to\s*\(?\s*"(.*?)"\s*,\s*(.*)\)?`)
	linkToSingle      = regexp.MustCompile(`link_to\s*\(?\s*'(.*?)'\s*,\s*(.*)\)?`)
	linkToNoQuotes    = regexp.MustCompile(`link_to\s*\(?([^'"]*?)\)?.*`)
	submitSingle      = regexp.MustCompile(`[a-z]\.submit\s?'(.*?)'.*$`)
	submitDouble      = regexp.MustCompile(`[a-z]\.submit\s?"(.*?)".*$`)
	arrayOfStrings    = regexp.MustCompile(`^\s?\[(.*)\]`)
	quotedStrings     = regexp.MustCompile(`'[^\\']*(?:\\'[^\\']*)*'|"[^\\"]*(?:\\"[^\\"]*)*"`)
)

// Rules is the pattern rule set in priority order. Block forms come before
// the two-argument forms, which come before the no-quotes fallback: that
// one is nearly unconstrained and would shadow them.
var Rules = []Rule{
	{Name: "link_to-block-double", Pattern: linkToBlockDouble, Arity: CaptureOne},
	{Name: "link_to-block-single", Pattern: linkToBlockSingle, Arity: CaptureOne},
	{Name: "link_to-double", Pattern: linkToDouble, Arity: CaptureOne},
	{Name: "link_to-single", Pattern: linkToSingle, Arity: CaptureOne},
	{Name: "link_to-no-quotes", Pattern: linkToNoQuotes, Arity: CaptureOne},
	{Name: "submit-single", Pattern: submitSingle, Arity: CaptureOne},
	{Name: "submit-double", Pattern: submitDouble, Arity: CaptureOne},
	{Name: "array-of-strings", Pattern: arrayOfStrings, Arity: CaptureList},
	{Name: "quoted-strings", Pattern: quotedStrings, Arity: CaptureList},
}

// Helper calls whose presence changes how literals are read.
var (
	nestedFormFor = regexp.MustCompile(`\b(?:simple_)?nested_form_for\b`)
	renderPartial = regexp.MustCompile(`render[\s(]\s*(?:(?:layout|partial):\s*)?['"](.*?)['"]`)
	component     = regexp.MustCompile(`(?:knockout_component|react_component)\s*\(?\s*['"](.*?)['"]`)
	dataBind      = regexp.MustCompile(`['"]data-bind['"]\s*:\s*'(.*?)'` +
		`|['"]data-bind['"]\s*:\s*"(.*?)"` +
		`|['"]data-bind['"]\s*=>\s*'(.*?)'` +
		`|['"]data-bind['"]\s*=>\s*"(.*?)"` +
		`|data-bind\s*=\s*'(.*?)'` +
		`|data-bind\s*=\s*"(.*?)"` +
		`|bind\s*:\s*'(.*?)'` +
		`|bind\s*:\s*"(.*?)"`)
	classKey = regexp.MustCompile(`(?:\bclass\s*:|\bclass['"]?\s*=>|\bclass\s*=)\s*$`)
)

// attributePlaceholders are bare attribute symbols that the line parser
// can hand over in place of a value.
var attributePlaceholders = map[string]bool{
	":title":        true,
	":alt":          true,
	":placeholder":  true,
	":'aria-label'": true,
	`:"aria-label"`: true,
}

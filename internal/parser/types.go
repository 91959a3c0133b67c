package parser

// LineType classifies one line of template source.
type LineType string

const (
	LinePlain        LineType = "plain"
	LineTag          LineType = "tag"
	LineScript       LineType = "script"
	LineSilentScript LineType = "silent_script"
	LineHamlComment  LineType = "haml_comment"
	LineComment      LineType = "comment"
	LineDoctype      LineType = "doctype"
	LineRoot         LineType = "root"
	LineFilter       LineType = "filter"
)

// Known reports whether t is one of the defined line types.
func (t LineType) Known() bool {
	switch t {
	case LinePlain, LineTag, LineScript, LineSilentScript, LineHamlComment,
		LineComment, LineDoctype, LineRoot, LineFilter:
		return true
	}
	return false
}

// DynamicAttributes holds attribute hashes whose values are not all
// literals, as hash-literal source text.
type DynamicAttributes struct {
	// Old is the Ruby-style {key: value} block.
	Old string
	// New is the HTML-style (key=value) block rewritten as a hash literal.
	New string
}

// TagFields are the structural fields of a tag line.
type TagFields struct {
	Name string
	// Attributes holds attributes whose values are string literals, unquoted.
	Attributes        map[string]string
	DynamicAttributes DynamicAttributes
	// AttributesHashes are the raw bodies of Ruby-style attribute blocks.
	AttributesHashes []string
	// Value is the inline content after the tag head.
	Value string
	// Parse is set when Value is a script expression (%p= foo).
	Parse bool
}

// SourceLine is one typed line of template source.
type SourceLine struct {
	Type LineType
	// Number is the 1-based line number.
	Number int
	// Raw is the line exactly as it appears in the file.
	Raw string
	// Text is the literal text for plain lines and the expression for
	// script lines.
	Text string
	// Tag is set for tag lines.
	Tag *TagFields
}

// ParseResult holds parsing output for a single template.
type ParseResult struct {
	// FilePath is the path to the parsed file.
	FilePath string
	// Lines are the typed records, blank lines excluded.
	Lines []SourceLine
	// RawLines preserves the original file content for reconstruction.
	RawLines []string
}

// Parser is the interface for template line parsers.
type Parser interface {
	// CanParse returns true if this parser handles the given file extension.
	CanParse(ext string) bool
	// Parse splits a file into typed lines.
	Parse(filePath string) (*ParseResult, error)
	// Reconstruct rebuilds the file with rewritten lines keyed by line number.
	Reconstruct(result *ParseResult, replacements map[int]string) ([]byte, error)
}

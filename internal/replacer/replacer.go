// Package replacer rewrites a template line so that an extracted string is
// looked up through t() instead of being written inline.
package replacer

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"i18n-extractor/internal/finder"
	"i18n-extractor/internal/interpolation"
	"i18n-extractor/internal/keyname"
	"i18n-extractor/internal/parser"
	"i18n-extractor/internal/textutil"
)

// ErrUndefinedLineType is returned for a line type the replacer does not
// know. Callers must not continue with that line.
var ErrUndefinedLineType = errors.New("undefined line type")

// Request describes one replacement on one line.
type Request struct {
	// Line is the current full text of the line.
	Line string
	// Match is the text to replace, as returned by the extractor.
	Match string
	Type  parser.LineType
	// Path is the template path, used for key scoping.
	Path string
	// TagParse is set when tag content is a script expression.
	TagParse      bool
	Place         finder.Placement
	AttributeName string
}

// Result is the outcome of a replacement.
type Result struct {
	ModifiedLine string
	// KeyName is the key without the t() wrapper.
	KeyName string
	// ReplacedText is the text that was replaced, surrounding quotes of
	// interpolated strings removed.
	ReplacedText string
	Changed      bool
	Path         string
	// Interpolations map #{} expressions to i18n variables in the call.
	Interpolations []interpolation.Mapping
}

var (
	loneInterpolation = regexp.MustCompile(`^#\{[^}]+\}$`)
	scriptEvaled      = regexp.MustCompile(`^\s*(?:[!&]?=|~)`)
	doubleQuoted      = regexp.MustCompile(`^"(.*)"$`)
)

// Replace splices a t() call in place of req.Match. The line is left as is
// when the match is already translated (unless path-prefixed keys are
// requested), is a bare interpolation, or cannot be found.
func Replace(req Request, opts keyname.Options) (Result, error) {
	if !req.Type.Known() {
		return Result{}, fmt.Errorf("%w: %q for %q", ErrUndefinedLineType, req.Type, req.Line)
	}

	unchanged := Result{ModifiedLine: req.Line, ReplacedText: req.Match, Path: req.Path}
	if keyname.Translated(req.Match) && !opts.AddFilenamePrefix {
		return unchanged, nil
	}
	expr := req.Match
	if inner, ok := textutil.Unquote(expr); ok {
		expr = inner
	}
	if loneInterpolation.MatchString(strings.TrimSpace(expr)) {
		return unchanged, nil
	}

	interpolated := textutil.Interpolated(req.Line)
	text := req.Match
	if interpolated {
		if m := doubleQuoted.FindStringSubmatch(text); m != nil {
			text = m[1]
		}
	}

	start, end, ok := Locate(req.Line, text, req.Type, req.Place, req.AttributeName)
	if !ok {
		return unchanged, nil
	}

	name := keyname.Name(text, req.Line, req.Path, opts)
	var mappings []interpolation.Mapping
	// Ruby leaves #{} in single-quoted strings as literal text.
	if !keyname.Translated(text) && !singleQuoted(req.Line[start:end]) {
		_, mappings = interpolation.Protect(text)
	}
	call := Call(name, mappings, opts)
	line := req.Line[:start] + call + req.Line[end:]
	line = applyEval(line, call, req, interpolated)

	return Result{
		ModifiedLine:   line,
		KeyName:        name,
		ReplacedText:   text,
		Changed:        true,
		Path:           req.Path,
		Interpolations: mappings,
	}, nil
}

// Call renders the t() invocation for a key. Lazy-lookup keys get a
// leading dot; path-prefixed keys are absolute.
func Call(name string, mappings []interpolation.Mapping, opts keyname.Options) string {
	prefix := "."
	if opts.AddFilenamePrefix {
		prefix = ""
	}
	return fmt.Sprintf("t('%s%s'%s)", prefix, name, interpolation.CallArgs(mappings))
}

// applyEval marks the rewritten part of the line as Ruby so HAML evaluates
// the call instead of printing it.
func applyEval(line, call string, req Request, interpolated bool) string {
	switch req.Type {
	case parser.LineTag:
		if req.Place == finder.PlaceAttribute {
			// HTML-style attributes only take a quoted value.
			html := req.AttributeName + "=" + call
			return strings.Replace(line, html, req.AttributeName+`="#{`+call+`}"`, 1)
		}
		head := parser.SkipTagHead(line)
		idx := strings.Index(line[head:], call)
		if idx < 0 {
			return line
		}
		at := head + idx
		for at > head && (line[at-1] == ' ' || line[at-1] == '\t') {
			at--
		}
		if tagEvaled(line[:at], req.TagParse, interpolated) {
			return line
		}
		return line[:at] + "=" + line[at:]
	case parser.LinePlain:
		return prefixEval(line)
	case parser.LineScript:
		if scriptEvaled.MatchString(line) {
			return line
		}
		return prefixEval(line)
	default:
		return line
	}
}

// tagEvaled reports whether tag content after pre is already Ruby. The
// parse flag is unreliable for interpolated plain text, so those lines are
// checked for a trailing = instead.
func tagEvaled(pre string, parse, interpolated bool) bool {
	if interpolated {
		return strings.HasSuffix(pre, "=")
	}
	return parse
}

func singleQuoted(span string) bool {
	return len(span) >= 2 && span[0] == '\'' && span[len(span)-1] == '\''
}

func prefixEval(line string) string {
	indent := parser.Indentation(line)
	return indent + "= " + line[len(indent):]
}

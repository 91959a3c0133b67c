// Package extractor runs one template through classification, key naming
// and line replacement, and collects the strings to record.
package extractor

import (
	"fmt"

	"i18n-extractor/internal/finder"
	"i18n-extractor/internal/interpolation"
	"i18n-extractor/internal/keyname"
	"i18n-extractor/internal/parser"
	"i18n-extractor/internal/replacer"
	"i18n-extractor/internal/textutil"
)

// Record is one extracted string destined for the translation store.
type Record struct {
	Path string
	Line int
	Key  string
	// Text is the default value, with interpolations as %{name}.
	Text string
}

// LineChange is one rewritten template line.
type LineChange struct {
	Number int
	Before string
	After  string
}

// FileResult is the outcome of processing one template.
type FileResult struct {
	Path    string
	Changes []LineChange
	Records []Record
	// Output is the rewritten template.
	Output []byte
}

// Changed reports whether any line was rewritten.
func (r *FileResult) Changed() bool { return len(r.Changes) > 0 }

// Extractor turns parsed templates into rewritten lines and records. It
// keeps no state between calls and is safe for concurrent use when its
// finder.Extractor is.
type Extractor struct {
	classifier *finder.Classifier
	opts       keyname.Options
}

// New creates an Extractor. A nil ex uses the rule cascade directly.
func New(ex finder.Extractor, opts keyname.Options) *Extractor {
	return &Extractor{
		classifier: finder.NewClassifier(ex),
		opts:       opts,
	}
}

// ProcessLine returns the rewritten text of line and the strings it
// extracted. Lines without anything to translate come back unchanged.
func (e *Extractor) ProcessLine(line parser.SourceLine, path string) (string, []Record, error) {
	current := line.Raw
	var records []Record

	for _, ext := range e.classifier.Classify(line) {
		if ext.Match.Empty() {
			continue
		}
		for _, value := range ext.Match.Values() {
			if value == "" {
				continue
			}
			req := replacer.Request{
				Line:          current,
				Match:         value,
				Type:          ext.LineType,
				Path:          path,
				TagParse:      line.Tag != nil && line.Tag.Parse,
				Place:         ext.Place,
				AttributeName: ext.AttributeName,
			}
			res, err := replacer.Replace(req, e.opts)
			if err != nil {
				return line.Raw, nil, fmt.Errorf("line %d: %w", line.Number, err)
			}
			if !res.Changed {
				continue
			}
			current = res.ModifiedLine

			// Re-keyed t() calls carry no source text to record.
			if keyname.Translated(res.ReplacedText) {
				continue
			}
			text := res.ReplacedText
			if len(res.Interpolations) > 0 {
				text, _ = interpolation.Protect(text)
			}
			records = append(records, Record{
				Path: path,
				Line: line.Number,
				Key:  res.KeyName,
				Text: textutil.UnescapeQuotes(text),
			})
		}
	}
	return current, records, nil
}

// ProcessFile processes every line of a parsed template and rebuilds it
// with p.
func (e *Extractor) ProcessFile(p parser.Parser, result *parser.ParseResult) (*FileResult, error) {
	out := &FileResult{Path: result.FilePath}
	replacements := make(map[int]string)

	for _, line := range result.Lines {
		modified, records, err := e.ProcessLine(line, result.FilePath)
		if err != nil {
			return nil, fmt.Errorf("process %s: %w", result.FilePath, err)
		}
		out.Records = append(out.Records, records...)
		if modified != line.Raw {
			replacements[line.Number] = modified
			out.Changes = append(out.Changes, LineChange{Number: line.Number, Before: line.Raw, After: modified})
		}
	}

	output, err := p.Reconstruct(result, replacements)
	if err != nil {
		return nil, err
	}
	out.Output = output
	return out, nil
}

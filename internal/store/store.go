// Package store accumulates extracted strings into a nested locale
// document and merges it into the YAML file on disk.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"i18n-extractor/internal/keyname"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// Document is a nested key-value tree. Inner nodes are Documents, leaves
// hold the default text.
type Document = map[string]any

// CollisionError reports two distinct entries that map to one key path.
type CollisionError struct {
	Path     []string
	Existing any
	Incoming string
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("key collision at %s: existing %v, incoming %q",
		strings.Join(e.Path, "."), describe(e.Existing), e.Incoming)
}

func describe(v any) string {
	if _, ok := v.(Document); ok {
		return "subtree"
	}
	return fmt.Sprintf("%q", v)
}

// MergeReport holds leaf counts around a flush.
type MergeReport struct {
	Existing int
	New      int
	Final    int
}

// Expected is the final count if no leaf was overwritten.
func (r MergeReport) Expected() int { return r.Existing + r.New }

// Mismatch reports whether the merge overwrote or dropped leaves.
func (r MergeReport) Mismatch() bool { return r.Final != r.Expected() }

// Store accumulates key/text pairs for one locale. It is not safe for
// concurrent writers.
type Store struct {
	locale string
	opts   keyname.Options
	doc    Document
	count  int
}

// New creates an empty store for locale.
func New(locale string, opts keyname.Options) *Store {
	if locale == "" {
		locale = "en"
	}
	return &Store{
		locale: locale,
		opts:   opts,
		doc:    make(Document),
	}
}

// Locale returns the top-level scope of the document.
func (s *Store) Locale() string { return s.locale }

// Len returns the number of recorded leaves.
func (s *Store) Len() int { return s.count }

// KeyPath returns the document path of key extracted from the template at
// templatePath.
func (s *Store) KeyPath(templatePath, key string) []string {
	scope := keyname.ScopeSegments(templatePath, s.opts)
	leaf := key
	if s.opts.AddFilenamePrefix {
		leaf = strings.TrimPrefix(leaf, strings.Join(scope, ".")+".")
	}
	return append(append([]string{s.locale}, scope...), leaf)
}

// Record stores text under the key path for key. Recording the same text
// twice is a no-op. A different text, or a subtree, already at the path is
// a collision: the first entry is kept and a *CollisionError returned.
func (s *Store) Record(templatePath, key, text string) error {
	path := s.KeyPath(templatePath, key)
	node := s.doc
	for i, seg := range path[:len(path)-1] {
		switch next := node[seg].(type) {
		case nil:
			child := make(Document)
			node[seg] = child
			node = child
		case Document:
			node = next
		default:
			return &CollisionError{Path: path[:i+1], Existing: next, Incoming: text}
		}
	}

	leaf := path[len(path)-1]
	switch existing := node[leaf].(type) {
	case nil:
		node[leaf] = text
		s.count++
		return nil
	case string:
		if existing == text {
			return nil
		}
	}
	return &CollisionError{Path: path, Existing: node[leaf], Incoming: text}
}

// Document returns the accumulated document. The caller must not modify it.
func (s *Store) Document() Document { return s.doc }

// DefaultPath returns the conventional locale file for a template.
// Path-prefixed runs keep one file per template directory.
func DefaultPath(locale, templatePath string, opts keyname.Options) string {
	if !opts.AddFilenamePrefix {
		return filepath.Join("config", "locales", locale+".yml")
	}
	segs := keyname.PrefixSegments(templatePath, opts)
	parts := append([]string{"config", "locales", locale}, segs[:len(segs)-1]...)
	return filepath.Join(append(parts, locale+".yml")...)
}

// PendingWrite is a merged locale file ready to be written.
type PendingWrite struct {
	Path   string
	Data   []byte
	Report MergeReport
}

// Write stores the merged document, creating parent directories.
func (w *PendingWrite) Write() error {
	if err := os.MkdirAll(filepath.Dir(w.Path), 0755); err != nil {
		return fmt.Errorf("create locale directory: %w", err)
	}
	if err := os.WriteFile(w.Path, w.Data, 0644); err != nil {
		return fmt.Errorf("write locale file: %w", err)
	}
	return nil
}

// Prepare merges the accumulated document into the file at path and
// renders the result with sorted keys, without writing anything. A
// leaf-count mismatch after the merge means an entry was overwritten; it
// is logged and reported.
func (s *Store) Prepare(path string) (*PendingWrite, error) {
	existing, err := Load(path)
	if err != nil {
		return nil, err
	}

	report := MergeReport{
		Existing: CountLeaves(existing),
		New:      CountLeaves(s.doc),
	}
	merged := Merge(existing, s.doc)
	report.Final = CountLeaves(merged)

	if report.Mismatch() {
		log.Warn().
			Int("existing", report.Existing).
			Int("new", report.New).
			Int("expected", report.Expected()).
			Int("actual", report.Final).
			Str("path", path).
			Msg("Key count after merge differs, a duplicate key was overwritten; check for a file named like a sibling directory")
	}

	data, err := Marshal(merged)
	if err != nil {
		return nil, err
	}
	return &PendingWrite{Path: path, Data: data, Report: report}, nil
}

// Flush prepares and writes the file at path in one step.
func (s *Store) Flush(path string) (MergeReport, error) {
	w, err := s.Prepare(path)
	if err != nil {
		return MergeReport{}, err
	}
	return w.Report, w.Write()
}

// Load reads a YAML document. A missing or empty file is an empty
// document.
func Load(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return make(Document), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read locale file: %w", err)
	}
	return Unmarshal(data)
}

// Unmarshal parses YAML into a Document.
func Unmarshal(data []byte) (Document, error) {
	doc := make(Document)
	if strings.TrimSpace(string(data)) == "" {
		return doc, nil
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse locale file: %w", err)
	}
	return normalize(doc).(Document), nil
}

// normalize turns map[any]any nodes, which YAML yields for non-string
// keys, into Documents.
func normalize(v any) any {
	switch m := v.(type) {
	case Document:
		for k, child := range m {
			m[k] = normalize(child)
		}
		return m
	case map[any]any:
		out := make(Document, len(m))
		for k, child := range m {
			out[fmt.Sprint(k)] = normalize(child)
		}
		return out
	default:
		return v
	}
}

// Merge deep-merges incoming into a copy of existing. On conflicts the
// incoming value wins.
func Merge(existing, incoming Document) Document {
	out := make(Document, len(existing))
	for k, v := range existing {
		out[k] = v
	}
	for k, v := range incoming {
		in, inIsDoc := v.(Document)
		cur, curIsDoc := out[k].(Document)
		if inIsDoc && curIsDoc {
			out[k] = Merge(cur, in)
			continue
		}
		out[k] = v
	}
	return out
}

// CountLeaves counts the values that are not nested documents.
func CountLeaves(v any) int {
	doc, ok := v.(Document)
	if !ok {
		return 1
	}
	n := 0
	for _, child := range doc {
		n += CountLeaves(child)
	}
	return n
}

// Marshal serializes doc with keys sorted at every level. Long values are
// not folded.
func Marshal(doc Document) ([]byte, error) {
	var b strings.Builder
	enc := yaml.NewEncoder(&b)
	enc.SetIndent(2)
	if err := enc.Encode(sortedNode(doc)); err != nil {
		return nil, fmt.Errorf("encode locale file: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode locale file: %w", err)
	}
	return []byte(b.String()), nil
}

func sortedNode(v any) *yaml.Node {
	doc, ok := v.(Document)
	if !ok {
		n := &yaml.Node{}
		if err := n.Encode(v); err != nil {
			return &yaml.Node{Kind: yaml.ScalarNode, Value: fmt.Sprint(v)}
		}
		return n
	}

	keys := make([]string, 0, len(doc))
	for k := range doc {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, k := range keys {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
			sortedNode(doc[k]),
		)
	}
	return node
}

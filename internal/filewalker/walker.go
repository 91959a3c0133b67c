package filewalker

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"i18n-extractor/internal/parser"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog/log"
)

// Walker discovers templates and pairs each with the parser for its
// extension.
type Walker struct {
	parsers  []parser.Parser
	excludes []string
}

// NewWalker creates a Walker with the default parsers. Exclude patterns
// are doublestar globs matched against slash paths relative to the walk
// root, e.g. "vendor/**" or "**/_*.html.haml".
func NewWalker(excludes ...string) *Walker {
	return &Walker{
		parsers:  []parser.Parser{parser.NewHAMLParser()},
		excludes: excludes,
	}
}

// FileEntry represents a discovered file ready for processing.
type FileEntry struct {
	Path   string
	Ext    string
	Parser parser.Parser
}

// Walk discovers all supported files under root. A root that is a file is
// returned on its own when a parser accepts it.
func (w *Walker) Walk(root string) ([]FileEntry, error) {
	for _, pattern := range w.excludes {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid exclude pattern %q", pattern)
		}
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		if entry, ok := w.entry(root); ok {
			return []FileEntry{entry}, nil
		}
		return nil, fmt.Errorf("unsupported template: %s", root)
	}

	var entries []FileEntry
	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Error walking path")
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}
		if w.excluded(filepath.ToSlash(rel)) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		if entry, ok := w.entry(path); ok {
			entries = append(entries, entry)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory: %w", err)
	}

	log.Info().Int("count", len(entries)).Str("root", root).Msg("Discovered templates")
	return entries, nil
}

func (w *Walker) entry(path string) (FileEntry, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	for _, p := range w.parsers {
		if p.CanParse(ext) {
			return FileEntry{Path: path, Ext: ext, Parser: p}, true
		}
	}
	return FileEntry{}, false
}

func (w *Walker) excluded(rel string) bool {
	if rel == "." {
		return false
	}
	for _, pattern := range w.excludes {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

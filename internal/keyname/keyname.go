// Package keyname derives translation keys from extracted text and template
// locations.
package keyname

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxLength caps the length of a normalized key.
const MaxLength = 30

// Options control key scoping.
type Options struct {
	// AddFilenamePrefix scopes keys by the template's path instead of
	// using lazy-lookup ".key" names.
	AddFilenamePrefix bool
	// BasePath is stripped from template paths before scoping.
	BasePath string
}

var (
	// TranslateCall matches a t('.key') call and captures the key.
	TranslateCall  = regexp.MustCompile(`\bt\(\s*['"]\.?(.*?)['"]`)
	interpolations = regexp.MustCompile(`#\{[^}]*\}`)
	nonIdentifier  = regexp.MustCompile(`[^\p{L}\p{N}]+`)
	templateSuffix = regexp.MustCompile(`(\.html)?\.haml$`)
)

// Normalize turns text into an identifier-safe key: interpolations and
// diacritics removed, lower case, runs of anything but letters and digits
// collapsed to a single underscore, capped at MaxLength runes.
func Normalize(text string) string {
	s := interpolations.ReplaceAllString(text, " ")
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if stripped, _, err := transform.String(t, s); err == nil {
		s = stripped
	}
	s = cases.Lower(language.Und).String(s)
	s = strings.Trim(nonIdentifier.ReplaceAllString(s, "_"), "_")
	if r := []rune(s); len(r) > MaxLength {
		s = strings.TrimRight(string(r[:MaxLength]), "_")
	}
	return s
}

// Translated reports whether text already contains a t('.key') call.
func Translated(text string) bool {
	return TranslateCall.MatchString(text)
}

// Name returns the key for matched. A match that is already a t() call
// reuses its key; a match that normalizes to nothing falls back to the
// whole line.
func Name(matched, originalLine, path string, opts Options) string {
	var name string
	if m := TranslateCall.FindStringSubmatch(matched); m != nil {
		key := m[1]
		if i := strings.LastIndex(key, "."); i >= 0 {
			key = key[i+1:]
		}
		name = Normalize(key)
	} else {
		name = Normalize(matched)
		if name == "" {
			name = Normalize(originalLine)
		}
	}

	if opts.AddFilenamePrefix {
		if prefix := strings.Join(PrefixSegments(path, opts), "."); prefix != "" {
			name = prefix + "." + strings.TrimLeft(name, "_")
		}
	}
	return name
}

// PrefixSegments splits the template path relative to the base path into
// directory names and the view name.
func PrefixSegments(path string, opts Options) []string {
	rel := filepath.ToSlash(path)
	if base := filepath.ToSlash(opts.BasePath); base != "" {
		rel = strings.TrimPrefix(rel, strings.TrimPrefix(base, "./"))
		rel = strings.TrimPrefix(rel, base)
	}
	dir, file := splitPath(rel)
	return append(dir, ViewName(file))
}

// ScopeSegments returns the document location of a template. Prefixed
// keys use the base-relative directories. Otherwise the directories after
// "views" are used, or only the last directory when there is none.
func ScopeSegments(path string, opts Options) []string {
	if opts.AddFilenamePrefix {
		return PrefixSegments(path, opts)
	}
	dirs, file := splitPath(filepath.ToSlash(path))
	view := ViewName(file)
	for i, d := range dirs {
		if d == "views" {
			return append(append([]string{}, dirs[i+1:]...), view)
		}
	}
	if len(dirs) == 0 {
		return []string{view}
	}
	return []string{dirs[len(dirs)-1], view}
}

// ViewName strips template suffixes and the partial underscore from a
// file name.
func ViewName(file string) string {
	return strings.TrimPrefix(templateSuffix.ReplaceAllString(file, ""), "_")
}

func splitPath(p string) ([]string, string) {
	var dirs []string
	parts := strings.Split(p, "/")
	for _, d := range parts[:len(parts)-1] {
		if d != "" && d != "." {
			dirs = append(dirs, d)
		}
	}
	return dirs, parts[len(parts)-1]
}

package filewalker

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		path := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte("%p Hi\n"), 0644))
	}
}

func relPaths(t *testing.T, root string, entries []FileEntry) []string {
	t.Helper()
	var out []string
	for _, e := range entries {
		rel, err := filepath.Rel(root, e.Path)
		require.NoError(t, err)
		out = append(out, filepath.ToSlash(rel))
	}
	sort.Strings(out)
	return out
}

func TestWalker_Walk(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root,
		"users/new.html.haml",
		"users/_form.html.haml",
		"layouts/application.HAML",
		"users/show.html.erb",
		"README.md",
	)

	entries, err := NewWalker().Walk(root)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"layouts/application.HAML",
		"users/_form.html.haml",
		"users/new.html.haml",
	}, relPaths(t, root, entries))

	for _, e := range entries {
		assert.Equal(t, ".haml", e.Ext)
		assert.NotNil(t, e.Parser)
	}
}

func TestWalker_Excludes(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root,
		"users/new.html.haml",
		"users/_form.html.haml",
		"vendor/gem/index.haml",
	)

	entries, err := NewWalker("vendor/**", "**/_*.haml").Walk(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"users/new.html.haml"}, relPaths(t, root, entries))
}

func TestWalker_InvalidPattern(t *testing.T) {
	_, err := NewWalker("[").Walk(t.TempDir())
	assert.Error(t, err)
}

func TestWalker_FileRoot(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "index.haml", "notes.txt")

	entries, err := NewWalker().Walk(filepath.Join(root, "index.haml"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, filepath.Join(root, "index.haml"), entries[0].Path)

	_, err = NewWalker().Walk(filepath.Join(root, "notes.txt"))
	assert.Error(t, err)

	_, err = NewWalker().Walk(filepath.Join(root, "missing"))
	assert.Error(t, err)
}

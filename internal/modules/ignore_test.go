package modules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIgnoreLine(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{"", ""},
		{"   ", ""},
		{"# comment", ""},
		{"deploy", "deploy.go"},
		{"deploy.go", "deploy.go"},
		{"/deploy", "deploy.go"},
		{"wip-*", "wip-*"},
		{"draft?.go  ", "draft?.go"},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, parseIgnoreLine(tt.line))
		})
	}
}

func TestReadIgnore_Missing(t *testing.T) {
	list, err := readIgnore(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.False(t, list.match("deploy.go"))
}

func TestReadIgnore_BadPattern(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, IgnoreFile), "ok\n[bad\n")

	_, err := readIgnore(dir)
	assert.ErrorContains(t, err, ".ignore:2: bad pattern")
}

func TestDiscover_HonorsIgnoreFile(t *testing.T) {
	dir := newCommandoDir(t, "deploy.go", "wip-site.go", "scratch.go", "website.go")
	require.NoError(t, os.WriteFile(filepath.Join(dir, IgnoreFile), []byte("# local only\nscratch\nwip-*\nscratch\n"), 0o644))

	files, err := Discover(dir, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "deploy.go"),
		filepath.Join(dir, "website.go"),
	}, files)

	// Listing a module by name overrides the ignore file.
	files, err = Discover(dir, []string{"scratch"})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "scratch.go")}, files)
}

package modules

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/commando/internal/linkcache"
)

func newCommandoDir(t *testing.T, files ...string) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "proj", ".commando")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	for _, f := range files {
		writeFile(t, filepath.Join(dir, f), "package main\n")
	}
	return dir
}

func TestDiscover_All(t *testing.T) {
	dir := newCommandoDir(t, "website.go", "deploy.go", "config.go", "deploy_test.go", "notes.txt", "_draft.go", ".hidden.go")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "lib.go"), 0o755))

	files, err := Discover(dir, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "deploy.go"),
		filepath.Join(dir, "website.go"),
	}, files)
}

func TestDiscover_Named(t *testing.T) {
	dir := newCommandoDir(t, "website.go", "deploy.go", "extra.go")

	files, err := Discover(dir, []string{"website", "deploy", "website"})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "website.go"),
		filepath.Join(dir, "deploy.go"),
	}, files)
}

func TestDiscover_NamedMissing(t *testing.T) {
	dir := newCommandoDir(t, "deploy.go")

	_, err := Discover(dir, []string{"deploy", "website"})
	assert.ErrorIs(t, err, ErrModuleNotFound)
	assert.ErrorContains(t, err, "website")
}

func TestDiscover_NamedInvalid(t *testing.T) {
	dir := newCommandoDir(t, "config.go")

	for _, name := range []string{"config", "../escape", "deploy_test"} {
		_, err := Discover(dir, []string{name})
		assert.ErrorContains(t, err, "invalid module name", name)
	}
}

func TestDiscover_MissingDir(t *testing.T) {
	files, err := Discover(filepath.Join(t.TempDir(), "nope"), nil)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestDiscover_UnreadableDir(t *testing.T) {
	file := filepath.Join(t.TempDir(), ".commando")
	writeFile(t, file, "not a directory")

	_, err := Discover(file, nil)
	assert.ErrorContains(t, err, "read module directory")
}

func TestLoadProject_MissingCommandoDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "proj", ".commando")
	cache := linkcache.New(t.TempDir(), nil)

	mods, err := LoadProject(context.Background(), &recordingLoader{}, cache, dir, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, mods)

	_, err = os.Lstat(cache.LinkPath(dir))
	assert.True(t, os.IsNotExist(err))
}

type recordingLoader struct {
	paths []string
	fail  string
}

func (r *recordingLoader) Load(_ context.Context, path string) (*Module, error) {
	r.paths = append(r.paths, path)
	if r.fail != "" && filepath.Base(path) == r.fail {
		return nil, errors.New("boom")
	}
	return &Module{Run: func([]string) error { return nil }}, nil
}

func TestLoadProject_LoadsThroughLink(t *testing.T) {
	dir := newCommandoDir(t, "deploy.go", "website.go")
	cache := linkcache.New(t.TempDir(), nil)
	loader := &recordingLoader{}

	mods, err := LoadProject(context.Background(), loader, cache, dir, nil, nil)
	require.NoError(t, err)
	require.Len(t, mods, 2)

	link := cache.LinkPath(dir)
	assert.Equal(t, []string{
		filepath.Join(link, "deploy.go"),
		filepath.Join(link, "website.go"),
	}, loader.paths)

	assert.Equal(t, "deploy", mods[0].Name)
	assert.Equal(t, filepath.Join(dir, "deploy.go"), mods[0].Path)
	assert.Equal(t, filepath.Join(link, "deploy.go"), mods[0].LoadPath)

	target, err := os.Readlink(link)
	require.NoError(t, err)
	assert.Equal(t, dir, target)
}

func TestLoadProject_NoModulesCreatesNoLink(t *testing.T) {
	dir := newCommandoDir(t, "config.go")
	cache := linkcache.New(t.TempDir(), nil)

	mods, err := LoadProject(context.Background(), &recordingLoader{}, cache, dir, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, mods)

	_, err = os.Lstat(cache.LinkPath(dir))
	assert.True(t, os.IsNotExist(err))
}

func TestLoadProject_LoaderFailure(t *testing.T) {
	dir := newCommandoDir(t, "deploy.go", "website.go")
	cache := linkcache.New(t.TempDir(), nil)

	_, err := LoadProject(context.Background(), &recordingLoader{fail: "website.go"}, cache, dir, nil, nil)
	assert.EqualError(t, err, "load module website: boom")
}

func TestLoadProject_LinkConflict(t *testing.T) {
	dir := newCommandoDir(t, "deploy.go")
	cache := linkcache.New(t.TempDir(), nil)
	link := cache.LinkPath(dir)
	writeFile(t, link, "occupied")

	loader := &recordingLoader{}
	_, err := LoadProject(context.Background(), loader, cache, dir, nil, nil)
	assert.ErrorIs(t, err, linkcache.ErrSymlinkConflict)
	assert.Empty(t, loader.paths)
}

func TestLoadProject_WithYaegi(t *testing.T) {
	deps := t.TempDir()
	dir := newCommandoDir(t)
	writeFile(t, filepath.Join(dir, "echo.go"), echoModule)

	mods, err := LoadProject(context.Background(), NewYaegiLoader(deps, nil), linkcache.New(deps, nil), dir, nil, nil)
	require.NoError(t, err)
	require.Len(t, mods, 1)
	assert.Equal(t, "echo", mods[0].Name)
	assert.NoError(t, mods[0].Run([]string{"a"}))
}

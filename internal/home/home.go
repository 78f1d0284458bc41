// Package home locates the framework home directory, which holds the
// shared dependency tree that project modules import from.
package home

import (
	"errors"
	"fmt"
	"path/filepath"
)

// Environment variables consulted by Resolve.
const (
	EnvHome    = "COMMANDO_HOME"
	envXDGData = "XDG_DATA_HOME"
	envHOME    = "HOME"
)

const (
	appName = "commando"

	// depsDirName is the shared dependency root under the home directory.
	// It uses the GOPATH layout: sources live in deps/src/<import path>.
	depsDirName = "deps"
)

// ErrNoHome is returned when neither COMMANDO_HOME, XDG_DATA_HOME nor
// HOME is set.
var ErrNoHome = errors.New("cannot determine commando home: set COMMANDO_HOME")

// Home is the resolved framework home.
type Home struct {
	Dir string
}

// Resolve picks the home directory from, in order, COMMANDO_HOME,
// $XDG_DATA_HOME/commando and ~/.local/share/commando. getenv is
// typically os.Getenv; the result is always absolute and cleaned.
func Resolve(getenv func(string) string) (Home, error) {
	if dir := getenv(EnvHome); dir != "" {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return Home{}, fmt.Errorf("resolve %s=%s: %w", EnvHome, dir, err)
		}
		return Home{Dir: abs}, nil
	}
	if xdg := getenv(envXDGData); xdg != "" && filepath.IsAbs(xdg) {
		return Home{Dir: filepath.Join(xdg, appName)}, nil
	}
	if h := getenv(envHOME); h != "" {
		return Home{Dir: filepath.Join(h, ".local", "share", appName)}, nil
	}
	return Home{}, ErrNoHome
}

// DepsRoot is the shared dependency root.
func (h Home) DepsRoot() string {
	return filepath.Join(h.Dir, depsDirName)
}

// SourceRoot is where third-party packages are installed, as
// <SourceRoot>/<import path>.
func (h Home) SourceRoot() string {
	return filepath.Join(h.DepsRoot(), "src")
}

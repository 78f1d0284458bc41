package project

import (
	"errors"
	"fmt"
	"path/filepath"
)

// ModuleDirName is the reserved subdirectory that marks a project root
// and holds its config file and command modules.
const ModuleDirName = ".commando"

// EnvProject names the environment override for the project root.
const EnvProject = "COMMANDO_PROJECT"

// ErrInvalidOverride is returned when the environment override does not
// point at a project root.
var ErrInvalidOverride = errors.New("project override has no " + ModuleDirName + " directory")

// InvalidOverrideError carries the rejected override path.
type InvalidOverrideError struct {
	Path string
}

func (e *InvalidOverrideError) Error() string {
	return fmt.Sprintf("%s=%s but %s not found", EnvProject, e.Path, filepath.Join(e.Path, ModuleDirName))
}

func (e *InvalidOverrideError) Unwrap() error {
	return ErrInvalidOverride
}

// Source records how a project root was found.
type Source string

const (
	SourceNone   Source = "none"
	SourceFlag   Source = "flag"
	SourceEnv    Source = "env"
	SourceSearch Source = "search"
)

// Result is the outcome of Locate. The zero Root means no project.
type Result struct {
	Root   string
	Source Source
}

// Found reports whether a project root was located.
func (r Result) Found() bool {
	return r.Root != ""
}

// ModuleDir returns the project's .commando directory, or "" when no
// project was found.
func (r Result) ModuleDir() string {
	if !r.Found() {
		return ""
	}
	return ModuleDir(r.Root)
}

// ModuleDir returns the reserved subdirectory of root.
func ModuleDir(root string) string {
	return filepath.Join(root, ModuleDirName)
}

// Package config resolves the configuration for one commando invocation.
//
// Resolution locates the project (see package project), loads the first
// config file found in its .commando directory, and merges it with the
// options parsed from the command line into a single Config. The Config
// is built once and treated as read-only afterwards.
package config

import (
	"errors"
	"fmt"
)

// DefaultLogFormat is used when the command line does not choose one.
const DefaultLogFormat = "pretty"

// EnvRestarted marks a process that has already re-executed itself once.
const EnvRestarted = "COMMANDO_RESTARTED"

// BootstrapOptions are the values known before any project is located.
// They are collected by the CLI (flags plus the two environment variables
// it consults) and passed in by value.
type BootstrapOptions struct {
	// Root is the --root flag. It wins over everything else.
	Root string
	// ProjectEnv is the value of COMMANDO_PROJECT.
	ProjectEnv string
	// StartDir is the directory the command was invoked from.
	StartDir string

	Debug     bool
	Quiet     bool
	Silent    bool
	LogLevel  string
	LogFormat string
	ColorMode string
	Restarted bool
}

// ProjectConfig is the content of .commando/config.*.
// Unset fields stay nil or empty; nothing is defaulted.
type ProjectConfig struct {
	// Modules restricts and orders the command modules to load.
	Modules []string `koanf:"modules" json:"modules,omitempty" yaml:"modules,omitempty"`
	// Dependencies maps import paths to the versions the project expects
	// in the shared dependency tree. Informational only.
	Dependencies map[string]string `koanf:"dependencies" json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
	// Settings is free-form and handed to modules as is.
	Settings    map[string]any `koanf:"settings" json:"settings,omitempty" yaml:"settings,omitempty"`
	InstallMode string         `koanf:"installMode" json:"installMode,omitempty" yaml:"installMode,omitempty"`
	Offline     *bool          `koanf:"offline" json:"offline,omitempty" yaml:"offline,omitempty"`
}

// Config is the resolved configuration for one invocation.
type Config struct {
	ProjectPresent bool   `json:"projectPresent" yaml:"projectPresent"`
	ProjectRoot    string `json:"projectRoot,omitempty" yaml:"projectRoot,omitempty"`
	CommandoDir    string `json:"commandoDir,omitempty" yaml:"commandoDir,omitempty"`
	// ConfigFile is the file the project settings came from, if any.
	ConfigFile string `json:"configFile,omitempty" yaml:"configFile,omitempty"`
	// UserDir is the absolute directory the command was invoked from.
	UserDir string `json:"userDir" yaml:"userDir"`

	Debug     bool   `json:"debug" yaml:"debug"`
	Quiet     bool   `json:"quiet" yaml:"quiet"`
	Silent    bool   `json:"silent" yaml:"silent"`
	LogLevel  string `json:"logLevel,omitempty" yaml:"logLevel,omitempty"`
	LogFormat string `json:"logFormat" yaml:"logFormat"`
	ColorMode string `json:"colorMode,omitempty" yaml:"colorMode,omitempty"`
	Restarted bool   `json:"restarted" yaml:"restarted"`

	ProjectConfig `json:",inline" yaml:",inline"`
}

// ErrConfigParse matches any failure to load a config file that exists.
var ErrConfigParse = errors.New("failed to load project config")

// ParseError reports a config file that exists but could not be loaded.
// Unwrap yields both ErrConfigParse and the underlying cause.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to load %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() []error {
	return []error{ErrConfigParse, e.Err}
}

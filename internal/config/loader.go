package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
	"github.com/tidwall/jsonc"
	"go.uber.org/zap"
)

const (
	maxConfigFileSize = 1024 * 1024 // 1MB

	// keyDelim separates nested koanf keys. Dependency keys are import
	// paths and settings keys are free-form, so neither "." nor "/" is
	// safe here.
	keyDelim = "::"
)

// CandidateFiles are searched in order inside .commando; the first one
// that exists is loaded and the rest are ignored.
var CandidateFiles = []string{
	"config.yml",
	"config.yaml",
	"config.json",
	"config.toml",
	"config.go",
}

// ScriptLoader evaluates a Go config script and returns the settings map
// it produces.
type ScriptLoader interface {
	LoadConfig(ctx context.Context, path string) (map[string]any, error)
}

// findConfigFile returns the first candidate present in dir.
func findConfigFile(dir string) (string, bool) {
	for _, name := range CandidateFiles {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}

// loadFile parses path into k. Every failure is wrapped in *ParseError.
func (r *Resolver) loadFile(ctx context.Context, k *koanf.Koanf, path string) error {
	var err error
	if filepath.Ext(path) == ".go" {
		err = r.loadScript(ctx, k, path)
	} else {
		err = loadData(k, path)
	}
	if err != nil {
		return &ParseError{Path: path, Err: err}
	}
	return nil
}

func loadData(k *koanf.Koanf, path string) error {
	content, err := readConfigFile(path)
	if err != nil {
		return err
	}

	switch filepath.Ext(path) {
	case ".yml", ".yaml":
		return k.Load(rawbytes.Provider(content), yaml.Parser())
	case ".json":
		// Comments and trailing commas are allowed in config.json.
		return k.Load(rawbytes.Provider(jsonc.ToJSON(content)), json.Parser())
	case ".toml":
		var m map[string]any
		if err := toml.Unmarshal(content, &m); err != nil {
			return err
		}
		return k.Load(confmap.Provider(m, ""), nil)
	default:
		return fmt.Errorf("unsupported config file type %q", filepath.Ext(path))
	}
}

func (r *Resolver) loadScript(ctx context.Context, k *koanf.Koanf, path string) error {
	if r.script == nil {
		return errors.New("no script loader configured for Go config files")
	}
	m, err := r.script.LoadConfig(ctx, path)
	if err != nil {
		return err
	}
	r.logger.Debug(ctx, "evaluated config script", zap.String("path", path), zap.Int("keys", len(m)))
	return k.Load(confmap.Provider(m, ""), nil)
}

// readConfigFile opens the file once and validates size on the open
// descriptor to avoid a stat/read race.
func readConfigFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if !info.Mode().IsRegular() {
		return nil, &fs.PathError{Op: "read", Path: path, Err: errors.New("not a regular file")}
	}
	if info.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxConfigFileSize)
	}

	return io.ReadAll(io.LimitReader(f, maxConfigFileSize+1))
}

// decodeProject unmarshals the merged koanf tree.
func decodeProject(k *koanf.Koanf) (ProjectConfig, error) {
	var pc ProjectConfig
	if err := k.Unmarshal("", &pc); err != nil {
		return ProjectConfig{}, fmt.Errorf("decode config: %w", err)
	}
	return pc, nil
}

package modules

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/commando/internal/logging"
)

// configScript is the name reserved for a Go config file in .commando.
const configScript = "config.go"

// ErrModuleNotFound is returned when the config lists a module with no
// matching file.
var ErrModuleNotFound = errors.New("module not found")

// Linker maps project paths into the shared dependency tree.
// *linkcache.Cache implements it.
type Linker interface {
	EnsureLink(ctx context.Context, moduleDir string) (string, error)
	RewritePath(ctx context.Context, fullPath, moduleDir string) string
}

// Discover returns the module files in commandoDir. With names empty it
// returns every *.go file except config.go, tests and files matched by
// IgnoreFile, sorted by name; a missing commandoDir has no modules. Otherwise it returns exactly the named
// modules in the given order.
func Discover(commandoDir string, names []string) ([]string, error) {
	if len(names) > 0 {
		files := make([]string, 0, len(names))
		seen := make(map[string]bool, len(names))
		for _, name := range names {
			if seen[name] {
				continue
			}
			seen[name] = true
			path := filepath.Join(commandoDir, name+".go")
			if !isModuleFile(filepath.Base(path)) || strings.ContainsRune(name, filepath.Separator) {
				return nil, fmt.Errorf("invalid module name %q", name)
			}
			info, err := os.Stat(path)
			if err != nil || info.IsDir() {
				return nil, fmt.Errorf("%w: %s (expected %s)", ErrModuleNotFound, name, path)
			}
			files = append(files, path)
		}
		return files, nil
	}

	entries, err := os.ReadDir(commandoDir)
	if errors.Is(err, fs.ErrNotExist) {
		// --root is trusted without checking for .commando.
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read module directory: %w", err)
	}
	ignored, err := readIgnore(commandoDir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !isModuleFile(e.Name()) || ignored.match(e.Name()) {
			continue
		}
		files = append(files, filepath.Join(commandoDir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

func isModuleFile(name string) bool {
	return strings.HasSuffix(name, ".go") &&
		!strings.HasSuffix(name, "_test.go") &&
		name != configScript &&
		!strings.HasPrefix(name, ".") &&
		!strings.HasPrefix(name, "_")
}

// LoadProject loads the project's modules through the link tree. The
// link is ensured once; each file is then loaded from its rewritten path.
// The first failure aborts loading.
func LoadProject(ctx context.Context, loader Loader, linker Linker, commandoDir string, names []string, logger *logging.Logger) ([]*Module, error) {
	if logger == nil {
		logger = logging.Nop()
	}

	files, err := Discover(commandoDir, names)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		logger.Debug(ctx, "no modules in project", zap.String("dir", commandoDir))
		return nil, nil
	}

	if _, err := linker.EnsureLink(ctx, commandoDir); err != nil {
		return nil, err
	}

	mods := make([]*Module, 0, len(files))
	for _, file := range files {
		loadPath := linker.RewritePath(ctx, file, commandoDir)
		m, err := loader.Load(ctx, loadPath)
		if err != nil {
			return nil, fmt.Errorf("load module %s: %w", nameOf(file), err)
		}
		m.Name = nameOf(file)
		m.Path = file
		m.LoadPath = loadPath
		logger.Debug(ctx, "loaded module",
			zap.String("module", m.Name),
			zap.String("load_path", loadPath),
		)
		mods = append(mods, m)
	}
	return mods, nil
}

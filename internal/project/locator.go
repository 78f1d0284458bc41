package project

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/commando/internal/logging"
)

// LocateOptions are the caller-supplied inputs to Locate. Nothing is
// read from the environment; EnvRoot carries the value of
// COMMANDO_PROJECT when the caller has one.
type LocateOptions struct {
	// Root is an explicit project root. It wins unconditionally.
	Root string
	// EnvRoot is the environment override. It must contain .commando.
	EnvRoot string
	// StartDir is where the upward search begins. Relative Root values
	// are also resolved against it. Empty means the working directory.
	StartDir string
}

// Locator finds project roots.
type Locator struct {
	logger *logging.Logger
}

// NewLocator returns a Locator. A nil logger discards output.
func NewLocator(logger *logging.Logger) *Locator {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Locator{logger: logger.Named("project")}
}

// Locate resolves the project root. A Result with no Root and a nil
// error means there is no project.
func (l *Locator) Locate(ctx context.Context, opts LocateOptions) (Result, error) {
	start, err := startDir(opts.StartDir)
	if err != nil {
		return Result{}, err
	}

	if opts.Root != "" {
		root := opts.Root
		if !filepath.IsAbs(root) {
			root = filepath.Join(start, root)
		}
		root = filepath.Clean(root)
		l.logger.Debug(ctx, "using explicit project root", zap.String("root", root))
		return Result{Root: root, Source: SourceFlag}, nil
	}

	if opts.EnvRoot != "" {
		l.logger.Debug(ctx, "checking project override", zap.String("env", EnvProject), zap.String("path", opts.EnvRoot))
		root, err := filepath.Abs(opts.EnvRoot)
		if err != nil {
			return Result{}, fmt.Errorf("resolve %s=%s: %w", EnvProject, opts.EnvRoot, err)
		}
		if !hasModuleDir(root) {
			return Result{}, &InvalidOverrideError{Path: opts.EnvRoot}
		}
		return Result{Root: root, Source: SourceEnv}, nil
	}

	return l.search(ctx, start), nil
}

// search walks from dir up to the filesystem root, inclusive.
func (l *Locator) search(ctx context.Context, dir string) Result {
	l.logger.Debug(ctx, "starting project discovery", zap.String("start", dir))

	for {
		l.logger.Trace(ctx, "checking directory", zap.String("dir", dir))
		if hasModuleDir(dir) {
			l.logger.Debug(ctx, "project discovered", zap.String("root", dir))
			return Result{Root: dir, Source: SourceSearch}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	l.logger.Debug(ctx, "reached filesystem root, no project found")
	return Result{Source: SourceNone}
}

func startDir(dir string) (string, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("determine working directory: %w", err)
		}
		return wd, nil
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve start directory %s: %w", dir, err)
	}
	return abs, nil
}

// hasModuleDir reports whether dir contains a .commando directory.
// Unreadable entries count as absent.
func hasModuleDir(dir string) bool {
	info, err := os.Stat(ModuleDir(dir))
	return err == nil && info.IsDir()
}

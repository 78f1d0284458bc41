package modules

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/commando/internal/logging"
)

// Module is a loaded command module.
type Module struct {
	// Name is the command name, derived from the file name.
	Name string
	// Path is the file inside the project's .commando directory.
	Path string
	// LoadPath is the path the code was evaluated from.
	LoadPath    string
	Description string
	Run         func(args []string) error
}

// Loader evaluates the module at path. Where imports resolve from is set
// when the loader is built (the GoPath of NewYaegiLoader); callers only
// supply the rewritten path.
type Loader interface {
	Load(ctx context.Context, path string) (*Module, error)
}

// ErrNoRun is returned for a module without a usable Run function.
var ErrNoRun = errors.New("module does not define func Run(args []string) error")

// YaegiLoader interprets modules with yaegi, resolving third-party
// imports from GoPath/src.
type YaegiLoader struct {
	goPath string
	logger *logging.Logger
}

// NewYaegiLoader returns a loader using goPath as the import root.
func NewYaegiLoader(goPath string, logger *logging.Logger) *YaegiLoader {
	if logger == nil {
		logger = logging.Nop()
	}
	return &YaegiLoader{goPath: goPath, logger: logger.Named("modules")}
}

func (l *YaegiLoader) newInterpreter() (*interp.Interpreter, error) {
	i := interp.New(interp.Options{GoPath: l.goPath})
	if err := i.Use(stdlib.Symbols); err != nil {
		return nil, fmt.Errorf("failed to load stdlib: %w", err)
	}
	return i, nil
}

// eval evaluates the file at path in a fresh interpreter. yaegi panics
// on some malformed input; those panics are returned as errors.
func (l *YaegiLoader) eval(ctx context.Context, path string) (i *interp.Interpreter, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("evaluate %s: panic: %v", path, r)
		}
	}()

	i, err = l.newInterpreter()
	if err != nil {
		return nil, err
	}
	l.logger.Debug(ctx, "evaluating", zap.String("path", path), zap.String("gopath", l.goPath))
	if _, err := i.EvalPath(path); err != nil {
		return nil, fmt.Errorf("evaluate %s: %w", path, err)
	}
	return i, nil
}

// Load implements Loader.
func (l *YaegiLoader) Load(ctx context.Context, path string) (*Module, error) {
	i, err := l.eval(ctx, path)
	if err != nil {
		return nil, err
	}

	v, err := i.Eval("main.Run")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, ErrNoRun)
	}
	run, ok := v.Interface().(func([]string) error)
	if !ok {
		return nil, fmt.Errorf("%s: %w (got %s)", path, ErrNoRun, v.Type())
	}

	m := &Module{
		Name:     nameOf(path),
		Path:     path,
		LoadPath: path,
		Run:      run,
	}
	if d, err := i.Eval("main.Description"); err == nil {
		if s, ok := d.Interface().(string); ok {
			m.Description = s
		}
	}
	return m, nil
}

// LoadConfig evaluates a config.go script. The script declares
// func Config() map[string]interface{} in package main.
func (l *YaegiLoader) LoadConfig(ctx context.Context, path string) (m map[string]any, err error) {
	i, err := l.eval(ctx, path)
	if err != nil {
		return nil, err
	}

	v, err := i.Eval("main.Config")
	if err != nil {
		return nil, fmt.Errorf("config script must define func Config() map[string]interface{}: %w", err)
	}
	fn, ok := v.Interface().(func() map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("config script: Config has type %s, want func() map[string]interface{}", v.Type())
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("config script panicked: %v", r)
		}
	}()
	return fn(), nil
}

func nameOf(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/knadh/koanf/v2"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/commando/internal/logging"
	"github.com/fyrsmithlabs/commando/internal/project"
)

// State is a step of resolution, logged as it is entered.
type State string

const (
	StateLocatingProject State = "locating-project"
	StateProjectFound    State = "project-found"
	StateNoProject       State = "no-project"
	StateLoadingConfig   State = "loading-config"
	StateConfigLoaded    State = "config-loaded"
	StateNoConfigFile    State = "no-config-file"
	StateParseError      State = "config-parse-error"
	StateMerged          State = "merged"
)

// Layer contributes settings on top of the project config file, in the
// order layers were added. None are registered by default.
//
// TODO: add the user-level (~/.config/commando/config.*) and
// .commando/config.local layers once their file formats are settled.
type Layer interface {
	Name() string
	Load(ctx context.Context, k *koanf.Koanf) error
}

// Resolver builds a Config from BootstrapOptions.
type Resolver struct {
	locator *project.Locator
	script  ScriptLoader
	logger  *logging.Logger
	layers  []Layer
}

// NewResolver returns a Resolver. script may be nil, in which case a
// config.go file fails to load.
func NewResolver(logger *logging.Logger, script ScriptLoader) *Resolver {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Resolver{
		locator: project.NewLocator(logger),
		script:  script,
		logger:  logger.Named("config"),
	}
}

// AddLayer registers an extra settings layer.
func (r *Resolver) AddLayer(l Layer) {
	r.layers = append(r.layers, l)
}

// Resolve locates the project, loads its config file and merges it with
// opts. No project and no config file are both valid outcomes. An
// invalid COMMANDO_PROJECT override and an unreadable config file are
// returned as errors; nothing is retried.
func (r *Resolver) Resolve(ctx context.Context, opts BootstrapOptions) (*Config, error) {
	userDir, err := resolveUserDir(opts.StartDir)
	if err != nil {
		return nil, err
	}
	r.logger.Debug(ctx, "starting config resolution",
		zap.String("user_dir", userDir),
		zap.String("root", opts.Root),
	)

	r.enter(ctx, StateLocatingProject)
	res, err := r.locator.Locate(ctx, project.LocateOptions{
		Root:     opts.Root,
		EnvRoot:  opts.ProjectEnv,
		StartDir: userDir,
	})
	if err != nil {
		return nil, err
	}

	cfg := &Config{UserDir: userDir}
	k := koanf.New(keyDelim)

	if res.Found() {
		r.enter(ctx, StateProjectFound, zap.String("root", res.Root), zap.String("source", string(res.Source)))
		cfg.ProjectPresent = true
		cfg.ProjectRoot = res.Root
		cfg.CommandoDir = res.ModuleDir()

		r.enter(ctx, StateLoadingConfig, zap.String("dir", cfg.CommandoDir))
		if path, ok := findConfigFile(cfg.CommandoDir); ok {
			if err := r.loadFile(ctx, k, path); err != nil {
				r.enter(ctx, StateParseError, zap.Error(err))
				return nil, err
			}
			cfg.ConfigFile = path
			r.enter(ctx, StateConfigLoaded, zap.String("file", path), zap.Strings("keys", k.Keys()))
		} else {
			r.enter(ctx, StateNoConfigFile)
		}
	} else {
		r.enter(ctx, StateNoProject)
	}

	for _, l := range r.layers {
		if err := l.Load(ctx, k); err != nil {
			return nil, fmt.Errorf("load config layer %s: %w", l.Name(), err)
		}
	}

	pc, err := decodeProject(k)
	if err != nil {
		if cfg.ConfigFile != "" {
			return nil, &ParseError{Path: cfg.ConfigFile, Err: err}
		}
		return nil, err
	}

	merge(cfg, opts, pc)
	r.enter(ctx, StateMerged,
		zap.Bool("project_present", cfg.ProjectPresent),
		zap.String("log_format", cfg.LogFormat),
	)
	return cfg, nil
}

// merge fills cfg from the bootstrap options and project settings. The
// two sets of fields are disjoint; bootstrap values are copied as is
// except LogFormat, which falls back to DefaultLogFormat.
func merge(cfg *Config, opts BootstrapOptions, pc ProjectConfig) {
	cfg.Debug = opts.Debug
	cfg.Quiet = opts.Quiet
	cfg.Silent = opts.Silent
	cfg.LogLevel = opts.LogLevel
	cfg.LogFormat = opts.LogFormat
	if cfg.LogFormat == "" {
		cfg.LogFormat = DefaultLogFormat
	}
	cfg.ColorMode = opts.ColorMode
	cfg.Restarted = opts.Restarted

	cfg.ProjectConfig = pc
}

func (r *Resolver) enter(ctx context.Context, s State, fields ...zap.Field) {
	r.logger.Debug(ctx, "config resolution: "+string(s), fields...)
}

func resolveUserDir(dir string) (string, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("determine working directory: %w", err)
		}
		return wd, nil
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve user directory %s: %w", dir, err)
	}
	return abs, nil
}

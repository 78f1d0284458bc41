package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/commando/internal/config"
	"github.com/fyrsmithlabs/commando/internal/home"
	"github.com/fyrsmithlabs/commando/internal/linkcache"
	"github.com/fyrsmithlabs/commando/internal/logging"
	"github.com/fyrsmithlabs/commando/internal/modules"
)

// app is the state shared by every command of one invocation.
type app struct {
	opts    rootOptions
	logger  *logging.Logger
	home    home.Home
	cache   *linkcache.Cache
	cfg     *config.Config
	modules []*modules.Module
	// moduleArgs are the arguments after the command name.
	moduleArgs []string
}

// builtins cannot be shadowed by project modules.
var builtins = map[string]bool{
	"version":    true,
	"config":     true,
	"links":      true,
	"help":       true,
	"completion": true,
}

func execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	opts, rest := prescan(args)

	envs, err := readEnv()
	if err != nil {
		return fmt.Errorf("read environment: %w", err)
	}

	logger, err := newLogger(opts, envs, stderr)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	ctx = logging.WithLogger(ctx, logger)

	a, err := setup(ctx, opts, envs, logger)
	if err != nil {
		return err
	}
	if len(rest) > 0 {
		a.moduleArgs = rest[1:]
	}

	root := newRootCmd(ctx, a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.ExecuteContext(ctx)
}

// setup resolves the home, the configuration and the project modules.
func setup(ctx context.Context, opts rootOptions, envs envSettings, logger *logging.Logger) (*app, error) {
	h, err := home.Resolve(os.Getenv)
	if err != nil {
		return nil, err
	}

	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("determine working directory: %w", err)
	}

	loader := modules.NewYaegiLoader(h.DepsRoot(), logger)
	cfg, err := config.NewResolver(logger, loader).Resolve(ctx, config.BootstrapOptions{
		Root:       opts.root,
		ProjectEnv: envs.project,
		StartDir:   wd,
		Debug:      opts.debug,
		Quiet:      opts.quiet,
		Silent:     opts.silent,
		LogLevel:   opts.logLevel,
		LogFormat:  opts.logFormat,
		ColorMode:  opts.color,
		Restarted:  envs.restarted,
	})
	if err != nil {
		return nil, err
	}

	a := &app{
		opts:   opts,
		logger: logger,
		home:   h,
		cache:  linkcache.New(h.DepsRoot(), logger),
		cfg:    cfg,
	}

	if cfg.ProjectPresent {
		ctx = logging.WithProject(ctx, cfg.ProjectRoot)
		mods, err := modules.LoadProject(ctx, loader, a.cache, cfg.CommandoDir, cfg.Modules, logger)
		if err != nil {
			return nil, err
		}
		a.modules = mods
	}
	return a, nil
}

func newRootCmd(ctx context.Context, a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "commando",
		Short: "Run project commands from .commando",
		Long: `commando runs the command modules of the nearest project.

A project is a directory containing .commando. Each Go file in it
(other than config.go) is a command. Modules import third-party
packages from the shared dependency tree under COMMANDO_HOME/deps/src.

Environment:
  COMMANDO_PROJECT  project root; must contain .commando
  COMMANDO_HOME     framework home (default ~/.local/share/commando)`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	// Parsed again so cobra validates them and lists them in help.
	bindFlags(root.PersistentFlags(), &rootOptions{})

	root.AddCommand(newVersionCmd(a), newConfigCmd(a), newLinksCmd(a))

	if a.cfg.ProjectPresent {
		ctx = logging.WithProject(ctx, a.cfg.ProjectRoot)
	}
	for _, m := range a.modules {
		if builtins[m.Name] {
			a.logger.Warn(ctx, "module shadows a built-in command; skipped",
				zap.String("module", m.Name),
				zap.String("path", m.Path),
			)
			continue
		}
		root.AddCommand(newModuleCmd(a, m))
	}
	return root
}

package main

import (
	"io"
	"os"
	"strings"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"go.opentelemetry.io/otel/log/global"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/fyrsmithlabs/commando/internal/logging"
)

const envPrefix = "COMMANDO_"

// rootOptions are the persistent flags shared by every command.
type rootOptions struct {
	root      string
	debug     bool
	quiet     bool
	silent    bool
	logLevel  string
	logFormat string
	color     string
}

func bindFlags(fs *pflag.FlagSet, o *rootOptions) {
	fs.StringVar(&o.root, "root", "", "project root (skips the search for .commando)")
	fs.BoolVar(&o.debug, "debug", false, "enable debug logging")
	fs.BoolVar(&o.quiet, "quiet", false, "only log warnings and errors")
	fs.BoolVar(&o.silent, "silent", false, "disable logging")
	fs.StringVar(&o.logLevel, "log-level", "", "log level: trace, debug, info, warn, error")
	fs.StringVar(&o.logFormat, "log-format", "", "log format: pretty or json")
	fs.StringVar(&o.color, "color", logging.ColorAuto, "color mode: auto, always, never")
}

// prescan parses the root flags that precede the command name. Modules
// have to be loaded before cobra sees the arguments, and loading depends
// on these flags. Errors are ignored here; cobra reports them on the
// real parse. rest starts at the command name.
func prescan(args []string) (opts rootOptions, rest []string) {
	fs := pflag.NewFlagSet("commando", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	fs.SetInterspersed(false)
	bindFlags(fs, &opts)
	if err := fs.Parse(args); err != nil {
		return opts, nil
	}
	return opts, fs.Args()
}

// envSettings are the COMMANDO_* variables read at startup.
type envSettings struct {
	project   string
	restarted bool
	// logOTEL (COMMANDO_LOG_OTEL) exports log entries through the global
	// OpenTelemetry logger provider.
	logOTEL bool
}

// readEnv loads COMMANDO_* variables, keyed by the lower-cased suffix.
func readEnv() (envSettings, error) {
	k := koanf.New(".")
	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil)
	if err != nil {
		return envSettings{}, err
	}
	return envSettings{
		project:   k.String("project"),
		restarted: k.Bool("restarted"),
		logOTEL:   k.Bool("log_otel"),
	}, nil
}

func newLogger(o rootOptions, envs envSettings, stderr io.Writer) (*logging.Logger, error) {
	if o.silent && !envs.logOTEL {
		return logging.Nop(), nil
	}
	cfg, err := logging.ConfigFromFlags(logging.Flags{
		Debug:  o.debug,
		Quiet:  o.quiet,
		Level:  o.logLevel,
		Format: o.logFormat,
		Silent: o.silent,
		Color:  o.color,
		OTEL:   envs.logOTEL,
	}, isTerminal(stderr))
	if err != nil {
		return nil, err
	}
	cfg.Output.Writer = stderr
	return logging.NewLogger(cfg, global.GetLoggerProvider())
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

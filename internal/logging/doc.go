// Package logging provides structured logging for the commando CLI.
//
// The package wraps Zap with:
//   - a custom Trace level (-2, below Debug)
//   - pretty (console) or JSON output on stderr, optionally colored
//   - an optional OpenTelemetry log core
//   - project and command correlation fields taken from the context
//   - secret redaction for settings values that end up in log fields
//
// Build a logger from command line flags:
//
//	cfg, err := logging.ConfigFromFlags(logging.Flags{Debug: true}, isTerminal)
//	if err != nil {
//	    return err
//	}
//	logger, err := logging.NewLogger(cfg, nil)
//
// Use logging.Nop for --silent. Tests use NewTestLogger, which records
// every entry through zaptest/observer:
//
//	tl := logging.NewTestLogger()
//	tl.Warn(ctx, "symlink points to wrong target")
//	tl.AssertLogged(t, zapcore.WarnLevel, "wrong target")
//
// Logger is safe for concurrent use. Child loggers (With, Named) are
// independent and do not affect parent or siblings.
package logging

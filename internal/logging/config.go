// internal/logging/config.go
package logging

import (
	"fmt"
	"io"
	"regexp"

	"go.uber.org/zap/zapcore"
)

// Format names accepted on the command line.
const (
	FormatPretty = "pretty"
	FormatJSON   = "json"
)

// Color modes accepted on the command line.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config holds logging configuration.
type Config struct {
	Level     zapcore.Level
	Format    string
	Color     bool
	Output    OutputConfig
	Caller    CallerConfig
	Fields    map[string]string
	Redaction RedactionConfig
}

// OutputConfig controls where logs are written.
type OutputConfig struct {
	Stderr bool
	OTEL   bool

	// Writer replaces stderr when set. Tests use it to capture output.
	Writer io.Writer
}

// CallerConfig controls caller information in logs.
type CallerConfig struct {
	Enabled bool
	Skip    int
}

// RedactionConfig controls sensitive data redaction.
type RedactionConfig struct {
	Enabled  bool
	Fields   []string
	Patterns []string
}

// Flags is the subset of command line options that shape the logger.
type Flags struct {
	Debug  bool
	Quiet  bool
	Silent bool
	Level  string
	Format string
	Color  string
	// OTEL also sends entries to the OpenTelemetry logger provider.
	OTEL bool
}

// NewDefaultConfig returns the config used when no flags are given.
func NewDefaultConfig() *Config {
	return &Config{
		Level:  zapcore.InfoLevel,
		Format: "console",
		Output: OutputConfig{
			Stderr: true,
		},
		Caller: CallerConfig{
			Enabled: false,
			Skip:    1,
		},
		Redaction: RedactionConfig{
			Enabled: true,
			Fields: []string{
				"password", "secret", "token", "api_key",
				"authorization", "credential", "private_key",
			},
			Patterns: []string{
				`(?i)bearer\s+\S+`,
				`(?i)api[_-]?key[=:]\s*\S+`,
			},
		},
	}
}

// ConfigFromFlags builds a Config from command line flags.
//
// Precedence for the level: an explicit --log-level, then --debug, then
// --quiet, then info. --silent disables stderr; with OTEL off as well
// there is no output left and callers should use Nop instead of NewLogger.
func ConfigFromFlags(f Flags, isTerminal bool) (*Config, error) {
	cfg := NewDefaultConfig()

	switch {
	case f.Level != "":
		lvl, err := LevelFromString(f.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", f.Level, err)
		}
		cfg.Level = lvl
	case f.Debug:
		cfg.Level = zapcore.DebugLevel
		cfg.Caller.Enabled = true
	case f.Quiet:
		cfg.Level = zapcore.WarnLevel
	}

	switch f.Format {
	case "", FormatPretty:
		cfg.Format = "console"
	case FormatJSON:
		cfg.Format = "json"
	default:
		return nil, fmt.Errorf("log format must be %q or %q, got %q", FormatPretty, FormatJSON, f.Format)
	}

	switch f.Color {
	case "", ColorAuto:
		cfg.Color = isTerminal
	case ColorAlways:
		cfg.Color = true
	case ColorNever:
		cfg.Color = false
	default:
		return nil, fmt.Errorf("color mode must be one of auto, always, never; got %q", f.Color)
	}

	if f.Silent {
		cfg.Output.Stderr = false
	}
	cfg.Output.OTEL = f.OTEL
	return cfg, nil
}

// Validate checks config for errors.
func (c *Config) Validate() error {
	if c.Format != "json" && c.Format != "console" {
		return fmt.Errorf("format must be 'json' or 'console', got %q", c.Format)
	}
	if !c.Output.Stderr && !c.Output.OTEL {
		return fmt.Errorf("at least one output must be enabled (stderr or otel)")
	}
	if c.Caller.Enabled && c.Caller.Skip < 0 {
		return fmt.Errorf("caller skip must be >= 0, got %d", c.Caller.Skip)
	}

	if c.Redaction.Enabled {
		for _, pattern := range c.Redaction.Patterns {
			if _, err := regexp.Compile(pattern); err != nil {
				return fmt.Errorf("invalid redaction pattern %q: %w", pattern, err)
			}
		}
	}

	for k, v := range c.Fields {
		if k == "" {
			return fmt.Errorf("field key cannot be empty")
		}
		if v == "" {
			return fmt.Errorf("field %q has empty value", k)
		}
	}

	return nil
}

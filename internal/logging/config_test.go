package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestConfig_Defaults(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.Equal(t, zapcore.InfoLevel, cfg.Level)
	assert.Equal(t, "console", cfg.Format)
	assert.True(t, cfg.Output.Stderr)
	assert.False(t, cfg.Output.OTEL)
	assert.True(t, cfg.Redaction.Enabled)
	assert.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr bool
		errMsg  string
	}{
		{
			name:   "valid default config",
			config: NewDefaultConfig(),
		},
		{
			name:    "invalid format",
			config:  &Config{Format: "xml", Output: OutputConfig{Stderr: true}},
			wantErr: true,
			errMsg:  "format must be 'json' or 'console'",
		},
		{
			name:    "no output enabled",
			config:  &Config{Format: "json"},
			wantErr: true,
			errMsg:  "at least one output must be enabled",
		},
		{
			name: "bad redaction pattern",
			config: &Config{
				Format:    "json",
				Output:    OutputConfig{Stderr: true},
				Redaction: RedactionConfig{Enabled: true, Patterns: []string{"[oops("}},
			},
			wantErr: true,
			errMsg:  "invalid redaction pattern",
		},
		{
			name: "empty field value",
			config: &Config{
				Format: "json",
				Output: OutputConfig{Stderr: true},
				Fields: map[string]string{"project": ""},
			},
			wantErr: true,
			errMsg:  `field "project" has empty value`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestConfigFromFlags(t *testing.T) {
	tests := []struct {
		name       string
		flags      Flags
		terminal   bool
		wantLevel  zapcore.Level
		wantFormat string
		wantColor  bool
		wantStderr bool
		wantOTEL   bool
	}{
		{
			name:       "defaults on a terminal",
			terminal:   true,
			wantLevel:  zapcore.InfoLevel,
			wantFormat: "console",
			wantColor:  true,
			wantStderr: true,
		},
		{
			name:       "debug",
			flags:      Flags{Debug: true},
			wantLevel:  zapcore.DebugLevel,
			wantFormat: "console",
			wantStderr: true,
		},
		{
			name:       "quiet json",
			flags:      Flags{Quiet: true, Format: FormatJSON},
			wantLevel:  zapcore.WarnLevel,
			wantFormat: "json",
			wantStderr: true,
		},
		{
			name:       "explicit level beats debug",
			flags:      Flags{Debug: true, Level: "error"},
			wantLevel:  zapcore.ErrorLevel,
			wantFormat: "console",
			wantStderr: true,
		},
		{
			name:       "color never on a terminal",
			flags:      Flags{Color: ColorNever},
			terminal:   true,
			wantLevel:  zapcore.InfoLevel,
			wantFormat: "console",
			wantStderr: true,
		},
		{
			name:       "color always off a terminal",
			flags:      Flags{Color: ColorAlways},
			wantLevel:  zapcore.InfoLevel,
			wantFormat: "console",
			wantColor:  true,
			wantStderr: true,
		},
		{
			name:       "silent disables stderr",
			flags:      Flags{Silent: true},
			wantLevel:  zapcore.InfoLevel,
			wantFormat: "console",
		},
		{
			name:       "otel export",
			flags:      Flags{OTEL: true},
			wantLevel:  zapcore.InfoLevel,
			wantFormat: "console",
			wantStderr: true,
			wantOTEL:   true,
		},
		{
			name:       "silent keeps otel export",
			flags:      Flags{Silent: true, OTEL: true},
			wantLevel:  zapcore.InfoLevel,
			wantFormat: "console",
			wantOTEL:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := ConfigFromFlags(tt.flags, tt.terminal)
			require.NoError(t, err)
			assert.Equal(t, tt.wantLevel, cfg.Level)
			assert.Equal(t, tt.wantFormat, cfg.Format)
			assert.Equal(t, tt.wantColor, cfg.Color)
			assert.Equal(t, tt.wantStderr, cfg.Output.Stderr)
			assert.Equal(t, tt.wantOTEL, cfg.Output.OTEL)
		})
	}
}

func TestConfigFromFlags_Invalid(t *testing.T) {
	_, err := ConfigFromFlags(Flags{Format: "xml"}, false)
	assert.ErrorContains(t, err, "log format")

	_, err = ConfigFromFlags(Flags{Color: "sometimes"}, false)
	assert.ErrorContains(t, err, "color mode")

	_, err = ConfigFromFlags(Flags{Level: "loud"}, false)
	assert.ErrorContains(t, err, "invalid log level")
}

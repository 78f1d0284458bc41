package logging

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestRedactedString(t *testing.T) {
	tl := NewTestLogger()
	tl.Info(context.Background(), "auth", RedactedString("api_key", "sk-1234567890abcdef"))

	tl.AssertField(t, "auth", "api_key", "[REDACTED:19]")
}

func TestNewRedactingEncoder_InvalidPattern(t *testing.T) {
	_, err := NewRedactingEncoder(newEncoder(NewDefaultConfig()), RedactionConfig{
		Enabled:  true,
		Patterns: []string{"[invalid("},
	})
	assert.ErrorContains(t, err, "invalid redaction pattern")
}

func TestNewRedactingEncoder_PatternTooLong(t *testing.T) {
	_, err := NewRedactingEncoder(newEncoder(NewDefaultConfig()), RedactionConfig{
		Enabled:  true,
		Patterns: []string{strings.Repeat("a", 201)},
	})
	assert.ErrorContains(t, err, "pattern too long")
}

func TestNewRedactingEncoder_Disabled(t *testing.T) {
	enc, err := NewRedactingEncoder(newEncoder(NewDefaultConfig()), RedactionConfig{
		Patterns: []string{"[invalid("},
	})
	require.NoError(t, err)
	assert.Empty(t, enc.redactFields)
}

func TestRedactingEncoder_ValuePatterns(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Format = "json"
	enc, err := NewRedactingEncoder(newEncoder(cfg), cfg.Redaction)
	require.NoError(t, err)

	buf, err := enc.EncodeEntry(zapcore.Entry{Message: "header"}, []zapcore.Field{
		zap.String("value", "Bearer abc.def"),
		zap.String("password", "hunter2"),
		zap.String("user", "alice"),
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "[REDACTED:pattern]")
	assert.NotContains(t, out, "hunter2")
	assert.Contains(t, out, "alice")
}

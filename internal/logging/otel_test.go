package logging

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/log/embedded"
	"go.opentelemetry.io/otel/log/noop"
)

func TestNewCore_StderrOnly(t *testing.T) {
	core, err := newCore(NewDefaultConfig(), nil)
	require.NoError(t, err)
	assert.NotNil(t, core)
}

func TestNewCore_WithOTELProvider(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Output.OTEL = true

	core, err := newCore(cfg, noop.NewLoggerProvider())
	require.NoError(t, err)
	assert.NotNil(t, core)
}

func TestNewCore_OTELOnlyWithoutProvider(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Output.Stderr = false
	cfg.Output.OTEL = true

	_, err := newCore(cfg, nil)
	assert.ErrorContains(t, err, "at least one output")
}

type recordingProvider struct {
	embedded.LoggerProvider

	mu     sync.Mutex
	bodies []string
}

func (p *recordingProvider) Logger(string, ...log.LoggerOption) log.Logger {
	return &recordingLogger{p: p}
}

func (p *recordingProvider) Bodies() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.bodies...)
}

type recordingLogger struct {
	embedded.Logger
	p *recordingProvider
}

func (l *recordingLogger) Emit(_ context.Context, r log.Record) {
	l.p.mu.Lock()
	defer l.p.mu.Unlock()
	l.p.bodies = append(l.p.bodies, r.Body().AsString())
}

func (l *recordingLogger) Enabled(context.Context, log.EnabledParameters) bool { return true }

func TestNewLogger_ExportsToOTEL(t *testing.T) {
	var buf bytes.Buffer
	cfg, err := ConfigFromFlags(Flags{OTEL: true}, false)
	require.NoError(t, err)
	cfg.Output.Writer = &buf

	provider := &recordingProvider{}
	logger, err := NewLogger(cfg, provider)
	require.NoError(t, err)

	logger.Info(context.Background(), "created project link")

	assert.Equal(t, []string{"created project link"}, provider.Bodies())
	assert.Contains(t, buf.String(), "created project link")
}

func TestNewLogger_OTELOnlyWhenSilent(t *testing.T) {
	cfg, err := ConfigFromFlags(Flags{Silent: true, OTEL: true}, false)
	require.NoError(t, err)

	provider := &recordingProvider{}
	logger, err := NewLogger(cfg, provider)
	require.NoError(t, err)

	logger.Warn(context.Background(), "symlink points to wrong target")
	assert.Equal(t, []string{"symlink points to wrong target"}, provider.Bodies())
}

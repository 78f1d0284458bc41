// internal/logging/context.go
package logging

import (
	"context"

	"go.uber.org/zap"
)

// ContextFields extracts correlation data from context.
func ContextFields(ctx context.Context) []zap.Field {
	fields := make([]zap.Field, 0, 2)

	if root := ProjectFromContext(ctx); root != "" {
		fields = append(fields, zap.String("project", root))
	}
	if cmd := CommandFromContext(ctx); cmd != "" {
		fields = append(fields, zap.String("command", cmd))
	}

	return fields
}

type projectCtxKey struct{}
type commandCtxKey struct{}
type loggerCtxKey struct{}

// WithProject records the active project root for log correlation.
// An empty root leaves ctx unchanged.
func WithProject(ctx context.Context, root string) context.Context {
	if root == "" {
		return ctx
	}
	return context.WithValue(ctx, projectCtxKey{}, root)
}

// ProjectFromContext returns the project root stored by WithProject.
func ProjectFromContext(ctx context.Context) string {
	if s, ok := ctx.Value(projectCtxKey{}).(string); ok {
		return s
	}
	return ""
}

// WithCommand records the running command name.
func WithCommand(ctx context.Context, name string) context.Context {
	if name == "" {
		return ctx
	}
	return context.WithValue(ctx, commandCtxKey{}, name)
}

// CommandFromContext returns the command name stored by WithCommand.
func CommandFromContext(ctx context.Context) string {
	if s, ok := ctx.Value(commandCtxKey{}).(string); ok {
		return s
	}
	return ""
}

// WithLogger stores logger in context.
func WithLogger(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, loggerCtxKey{}, logger)
}

// FromContext retrieves logger from context.
// Returns a nop logger if not found.
func FromContext(ctx context.Context) *Logger {
	if l, ok := ctx.Value(loggerCtxKey{}).(*Logger); ok {
		return l
	}
	return Nop()
}

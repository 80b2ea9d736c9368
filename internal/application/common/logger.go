package common

import (
	"context"
	"maps"
)

const (
	LevelDebug   = "DEBUG"
	LevelInfo    = "INFO"
	LevelWarning = "WARNING"
	LevelError   = "ERROR"
)

// ContainerLogger is the logging port used by handlers, the coordinator and
// the simulator. Adapters map the level strings above onto their own levels.
type ContainerLogger interface {
	Log(level, message string, metadata map[string]interface{})
}

type loggerKey struct{}

// WithLogger stores logger in ctx
func WithLogger(ctx context.Context, logger ContainerLogger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// WithLogFields returns a context whose logger stamps fields on every entry.
// Fields passed to Log win over the scoped ones.
func WithLogFields(ctx context.Context, fields map[string]interface{}) context.Context {
	return WithLogger(ctx, scopedLogger{inner: LoggerFromContext(ctx), fields: fields})
}

// LoggerFromContext never returns nil; without a logger entries are dropped
func LoggerFromContext(ctx context.Context) ContainerLogger {
	if logger, ok := ctx.Value(loggerKey{}).(ContainerLogger); ok {
		return logger
	}
	return discardLogger{}
}

type discardLogger struct{}

func (discardLogger) Log(string, string, map[string]interface{}) {}

type scopedLogger struct {
	inner  ContainerLogger
	fields map[string]interface{}
}

func (l scopedLogger) Log(level, message string, metadata map[string]interface{}) {
	merged := make(map[string]interface{}, len(l.fields)+len(metadata))
	maps.Copy(merged, l.fields)
	maps.Copy(merged, metadata)
	l.inner.Log(level, message, merged)
}

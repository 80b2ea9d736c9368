package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/SupernovaXTS/overmind-logistics/internal/application/common"
	"github.com/SupernovaXTS/overmind-logistics/internal/infrastructure/config"
)

// LogrusLogger implements common.ContainerLogger on top of logrus
type LogrusLogger struct {
	entry *logrus.Entry
}

// NewLogrusLogger builds a logger from the logging configuration. The returned
// closer releases the log file when output is "file".
func NewLogrusLogger(cfg config.LoggingConfig) (*LogrusLogger, io.Closer, error) {
	base := logrus.New()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	base.SetLevel(level)
	base.SetReportCaller(cfg.IncludeCaller)

	if cfg.Format == "json" {
		base.SetFormatter(&logrus.JSONFormatter{
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
			},
		})
	} else {
		base.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	var closer io.Closer = nopCloser{}
	switch cfg.Output {
	case "stderr":
		base.SetOutput(os.Stderr)
	case "file":
		f, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		base.SetOutput(f)
		closer = f
	default:
		base.SetOutput(os.Stdout)
	}

	entry := logrus.NewEntry(base)
	for k, v := range cfg.Fields {
		entry = entry.WithField(k, v)
	}
	return &LogrusLogger{entry: entry}, closer, nil
}

// NewLogrusLoggerFrom wraps an existing logrus logger (tests, embedding)
func NewLogrusLoggerFrom(l *logrus.Logger) *LogrusLogger {
	return &LogrusLogger{entry: logrus.NewEntry(l)}
}

// With returns a child logger carrying extra fields on every entry
func (l *LogrusLogger) With(fields map[string]interface{}) *LogrusLogger {
	return &LogrusLogger{entry: l.entry.WithFields(logrus.Fields(fields))}
}

// Log implements common.ContainerLogger
func (l *LogrusLogger) Log(level, message string, metadata map[string]interface{}) {
	entry := l.entry
	if len(metadata) > 0 {
		entry = entry.WithFields(logrus.Fields(metadata))
	}
	entry.Log(toLogrusLevel(level), message)
}

func toLogrusLevel(level string) logrus.Level {
	switch level {
	case common.LevelDebug:
		return logrus.DebugLevel
	case common.LevelWarning:
		return logrus.WarnLevel
	case common.LevelError:
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

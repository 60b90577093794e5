package logging

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// ConsoleLogger implements Logger using charmbracelet/log for human-readable
// terminal output. Fields become key/value pairs.
type ConsoleLogger struct {
	logger *log.Logger
}

// NewConsoleLogger creates a console logger writing to writer.
func NewConsoleLogger(writer io.Writer, level Level) *ConsoleLogger {
	logger := log.NewWithOptions(writer, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Prefix:          "strata",
		Level:           toCharmLevel(level),
	})
	return &ConsoleLogger{logger: logger}
}

func toCharmLevel(level Level) log.Level {
	switch level {
	case DebugLevel:
		return log.DebugLevel
	case WarnLevel:
		return log.WarnLevel
	case ErrorLevel:
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

func keyvals(fields []Field) []any {
	kv := make([]any, 0, 2*len(fields))
	for _, f := range fields {
		kv = append(kv, f.Key, f.Value)
	}
	return kv
}

func (c *ConsoleLogger) Debug(msg string, fields ...Field) {
	c.logger.Debug(msg, keyvals(fields)...)
}

func (c *ConsoleLogger) Info(msg string, fields ...Field) {
	c.logger.Info(msg, keyvals(fields)...)
}

func (c *ConsoleLogger) Warn(msg string, fields ...Field) {
	c.logger.Warn(msg, keyvals(fields)...)
}

func (c *ConsoleLogger) Error(msg string, fields ...Field) {
	c.logger.Error(msg, keyvals(fields)...)
}

// With creates a child logger with the given fields pre-set
func (c *ConsoleLogger) With(fields ...Field) Logger {
	return &ConsoleLogger{logger: c.logger.With(keyvals(fields)...)}
}

func (c *ConsoleLogger) Enabled(level Level) bool {
	return toCharmLevel(level) >= c.logger.GetLevel()
}

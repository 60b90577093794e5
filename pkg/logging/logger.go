package logging

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// reserved keys are written first and cannot be overridden by fields.
var reserved = map[string]bool{"time": true, "level": true, "msg": true}

// NewJSONLogger creates a new JSON logger
func NewJSONLogger(writer io.Writer, level Level) *JSONLogger {
	return &JSONLogger{mu: &sync.Mutex{}, writer: writer, level: level, now: time.Now}
}

func (l *JSONLogger) Enabled(level Level) bool { return level >= l.level }

func (l *JSONLogger) log(level Level, msg string, fields []Field) {
	if !l.Enabled(level) {
		return
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	writeKV(&buf, "time", l.now().UTC().Format(time.RFC3339Nano), true)
	writeKV(&buf, "level", level.String(), false)
	writeKV(&buf, "msg", msg, false)
	for _, f := range merge(l.fields, fields) {
		if reserved[f.Key] {
			continue
		}
		writeKV(&buf, f.Key, f.Value, false)
	}
	buf.WriteString("}\n")

	l.mu.Lock()
	defer l.mu.Unlock()
	l.writer.Write(buf.Bytes())
}

// merge keeps the position of the first occurrence of each key and the
// value of the last.
func merge(base, extra []Field) []Field {
	out := make([]Field, 0, len(base)+len(extra))
	index := make(map[string]int, len(base)+len(extra))
	for _, f := range append(base[:len(base):len(base)], extra...) {
		if i, ok := index[f.Key]; ok {
			out[i].Value = f.Value
			continue
		}
		index[f.Key] = len(out)
		out = append(out, f)
	}
	return out
}

func writeKV(buf *bytes.Buffer, key string, value any, first bool) {
	if !first {
		buf.WriteByte(',')
	}
	k, _ := json.Marshal(key)
	buf.Write(k)
	buf.WriteByte(':')
	v, err := json.Marshal(value)
	if err != nil {
		v, _ = json.Marshal(fmt.Sprint(value))
	}
	buf.Write(v)
}

func (l *JSONLogger) Debug(msg string, fields ...Field) { l.log(DebugLevel, msg, fields) }
func (l *JSONLogger) Info(msg string, fields ...Field)  { l.log(InfoLevel, msg, fields) }
func (l *JSONLogger) Warn(msg string, fields ...Field)  { l.log(WarnLevel, msg, fields) }
func (l *JSONLogger) Error(msg string, fields ...Field) { l.log(ErrorLevel, msg, fields) }

// With creates a child logger sharing the writer and its lock.
func (l *JSONLogger) With(fields ...Field) Logger {
	child := *l
	child.fields = merge(l.fields, fields)
	return &child
}

// New builds a logger for the named format. Unknown formats fall back to JSON.
func New(format string, writer io.Writer, level Level) Logger {
	switch strings.ToLower(format) {
	case "console", "text":
		return NewConsoleLogger(writer, level)
	default:
		return NewJSONLogger(writer, level)
	}
}

var defaultLogger atomic.Value

// Default returns the process logger set by SetDefaultLogger. Until one
// is set it discards everything, so library callers stay quiet.
func Default() Logger {
	if l, ok := defaultLogger.Load().(holder); ok {
		return l.Logger
	}
	return NopLogger{}
}

type holder struct{ Logger }

// SetDefaultLogger sets the process logger
func SetDefaultLogger(logger Logger) {
	defaultLogger.Store(holder{logger})
}

// StartTimer begins timing an operation
func StartTimer(logger Logger, msg string, fields ...Field) *TimedOperation {
	return &TimedOperation{logger: logger, msg: msg, start: time.Now(), fields: fields}
}

// Elapsed returns the time since the timer started.
func (t *TimedOperation) Elapsed() time.Duration {
	return time.Since(t.start)
}

// End logs the operation with its duration at info level.
func (t *TimedOperation) End(extra ...Field) {
	t.logger.Info(t.msg, t.with(extra)...)
}

// EndError logs the operation as an error with its duration
func (t *TimedOperation) EndError(err error, extra ...Field) {
	t.logger.Error(t.msg, append(t.with(extra), Error(err))...)
}

func (t *TimedOperation) with(extra []Field) []Field {
	fields := make([]Field, 0, len(t.fields)+len(extra)+1)
	fields = append(fields, t.fields...)
	fields = append(fields, extra...)
	return append(fields, Latency(t.Elapsed()))
}

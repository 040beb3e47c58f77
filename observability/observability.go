// Package observability provides the logging hooks the renderer emits its
// fallback warnings and render metrics through. The library never logs on
// its own behalf unless a Logger is supplied.
package observability

import (
	"fmt"
	"io"
	"log"
	"strings"
)

// Logger is the minimal structured logging contract.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	With(fields ...Field) Logger
}

// Field is a single key/value pair attached to a log entry.
type Field struct {
	Key   string
	Value interface{}
}

// String builds a string field.
func String(key, value string) Field { return Field{Key: key, Value: value} }

// Int builds an int field.
func Int(key string, value int) Field { return Field{Key: key, Value: value} }

// Float64 builds a float field.
func Float64(key string, value float64) Field { return Field{Key: key, Value: value} }

// Err builds an error field under the conventional "error" key.
func Err(err error) Field { return Field{Key: "error", Value: err} }

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) Debug(string, ...Field) {}
func (NopLogger) Info(string, ...Field)  {}
func (NopLogger) Warn(string, ...Field)  {}
func (NopLogger) Error(string, ...Field) {}
func (NopLogger) With(...Field) Logger   { return NopLogger{} }

// Standard field keys emitted by the renderer.
const (
	MetricPages        = "render.pages"
	MetricDurationMS   = "render.duration_ms"
	MetricMathCacheHit = "render.math.cache_hits"
)

// Level orders log severities.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// TextLogger writes "LEVEL msg k=v ..." lines; intended for command-line use.
type TextLogger struct {
	l      *log.Logger
	bound  []Field
	MinLvl Level
}

// NewTextLogger returns a TextLogger writing to w at Info level.
func NewTextLogger(w io.Writer) *TextLogger {
	return &TextLogger{l: log.New(w, "", log.LstdFlags), MinLvl: LevelInfo}
}

func (t *TextLogger) Debug(msg string, fields ...Field) { t.emit(LevelDebug, "DEBUG", msg, fields) }
func (t *TextLogger) Info(msg string, fields ...Field)  { t.emit(LevelInfo, "INFO", msg, fields) }
func (t *TextLogger) Warn(msg string, fields ...Field)  { t.emit(LevelWarn, "WARN", msg, fields) }
func (t *TextLogger) Error(msg string, fields ...Field) { t.emit(LevelError, "ERROR", msg, fields) }

func (t *TextLogger) With(fields ...Field) Logger {
	child := *t
	child.bound = append(append([]Field(nil), t.bound...), fields...)
	return &child
}

func (t *TextLogger) emit(lvl Level, tag, msg string, fields []Field) {
	if lvl < t.MinLvl {
		return
	}
	var sb strings.Builder
	sb.WriteString(tag)
	sb.WriteByte(' ')
	sb.WriteString(msg)
	for _, f := range t.bound {
		fmt.Fprintf(&sb, " %s=%v", f.Key, f.Value)
	}
	for _, f := range fields {
		fmt.Fprintf(&sb, " %s=%v", f.Key, f.Value)
	}
	t.l.Print(sb.String())
}

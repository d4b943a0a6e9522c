package logging

import (
	"context"
	"io"
	"log/slog"
	"maps"
	"os"
	"sort"
	"time"

	"github.com/lmittmann/tint"
)

// DefaultLogger is a slog logger writing through a tint handler.
// Levels are colored when the output is a terminal.
type DefaultLogger struct {
	logger *slog.Logger
	level  *slog.LevelVar
	fields Fields
	exit   func(code int)
}

// NewDefaultLogger creates a logger on stderr with colored output when stderr is a terminal
func NewDefaultLogger() *DefaultLogger {
	return NewLogger(os.Stderr, !isTerminal(os.Stderr))
}

// NewDefaultLoggerNoColor creates a logger on stderr without colored output
func NewDefaultLoggerNoColor() *DefaultLogger {
	return NewLogger(os.Stderr, true)
}

// NewLogger creates a logger writing to w.
func NewLogger(w io.Writer, noColor bool) *DefaultLogger {
	level := new(slog.LevelVar)
	level.Set(InfoLevel.slogLevel())

	handler := tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.DateTime,
		NoColor:    noColor,
	})

	return &DefaultLogger{
		logger: slog.New(handler),
		level:  level,
		fields: make(Fields),
		exit:   os.Exit,
	}
}

// isTerminal reports whether f is a character device
func isTerminal(f *os.File) bool {
	if fileInfo, _ := f.Stat(); fileInfo != nil {
		return (fileInfo.Mode() & os.ModeCharDevice) != 0
	}
	return false
}

// attrs flattens the preset and per-call fields into slog attributes with a
// stable key order.
func (d *DefaultLogger) attrs(err error, fields ...Fields) []any {
	allFields := make(Fields, len(d.fields))
	maps.Copy(allFields, d.fields)
	for _, f := range fields {
		maps.Copy(allFields, f)
	}

	keys := make([]string, 0, len(allFields))
	for k := range allFields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	args := make([]any, 0, len(keys)+1)
	if err != nil {
		args = append(args, tint.Err(err))
	}
	for _, k := range keys {
		args = append(args, slog.Any(k, allFields[k]))
	}
	return args
}

func (d *DefaultLogger) log(level Level, err error, msg string, fields ...Fields) {
	ctx := context.Background()
	if !d.logger.Enabled(ctx, level.slogLevel()) {
		return
	}

	d.logger.Log(ctx, level.slogLevel(), msg, d.attrs(err, fields...)...)

	if level == FatalLevel {
		d.exit(1)
	}
}

func (d *DefaultLogger) Debug(msg string, fields ...Fields) {
	d.log(DebugLevel, nil, msg, fields...)
}

func (d *DefaultLogger) Info(msg string, fields ...Fields) {
	d.log(InfoLevel, nil, msg, fields...)
}

func (d *DefaultLogger) Warn(msg string, fields ...Fields) {
	d.log(WarnLevel, nil, msg, fields...)
}

func (d *DefaultLogger) Error(err error, msg string, fields ...Fields) {
	d.log(ErrorLevel, err, msg, fields...)
}

func (d *DefaultLogger) Fatal(err error, msg string, fields ...Fields) {
	d.log(FatalLevel, err, msg, fields...)
}

func (d *DefaultLogger) WithFields(fields Fields) Logger {
	newFields := make(Fields, len(d.fields)+len(fields))
	maps.Copy(newFields, d.fields)
	maps.Copy(newFields, fields)

	return &DefaultLogger{
		logger: d.logger,
		level:  d.level,
		fields: newFields,
		exit:   d.exit,
	}
}

func (d *DefaultLogger) WithContext(ctx context.Context) Logger {
	if fields, ok := fieldsFromContext(ctx); ok {
		return d.WithFields(fields)
	}
	return d
}

// SetLevel changes the level for this logger and every logger derived from it
// with WithFields.
func (d *DefaultLogger) SetLevel(level Level) {
	d.level.Set(level.slogLevel())
}

// NoOpLogger discards everything. Tests install it to keep output quiet.
type NoOpLogger struct{}

func (n *NoOpLogger) Debug(msg string, fields ...Fields)            {}
func (n *NoOpLogger) Info(msg string, fields ...Fields)             {}
func (n *NoOpLogger) Warn(msg string, fields ...Fields)             {}
func (n *NoOpLogger) Error(err error, msg string, fields ...Fields) {}
func (n *NoOpLogger) Fatal(err error, msg string, fields ...Fields) {}
func (n *NoOpLogger) WithFields(fields Fields) Logger               { return n }
func (n *NoOpLogger) WithContext(ctx context.Context) Logger        { return n }
func (n *NoOpLogger) SetLevel(level Level)                          {}

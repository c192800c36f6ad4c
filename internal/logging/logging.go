// Package logging provides the structured-logging seam threaded through the
// orchestrator and CLI: a small Logger interface so engine code never
// imports a concrete logging library directly, plus a charmbracelet/log
// backed implementation.
package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	cblog "github.com/charmbracelet/log"
)

// Logger is the structured logging contract the orchestrator and CLI
// depend on. Calls are key/value pairs; With returns a derived logger that
// always includes the supplied fields.
type Logger interface {
	Debug(ctx context.Context, msg string, fields ...interface{})
	Info(ctx context.Context, msg string, fields ...interface{})
	Warn(ctx context.Context, msg string, fields ...interface{})
	Error(ctx context.Context, msg string, fields ...interface{})
	With(fields ...interface{}) Logger
}

// Options configures a charmbracelet/log backed Logger.
type Options struct {
	Writer    io.Writer
	Level     string
	Component string
	Formatter cblog.Formatter
}

type charmLogger struct {
	base      *cblog.Logger
	fields    []interface{}
	component string
}

// New constructs a Logger backed by charmbracelet/log.
func New(opts Options) (Logger, error) {
	writer := opts.Writer
	if writer == nil {
		writer = os.Stdout
	}

	level := cblog.InfoLevel
	if opts.Level != "" {
		parsed, err := cblog.ParseLevel(strings.ToLower(opts.Level))
		if err != nil {
			return nil, fmt.Errorf("logging: parse level %q: %w", opts.Level, err)
		}
		level = parsed
	}

	base := cblog.NewWithOptions(writer, cblog.Options{
		Level:           level,
		ReportTimestamp: true,
		Formatter:       opts.Formatter,
	})

	return &charmLogger{base: base, component: opts.Component}, nil
}

func (l *charmLogger) Debug(ctx context.Context, msg string, fields ...interface{}) {
	l.log(cblog.DebugLevel, msg, fields...)
}

func (l *charmLogger) Info(ctx context.Context, msg string, fields ...interface{}) {
	l.log(cblog.InfoLevel, msg, fields...)
}

func (l *charmLogger) Warn(ctx context.Context, msg string, fields ...interface{}) {
	l.log(cblog.WarnLevel, msg, fields...)
}

func (l *charmLogger) Error(ctx context.Context, msg string, fields ...interface{}) {
	l.log(cblog.ErrorLevel, msg, fields...)
}

func (l *charmLogger) With(fields ...interface{}) Logger {
	next := make([]interface{}, 0, len(l.fields)+len(fields))
	next = append(next, l.fields...)
	next = append(next, fields...)
	return &charmLogger{base: l.base, fields: next, component: l.component}
}

func (l *charmLogger) log(level cblog.Level, msg string, fields ...interface{}) {
	payload := merge(l.fields, fields)
	if l.component != "" {
		payload = append(payload, "component", l.component)
	}

	switch level {
	case cblog.DebugLevel:
		l.base.Debug(msg, payload...)
	case cblog.WarnLevel:
		l.base.Warn(msg, payload...)
	case cblog.ErrorLevel:
		l.base.Error(msg, payload...)
	default:
		l.base.Info(msg, payload...)
	}
}

// merge combines two key/value slices, later values overriding earlier ones
// for the same key, emitting keys in sorted order for deterministic output.
func merge(base, additions []interface{}) []interface{} {
	store := make(map[string]interface{})
	var order []string

	add := func(pairs []interface{}) {
		for i := 0; i+1 < len(pairs); i += 2 {
			key, ok := pairs[i].(string)
			if !ok {
				continue
			}
			if _, exists := store[key]; !exists {
				order = append(order, key)
			}
			store[key] = pairs[i+1]
		}
	}

	add(base)
	add(additions)
	sort.Strings(order)

	out := make([]interface{}, 0, len(order)*2)
	for _, k := range order {
		out = append(out, k, store[k])
	}
	return out
}

// NoOp returns a Logger that discards everything, used by call sites that
// don't want to thread a *Logger through test setup.
func NoOp() Logger { return noop{} }

type noop struct{}

func (noop) Debug(context.Context, string, ...interface{}) {}
func (noop) Info(context.Context, string, ...interface{})  {}
func (noop) Warn(context.Context, string, ...interface{})  {}
func (noop) Error(context.Context, string, ...interface{}) {}
func (n noop) With(...interface{}) Logger                  { return n }

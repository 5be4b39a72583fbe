// Package logging carries the process logging conventions: loggers are
// dependency-injected, scoped once at construction with a "component"
// attribute, and default to discarding output when a component is built
// without one. Global handler configuration (format, level, destination)
// belongs to main() alone; nothing here or elsewhere calls slog.SetDefault.
package logging

import (
	"context"
	"log/slog"
	"sync"
)

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (d discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return d }
func (d discardHandler) WithGroup(string) slog.Handler           { return d }

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(discardHandler{})
}

// Default returns logger unchanged when non-nil, or a discard logger. The
// standard pattern for optional logger parameters:
//
//	func New(logger *slog.Logger) *Thing {
//	    return &Thing{logger: logging.Default(logger).With("component", "thing")}
//	}
func Default(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return Discard()
}

// Filter wraps a handler and drops records below a per-component minimum
// level, keyed on the "component" attribute every chunkvault logger is
// scoped with. Components without an explicit override use the default
// level.
//
// Levels can be changed while the process runs; SetLevel takes effect for
// loggers derived before or after the call because every clone produced by
// WithAttrs or WithGroup shares the same level table.
type Filter struct {
	next      slog.Handler
	component string // set when a WithAttrs clone carried a component attr
	levels    *levelTable
}

type levelTable struct {
	mu           sync.RWMutex
	defaultLevel slog.Level
	m            map[string]slog.Level
}

// NewFilter wraps next with component-level filtering at the given default
// minimum level.
func NewFilter(next slog.Handler, defaultLevel slog.Level) *Filter {
	return &Filter{
		next: next,
		levels: &levelTable{
			defaultLevel: defaultLevel,
			m:            make(map[string]slog.Level),
		},
	}
}

// SetLevel overrides the minimum level for one component.
func (f *Filter) SetLevel(component string, level slog.Level) {
	f.levels.mu.Lock()
	defer f.levels.mu.Unlock()
	f.levels.m[component] = level
}

// SetDefaultLevel changes the minimum level for components without an
// explicit override, including loggers derived before the call.
func (f *Filter) SetDefaultLevel(level slog.Level) {
	f.levels.mu.Lock()
	defer f.levels.mu.Unlock()
	f.levels.defaultLevel = level
}

// ClearLevel removes a component override, reverting it to the default.
func (f *Filter) ClearLevel(component string) {
	f.levels.mu.Lock()
	defer f.levels.mu.Unlock()
	delete(f.levels.m, component)
}

// Level reports the effective minimum level for a component.
func (f *Filter) Level(component string) slog.Level {
	f.levels.mu.RLock()
	defer f.levels.mu.RUnlock()
	if level, ok := f.levels.m[component]; ok {
		return level
	}
	return f.levels.defaultLevel
}

// Enabled always reports true; the component attribute is only visible in
// Handle, so filtering has to happen there.
func (f *Filter) Enabled(context.Context, slog.Level) bool {
	return true
}

func (f *Filter) Handle(ctx context.Context, r slog.Record) error {
	component := f.component
	if component == "" {
		r.Attrs(func(a slog.Attr) bool {
			if a.Key == "component" {
				if s, ok := a.Value.Resolve().Any().(string); ok {
					component = s
				}
				return false
			}
			return true
		})
	}

	if r.Level < f.Level(component) {
		return nil
	}
	if !f.next.Enabled(ctx, r.Level) {
		return nil
	}
	return f.next.Handle(ctx, r)
}

func (f *Filter) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return f
	}
	clone := *f
	clone.next = f.next.WithAttrs(attrs)
	for _, a := range attrs {
		if a.Key == "component" {
			if s, ok := a.Value.Resolve().Any().(string); ok {
				clone.component = s
			}
		}
	}
	return &clone
}

func (f *Filter) WithGroup(name string) slog.Handler {
	if name == "" {
		return f
	}
	clone := *f
	clone.next = f.next.WithGroup(name)
	return &clone
}

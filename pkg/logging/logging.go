// Package logging is the process-wide structured logging facade (spec §5
// "Logging facade"), built on github.com/charmbracelet/log — the teacher's
// logging library throughout pkg/a2a, pkg/service and pkg/tasks.
//
// The facade is initialized once at startup and exposes scoped overrides as
// a LIFO stack so request handlers (and tests) can push extra fields for
// the duration of a call and pop them back off. Popping out of order is
// diagnosed but not fatal, per spec §5.
package logging

import (
	"io"
	"os"
	"sync"

	charmlog "github.com/charmbracelet/log"
)

var (
	mu    sync.Mutex
	stack []*charmlog.Logger
)

// Init sets up the base logger. Calling it more than once resets the stack
// to a single base frame; tests typically call this once in TestMain or a
// package init.
func Init(level charmlog.Level, fields map[string]any, handler io.Writer) {
	mu.Lock()
	defer mu.Unlock()

	if handler == nil {
		handler = os.Stderr
	}

	base := charmlog.NewWithOptions(handler, charmlog.Options{
		Level:           level,
		ReportTimestamp: true,
	})

	for k, v := range fields {
		base = base.With(k, v)
	}

	stack = []*charmlog.Logger{base}
}

// L returns the current top-of-stack logger. If Init was never called, a
// sensible default (info level, stderr) is lazily installed.
func L() *charmlog.Logger {
	mu.Lock()
	defer mu.Unlock()

	if len(stack) == 0 {
		stack = []*charmlog.Logger{charmlog.New(os.Stderr)}
	}
	return stack[len(stack)-1]
}

// Scope pushes a child logger carrying extra key/value fields onto the
// stack and returns a function that pops it back off. The returned
// function is idempotent; calling it more than once, or calling an older
// scope's pop function after a newer scope pushed on top of it, is
// diagnosed via a warning log rather than panicking.
func Scope(fields map[string]any) func() {
	mu.Lock()
	if len(stack) == 0 {
		stack = []*charmlog.Logger{charmlog.New(os.Stderr)}
	}
	child := stack[len(stack)-1]
	for k, v := range fields {
		child = child.With(k, v)
	}
	stack = append(stack, child)
	depth := len(stack)
	mu.Unlock()

	popped := false
	return func() {
		mu.Lock()
		defer mu.Unlock()

		if popped {
			return
		}
		popped = true

		if len(stack) != depth {
			// Out-of-order pop: diagnose, but still shrink the stack by one
			// so it can't grow without bound.
			if len(stack) > 0 {
				stack[len(stack)-1].Warn("logging scope popped out of order", "expected_depth", depth, "actual_depth", len(stack))
			}
		}
		if len(stack) > 1 {
			stack = stack[:len(stack)-1]
		}
	}
}

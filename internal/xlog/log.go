// Copyright 2024 The CC Frontend Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package xlog is the internal lifecycle logger used by the compiler
// core for debug/trace output. It never carries user-facing compiler
// diagnostics — those go through the Diagnostic Engine (see package cc)
// — it is a facade for tracing the core's own bookkeeping the way an
// operator would tail a server log; the core's components do not
// write to it.
package xlog

import (
	"fmt"
	"io"
	"log"
	"os"
)

// Level is a logging severity, ordered from most to least verbose.
type Level uint8

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Logger is the minimal sink every backend implements.
type Logger interface {
	Log(level Level, keyvals ...interface{}) error
}

// stdLogger writes to an io.Writer via the standard library logger.
type stdLogger struct {
	l *log.Logger
}

// NewStdLogger returns a Logger that writes formatted lines to w.
func NewStdLogger(w io.Writer) Logger {
	return &stdLogger{l: log.New(w, "", log.LstdFlags)}
}

func (s *stdLogger) Log(level Level, keyvals ...interface{}) error {
	if len(keyvals)%2 != 0 {
		keyvals = append(keyvals, "MISSING_VALUE")
	}
	msg := fmt.Sprintf("[%s]", level)
	for i := 0; i < len(keyvals); i += 2 {
		msg += fmt.Sprintf(" %v=%v", keyvals[i], keyvals[i+1])
	}
	s.l.Print(msg)
	return nil
}

// filter wraps a Logger and drops records below a minimum level.
type filter struct {
	next Logger
	min  Level
}

// FilterOption configures a filter.
type FilterOption func(*filter)

// FilterLevel sets the minimum level a record must have to pass through.
func FilterLevel(min Level) FilterOption {
	return func(f *filter) { f.min = min }
}

// NewFilter returns a Logger that forwards to next only records at or
// above the configured minimum level.
func NewFilter(next Logger, opts ...FilterOption) Logger {
	f := &filter{next: next, min: LevelInfo}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *filter) Log(level Level, keyvals ...interface{}) error {
	if level < f.min {
		return nil
	}
	return f.next.Log(level, keyvals...)
}

// Helper wraps a Logger with printf-style convenience methods, the
// shape the core's bookkeeping code calls directly.
type Helper struct {
	logger Logger
}

// NewHelper wraps logger.
func NewHelper(logger Logger) *Helper {
	if logger == nil {
		logger = NewStdLogger(os.Stderr)
	}
	return &Helper{logger: logger}
}

func (h *Helper) Debugf(format string, args ...interface{}) {
	h.logger.Log(LevelDebug, "msg", fmt.Sprintf(format, args...))
}

func (h *Helper) Infof(format string, args ...interface{}) {
	h.logger.Log(LevelInfo, "msg", fmt.Sprintf(format, args...))
}

func (h *Helper) Warnf(format string, args ...interface{}) {
	h.logger.Log(LevelWarn, "msg", fmt.Sprintf(format, args...))
}

func (h *Helper) Errorf(format string, args ...interface{}) {
	h.logger.Log(LevelError, "msg", fmt.Sprintf(format, args...))
}

// NewNopHelper returns a Helper that discards every record. Used as the
// default when CompilationContext is built without an explicit logger.
func NewNopHelper() *Helper {
	return NewHelper(NewFilter(NewStdLogger(io.Discard), FilterLevel(LevelError+1)))
}

// Package logutil provides the ambient logging convention shared by every
// package in this module: a small Logger interface matching
// github.com/ausocean/utils/logging, a writer-backed default, and an optional
// rotating-file backend for long-running callers.
package logutil

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/ausocean/utils/logging"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Re-export the level constants so callers only need this package.
const (
	Debug   = logging.Debug
	Info    = logging.Info
	Warning = logging.Warning
	Error   = logging.Error
	Fatal   = logging.Fatal
)

// Logger is the logging contract used across iostream, codec, engine and
// manip. It matches github.com/ausocean/utils/logging.Logger so that a
// caller already using that package for other AusOcean software can pass
// its logger straight through.
type Logger interface {
	SetLevel(level int8)
	Log(level int8, message string, params ...interface{})
}

// Convenience wrapper methods, mirroring the ones used throughout
// revid.Config in the originating codebase.
type leveled struct{ Logger }

func (l leveled) Debug(msg string, params ...interface{})   { l.Log(Debug, msg, params...) }
func (l leveled) Info(msg string, params ...interface{})    { l.Log(Info, msg, params...) }
func (l leveled) Warning(msg string, params ...interface{}) { l.Log(Warning, msg, params...) }
func (l leveled) Error(msg string, params ...interface{})   { l.Log(Error, msg, params...) }

// Leveled adds Debug/Info/Warning/Error convenience methods to any Logger.
func Leveled(l Logger) interface {
	Logger
	Debug(string, ...interface{})
	Info(string, ...interface{})
	Warning(string, ...interface{})
	Error(string, ...interface{})
} {
	return leveled{l}
}

// writerLogger is a minimal Logger that writes level-prefixed lines to an
// io.Writer and drops messages below its configured level. The default
// level is Warning, per the "never log at INFO unless the caller opts in"
// rule from the codec adapter contract.
type writerLogger struct {
	mu    sync.Mutex
	w     io.Writer
	level int8
}

// NewDefault returns a Logger writing to w at level Warning.
func NewDefault(w io.Writer) Logger {
	return &writerLogger{w: w, level: Warning}
}

// NewRotatingFile returns a Logger writing level-prefixed lines to a
// lumberjack-managed rotating log file at path.
func NewRotatingFile(path string) Logger {
	return &writerLogger{
		w: &lumberjack.Logger{
			Filename:   path,
			MaxSize:    10, // megabytes
			MaxBackups: 5,
			MaxAge:     28, // days
			Compress:   true,
		},
		level: Warning,
	}
}

func (l *writerLogger) SetLevel(level int8) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

func levelName(level int8) string {
	switch level {
	case Debug:
		return "debug"
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	case Fatal:
		return "fatal"
	default:
		return "unknown"
	}
}

func (l *writerLogger) Log(level int8, message string, params ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if level < l.level {
		return
	}
	fmt.Fprintf(l.w, "%s: %s", levelName(level), message)
	for i := 0; i+1 < len(params); i += 2 {
		fmt.Fprintf(l.w, " %v=%q", params[i], fmt.Sprint(params[i+1]))
	}
	fmt.Fprintln(l.w)
	if level == Fatal {
		os.Exit(1)
	}
}

// noop discards everything; used as the zero-value default so codec
// internals never need a nil check before logging.
type noop struct{}

func (noop) SetLevel(int8)                          {}
func (noop) Log(int8, string, ...interface{})        {}

// Noop returns a Logger that discards all messages.
func Noop() Logger { return noop{} }

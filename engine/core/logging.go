package core

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

type LogLevel = log.Level

const (
	DebugLevel = log.DebugLevel
	InfoLevel  = log.InfoLevel
	WarnLevel  = log.WarnLevel
	ErrorLevel = log.ErrorLevel
)

// Logger is the logging context handed to every engine component. It is created
// explicitly and passed down instead of being reached through globals, so tests
// can point it at their own sink.
type Logger struct {
	*log.Logger
}

// NewLogger creates a logger writing to w at the given level.
func NewLogger(w io.Writer, level LogLevel) *Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Prefix:          "Engine 🏎️ ",
		Level:           level,
	})
	return &Logger{l}
}

var once sync.Once
var singleton *Logger

// DefaultLogger returns the process-wide stderr logger used when nothing else was injected.
func DefaultLogger() *Logger {
	once.Do(func() {
		singleton = NewLogger(os.Stderr, DebugLevel)
	})
	return singleton
}

// ParseLogLevel maps a config string ("debug", "info", ...) to a level.
func ParseLogLevel(s string) (LogLevel, error) {
	if s == "" {
		return InfoLevel, nil
	}
	return log.ParseLevel(strings.ToLower(s))
}

// With returns a child logger carrying the given prefix.
func (l *Logger) With(prefix string) *Logger {
	child := l.Logger.WithPrefix(prefix)
	return &Logger{child}
}

func (l *Logger) Debug(msg string, args ...interface{}) {
	l.Logger.Debugf(msg, args...)
}

func (l *Logger) Info(msg string, args ...interface{}) {
	l.Logger.Infof(msg, args...)
}

func (l *Logger) Warn(msg string, args ...interface{}) {
	l.Logger.Warnf(msg, args...)
}

func (l *Logger) Error(msg string, args ...interface{}) {
	l.Logger.Errorf(msg, args...)
}

// Fatal reports a programmer error: it logs at error level and panics. Unlike
// log.Fatal it does not call os.Exit, so deferred cleanup still runs.
func (l *Logger) Fatal(msg string, args ...interface{}) {
	l.fatal(fmt.Errorf(msg, args...))
}

// Assert calls Fatal when cond is false.
func (l *Logger) Assert(cond bool, msg string, args ...interface{}) {
	if !cond {
		l.fatal(fmt.Errorf("%w: %s", ErrAssertion, fmt.Sprintf(msg, args...)))
	}
}

func (l *Logger) fatal(err error) {
	l.Logger.Error(err.Error())
	panic(&FatalError{Err: err})
}

// LoggerOrDefault returns l, or the default logger when l is nil.
func LoggerOrDefault(l *Logger) *Logger {
	if l == nil {
		return DefaultLogger()
	}
	return l
}

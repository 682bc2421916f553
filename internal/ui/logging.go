package ui

import (
	"fmt"
	"io"
	"sync"
)

type Logger struct {
	Debug bool

	mu  sync.Mutex
	out io.Writer
}

// NewLoggerTo returns a logger writing to w. Debug lines are dropped
// unless debug is set.
func NewLoggerTo(w io.Writer, debug bool) *Logger {
	return &Logger{Debug: debug, out: w}
}

func (l *Logger) printf(prefix, format string, args ...any) {
	if l == nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = fmt.Fprintf(l.out, prefix+format, args...)
}

func (l *Logger) Debugf(format string, args ...any) {
	if l != nil && l.Debug {
		l.printf("[DEBUG] ", format, args...)
	}
}

func (l *Logger) Infof(format string, args ...any) {
	l.printf("[INFO] ", format, args...)
}

func (l *Logger) Warnf(format string, args ...any) {
	l.printf("[WARN] ", format, args...)
}

func (l *Logger) Errorf(format string, args ...any) {
	l.printf("[ERROR] ", format, args...)
}

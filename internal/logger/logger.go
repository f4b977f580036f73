// Package logger provides logging support for gamelink using logrus.
package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Logger wraps logrus with printf-style level methods.
type Logger struct {
	log *logrus.Logger
}

// New creates a console logger. When debug is true, Debug-level messages are
// emitted; otherwise only Info and above.
func New(debug bool) *Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	if debug {
		l.SetLevel(logrus.DebugLevel)
	} else {
		l.SetLevel(logrus.InfoLevel)
	}
	return &Logger{log: l}
}

// SetOutput redirects log output. Used by tests.
func (l *Logger) SetOutput(w io.Writer) {
	l.log.SetOutput(w)
}

// Debug logs a debug message (only emitted when debug is enabled).
func (l *Logger) Debug(format string, args ...interface{}) {
	l.log.Debugf(format, args...)
}

// Info logs an informational message.
func (l *Logger) Info(format string, args ...interface{}) {
	l.log.Infof(format, args...)
}

// Warning logs a warning message.
func (l *Logger) Warning(format string, args ...interface{}) {
	l.log.Warnf(format, args...)
}

// Error logs an error message.
func (l *Logger) Error(format string, args ...interface{}) {
	l.log.Errorf(format, args...)
}

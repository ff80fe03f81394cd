// Package logging provides structured logging with multiple levels and output formats.
//
// The logger is a thin layer over logrus that keeps a small, stable API for the
// rest of the application: levels, text/JSON output and per-call Fields.
//
// # Usage
//
//	logger := logging.New(logging.Options{
//	    Level:  logging.LevelDebug,
//	    Format: logging.FormatJSON,
//	    Output: os.Stderr,
//	})
//
//	logger.Info("provider request", logging.Fields{
//	    "app":    "support-bot",
//	    "method": "GET",
//	})
//
// Components that accept an optional logger fall back to Nop(), which discards
// everything.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Level represents a logging level
type Level int

const (
	// LevelDebug is for detailed debugging information
	LevelDebug Level = iota
	// LevelInfo is for general informational messages
	LevelInfo
	// LevelWarn is for warning messages
	LevelWarn
	// LevelError is for error messages
	LevelError
	// LevelNone disables all logging
	LevelNone
)

// String returns the string representation of the log level
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
	case LevelNone:
		return "NONE"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel parses a string into a Level. Unknown values map to LevelInfo.
func ParseLevel(s string) Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return LevelDebug
	case "INFO":
		return LevelInfo
	case "WARN", "WARNING":
		return LevelWarn
	case "ERROR":
		return LevelError
	case "NONE", "OFF":
		return LevelNone
	default:
		return LevelInfo
	}
}

// ValidLevel reports whether s names a known level
func ValidLevel(s string) bool {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG", "INFO", "WARN", "WARNING", "ERROR", "NONE", "OFF":
		return true
	}
	return false
}

func (l Level) logrus() logrus.Level {
	switch l {
	case LevelDebug:
		return logrus.DebugLevel
	case LevelWarn:
		return logrus.WarnLevel
	case LevelError:
		return logrus.ErrorLevel
	case LevelNone:
		// nothing in this package logs at panic level
		return logrus.PanicLevel
	default:
		return logrus.InfoLevel
	}
}

// Format represents the output format
type Format int

const (
	// FormatText outputs human-readable text
	FormatText Format = iota
	// FormatJSON outputs machine-readable JSON
	FormatJSON
)

// ParseFormat parses "json" or "text"; anything else is text
func ParseFormat(s string) Format {
	if strings.EqualFold(strings.TrimSpace(s), "json") {
		return FormatJSON
	}
	return FormatText
}

func (f Format) formatter() logrus.Formatter {
	if f == FormatJSON {
		return &logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano}
	}
	return &logrus.TextFormatter{
		DisableColors:   true,
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
	}
}

// Fields is a map of structured log fields
type Fields = logrus.Fields

// Options configures the logger
type Options struct {
	Level  Level
	Format Format
	Output io.Writer
}

// Logger provides structured logging capabilities.
// Child loggers created with WithFields share the parent's level and output.
type Logger struct {
	base  *logrus.Logger
	entry *logrus.Entry
}

// DefaultLogger is a package-level logger for convenience
var DefaultLogger = New(Options{
	Level:  LevelInfo,
	Format: FormatText,
	Output: os.Stderr,
})

// New creates a new Logger with the given options
func New(opts Options) *Logger {
	if opts.Output == nil {
		opts.Output = os.Stderr
	}
	base := logrus.New()
	base.SetOutput(opts.Output)
	base.SetLevel(opts.Level.logrus())
	base.SetFormatter(opts.Format.formatter())
	return &Logger{base: base, entry: logrus.NewEntry(base)}
}

// Nop returns a logger that discards everything
func Nop() *Logger {
	return New(Options{Level: LevelNone, Output: io.Discard})
}

// SetLevel changes the log level
func (l *Logger) SetLevel(level Level) {
	l.base.SetLevel(level.logrus())
}

// SetFormat changes the output format
func (l *Logger) SetFormat(format Format) {
	l.base.SetFormatter(format.formatter())
}

// SetOutput changes the output writer
func (l *Logger) SetOutput(w io.Writer) {
	l.base.SetOutput(w)
}

// DebugEnabled reports whether debug entries would be written
func (l *Logger) DebugEnabled() bool {
	return l.base.IsLevelEnabled(logrus.DebugLevel)
}

// Debug logs a debug message
func (l *Logger) Debug(msg string, fields ...Fields) {
	l.with(fields).Debug(msg)
}

// Info logs an info message
func (l *Logger) Info(msg string, fields ...Fields) {
	l.with(fields).Info(msg)
}

// Warn logs a warning message
func (l *Logger) Warn(msg string, fields ...Fields) {
	l.with(fields).Warn(msg)
}

// Error logs an error message
func (l *Logger) Error(msg string, err error, fields ...Fields) {
	e := l.with(fields)
	if err != nil {
		e = e.WithError(err)
	}
	e.Error(msg)
}

// WithFields creates a child logger with preset fields
func (l *Logger) WithFields(fields Fields) *Logger {
	return &Logger{base: l.base, entry: l.entry.WithFields(fields)}
}

func (l *Logger) with(fields []Fields) *logrus.Entry {
	if len(fields) == 0 {
		return l.entry
	}
	merged := make(Fields)
	for _, f := range fields {
		for k, v := range f {
			merged[k] = v
		}
	}
	return l.entry.WithFields(merged)
}

// Package-level convenience functions using DefaultLogger

// Debug logs a debug message using the default logger
func Debug(msg string, fields ...Fields) {
	DefaultLogger.Debug(msg, fields...)
}

// Info logs an info message using the default logger
func Info(msg string, fields ...Fields) {
	DefaultLogger.Info(msg, fields...)
}

// Warn logs a warning message using the default logger
func Warn(msg string, fields ...Fields) {
	DefaultLogger.Warn(msg, fields...)
}

// Error logs an error message using the default logger
func Error(msg string, err error, fields ...Fields) {
	DefaultLogger.Error(msg, err, fields...)
}

package log

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
	"time"
)

// Level represents the severity level of a log message.
type Level int

// Log levels
const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
	FatalLevel
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	case FatalLevel:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel converts a level name (debug|info|warn|error|fatal) to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DebugLevel, nil
	case "info", "":
		return InfoLevel, nil
	case "warn", "warning":
		return WarnLevel, nil
	case "error":
		return ErrorLevel, nil
	case "fatal":
		return FatalLevel, nil
	default:
		return InfoLevel, fmt.Errorf("unknown log level %q", s)
	}
}

// Fields is a map of field names to values.
type Fields map[string]interface{}

// ComponentKey is the field name used by Component and WithComponent.
const ComponentKey = "component"

// Entry represents a single log entry.
type Entry struct {
	Level     Level
	Message   string
	Fields    Fields
	Timestamp time.Time
	Caller    string
}

// Logger defines the core logging interface.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	Fatal(msg string, fields ...Field)

	Debugf(msg string, args ...interface{})
	Infof(msg string, args ...interface{})
	Warnf(msg string, args ...interface{})
	Errorf(msg string, args ...interface{})

	// With returns a child logger carrying the given fields on every entry.
	With(fields ...Field) Logger
	WithError(err error) Logger
	WithComponent(component string) Logger

	SetLevel(level Level)
	GetLevel() Level
}

// Formatter defines the interface for formatting log entries.
type Formatter interface {
	Format(entry *Entry) ([]byte, error)
}

// Output defines the interface for log outputs.
type Output interface {
	Write(entry *Entry, formattedEntry []byte) error
	Close() error
}

// LoggerOption is a function that configures a logger.
type LoggerOption func(*BaseLogger)

// BaseLogger implements the Logger interface.
type BaseLogger struct {
	level      *levelVar
	formatter  Formatter
	outputs    []Output
	slogLogger *slog.Logger
}

// levelVar is shared between a logger and its children so SetLevel on the
// root applies everywhere.
type levelVar struct{ v atomic.Int32 }

func newLevelVar(l Level) *levelVar {
	lv := &levelVar{}
	lv.v.Store(int32(l))
	return lv
}

func (lv *levelVar) get() Level  { return Level(lv.v.Load()) }
func (lv *levelVar) set(l Level) { lv.v.Store(int32(l)) }

// NewLogger creates a new logger with the given options.
func NewLogger(options ...LoggerOption) Logger {
	logger := &BaseLogger{
		level:     newLevelVar(InfoLevel),
		formatter: &JSONFormatter{},
	}
	for _, option := range options {
		option(logger)
	}
	if len(logger.outputs) == 0 {
		logger.outputs = append(logger.outputs, NewConsoleOutput())
	}
	logger.slogLogger = slog.New(newBridgeHandler(logger))
	return logger
}

// WithLevel sets the minimum log level.
func WithLevel(level Level) LoggerOption {
	return func(l *BaseLogger) {
		l.level.set(level)
	}
}

// WithFormatter sets the log formatter.
func WithFormatter(formatter Formatter) LoggerOption {
	return func(l *BaseLogger) {
		l.formatter = formatter
	}
}

// WithOutput adds an output to the logger.
func WithOutput(output Output) LoggerOption {
	return func(l *BaseLogger) {
		l.outputs = append(l.outputs, output)
	}
}

func (l *BaseLogger) log(level Level, msg string, fields []Field) {
	if level < l.level.get() {
		return
	}
	attrs := attrsFromFieldSlice(fields)
	l.slogLogger.LogAttrs(context.Background(), toSlogLevel(level), msg, attrs...)
}

func (l *BaseLogger) Debug(msg string, fields ...Field) { l.log(DebugLevel, msg, fields) }
func (l *BaseLogger) Info(msg string, fields ...Field)  { l.log(InfoLevel, msg, fields) }
func (l *BaseLogger) Warn(msg string, fields ...Field)  { l.log(WarnLevel, msg, fields) }
func (l *BaseLogger) Error(msg string, fields ...Field) { l.log(ErrorLevel, msg, fields) }

// Fatal logs at error severity and exits the process.
func (l *BaseLogger) Fatal(msg string, fields ...Field) {
	l.log(FatalLevel, msg, fields)
	os.Exit(1)
}

func (l *BaseLogger) Debugf(msg string, args ...interface{}) {
	l.log(DebugLevel, fmt.Sprintf(msg, args...), nil)
}
func (l *BaseLogger) Infof(msg string, args ...interface{}) {
	l.log(InfoLevel, fmt.Sprintf(msg, args...), nil)
}
func (l *BaseLogger) Warnf(msg string, args ...interface{}) {
	l.log(WarnLevel, fmt.Sprintf(msg, args...), nil)
}
func (l *BaseLogger) Errorf(msg string, args ...interface{}) {
	l.log(ErrorLevel, fmt.Sprintf(msg, args...), nil)
}

// With adds fields to a child logger.
func (l *BaseLogger) With(fields ...Field) Logger {
	if len(fields) == 0 {
		return l
	}
	child := *l
	child.slogLogger = l.slogLogger.With(attrsToAny(attrsFromFieldSlice(fields))...)
	return &child
}

func (l *BaseLogger) WithError(err error) Logger { return l.With(Err(err)) }

func (l *BaseLogger) WithComponent(component string) Logger { return l.With(Component(component)) }

func (l *BaseLogger) SetLevel(level Level) { l.level.set(level) }

func (l *BaseLogger) GetLevel() Level { return l.level.get() }

// NewNopLogger returns a logger that discards everything. Useful in tests.
func NewNopLogger() Logger {
	return NewLogger(WithLevel(FatalLevel+1), WithOutput(NullOutput{}))
}

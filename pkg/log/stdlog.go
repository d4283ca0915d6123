package log

import (
	"bytes"
	stdlog "log"
	"os"
)

var stdout = os.Stdout

// stdWriter adapts a Logger to io.Writer for the standard library logger.
type stdWriter struct {
	logger Logger
	level  Level
}

func (w stdWriter) Write(p []byte) (int, error) {
	msg := string(bytes.TrimRight(p, "\r\n"))
	switch w.level {
	case DebugLevel:
		w.logger.Debug(msg)
	case WarnLevel:
		w.logger.Warn(msg)
	case ErrorLevel, FatalLevel:
		w.logger.Error(msg)
	default:
		w.logger.Info(msg)
	}
	return len(p), nil
}

// ToStdLogger returns a *log.Logger that writes through logger at level.
func ToStdLogger(logger Logger, level Level) *stdlog.Logger {
	return stdlog.New(stdWriter{logger: logger, level: level}, "", 0)
}

// RedirectStdLog routes the standard library's default logger through logger.
// Pebble and net/http both write there.
func RedirectStdLog(logger Logger) {
	stdlog.SetFlags(0)
	stdlog.SetPrefix("")
	stdlog.SetOutput(stdWriter{logger: logger.With(Component("stdlib")), level: InfoLevel})
}

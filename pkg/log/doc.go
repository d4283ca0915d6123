// Package log provides the structured logging facade used across nidsmon.
//
// # Overview
//
// The package exposes a small Logger interface with leveled methods and a
// Field type for structured context. It is backed by Go's log/slog through a
// bridge handler that routes records into our own formatter/output pipeline,
// so every component prints the same way regardless of which API it used.
//
// Quick start
//
//	l := log.NewLogger(
//	    log.WithLevel(log.InfoLevel),
//	    log.WithFormatter(&log.TextFormatter{}),
//	    log.WithOutput(log.NewConsoleOutput()),
//	)
//	l = l.With(log.Component("generator"))
//	l.Info("event appended", log.Str("severity", "ALERT"), log.Uint64("seq", 7))
//
// # Configuration
//
// ApplyConfig builds a logger from a declarative Config (level + text|json
// format + output). RedirectStdLog routes the standard library logger, which
// Pebble writes to by default, through a Logger.
package log

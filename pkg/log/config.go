package log

import (
	"fmt"
	"strings"
)

// Config declares a logger: level, format and where it writes.
type Config struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"` // text|json
	Output string `json:"output" yaml:"output"` // stderr|stdout|null
}

// ApplyConfig builds a Logger from cfg. Unknown values are an error.
func ApplyConfig(cfg *Config) (Logger, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	var formatter Formatter
	switch strings.ToLower(cfg.Format) {
	case "", "text":
		formatter = &TextFormatter{}
	case "json":
		formatter = &JSONFormatter{}
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}

	var output Output
	switch strings.ToLower(cfg.Output) {
	case "", "stderr":
		output = NewConsoleOutput()
	case "stdout":
		output = NewWriterOutput(stdout)
	case "null", "none":
		output = NullOutput{}
	default:
		return nil, fmt.Errorf("unknown log output %q", cfg.Output)
	}

	return NewLogger(WithLevel(level), WithFormatter(formatter), WithOutput(output)), nil
}

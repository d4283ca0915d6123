package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rzbill/nidsmon/internal/generator"
	logpkg "github.com/rzbill/nidsmon/pkg/log"
)

// Config is the top-level configuration loaded from file/env.
type Config struct {
	// Capacity bounds the shared event log. Read once at startup.
	Capacity  int             `json:"capacity" yaml:"capacity"`
	Autostart bool            `json:"autostart" yaml:"autostart"`
	Generator GeneratorConfig `json:"generator" yaml:"generator"`
	Log       logpkg.Config   `json:"log" yaml:"log"`
}

// GeneratorConfig mirrors generator.Config with file-friendly units.
type GeneratorConfig struct {
	MinIntervalMs    int     `json:"minIntervalMs" yaml:"minIntervalMs"`
	MaxIntervalMs    int     `json:"maxIntervalMs" yaml:"maxIntervalMs"`
	AlertProbability float64 `json:"alertProbability" yaml:"alertProbability"`
	SubnetPrefix     string  `json:"subnetPrefix" yaml:"subnetPrefix"`
	HostMin          int     `json:"hostMin" yaml:"hostMin"`
	HostMax          int     `json:"hostMax" yaml:"hostMax"`
}

// Default returns built-in defaults.
func Default() Config {
	return Config{
		Capacity: 50,
		Generator: GeneratorConfig{
			MinIntervalMs:    1000,
			MaxIntervalMs:    3000,
			AlertProbability: 0.3,
			SubnetPrefix:     "192.168.1.",
			HostMin:          2,
			HostMax:          100,
		},
		Log: logpkg.Config{Level: "info", Format: "text"},
	}
}

// Load reads configuration from a JSON or YAML file (by extension). If path is
// empty, returns defaults. Fields absent from the file keep their defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	return cfg, nil
}

// Validate rejects values the runtime cannot honour.
func (c Config) Validate() error {
	if c.Capacity < 1 {
		return errors.New("capacity must be >= 1")
	}
	if err := c.GeneratorConfig().Validate(); err != nil {
		return fmt.Errorf("generator: %w", err)
	}
	if c.Generator.SubnetPrefix == "" {
		return errors.New("generator: subnet prefix is empty")
	}
	if _, err := logpkg.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	return nil
}

// GeneratorConfig converts the file representation to generator.Config.
func (c Config) GeneratorConfig() generator.Config {
	g := c.Generator
	return generator.Config{
		MinInterval:      time.Duration(g.MinIntervalMs) * time.Millisecond,
		MaxInterval:      time.Duration(g.MaxIntervalMs) * time.Millisecond,
		AlertProbability: g.AlertProbability,
		SubnetPrefix:     g.SubnetPrefix,
		HostMin:          g.HostMin,
		HostMax:          g.HostMax,
	}
}

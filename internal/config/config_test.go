package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Capacity != 50 {
		t.Fatalf("capacity default: %d", cfg.Capacity)
	}
	g := cfg.GeneratorConfig()
	if g.MinInterval != time.Second || g.MaxInterval != 3*time.Second {
		t.Fatalf("interval defaults: %s..%s", g.MinInterval, g.MaxInterval)
	}
	if g.AlertProbability != 0.3 || g.HostMin != 2 || g.HostMax != 100 || g.SubnetPrefix != "192.168.1." {
		t.Fatalf("generator defaults: %+v", g)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
}

func TestLoadJSON(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "nidsmon.json")
	data := []byte(`{"capacity":10,"generator":{"alertProbability":0.5,"hostMax":20}}`)
	if err := os.WriteFile(file, data, 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(file)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Capacity != 10 || cfg.Generator.AlertProbability != 0.5 || cfg.Generator.HostMax != 20 {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
	if cfg.Generator.HostMin != 2 || cfg.Generator.MinIntervalMs != 1000 {
		t.Fatalf("defaults not preserved: %+v", cfg.Generator)
	}
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "nidsmon.yaml")
	data := []byte("capacity: 5\nautostart: true\ngenerator:\n  minIntervalMs: 10\n  maxIntervalMs: 20\n  subnetPrefix: 10.0.0.\nlog:\n  format: json\n")
	if err := os.WriteFile(file, data, 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(file)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Capacity != 5 || !cfg.Autostart || cfg.Generator.MinIntervalMs != 10 || cfg.Generator.MaxIntervalMs != 20 {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
	if cfg.Generator.SubnetPrefix != "10.0.0." || cfg.Log.Format != "json" || cfg.Log.Level != "info" {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("expected error for missing file")
	}
	file := filepath.Join(t.TempDir(), "bad.yaml")
	_ = os.WriteFile(file, []byte("capacity: [oops"), 0644)
	if _, err := Load(file); err == nil {
		t.Fatalf("expected parse error")
	}
	if cfg, err := Load(""); err != nil || cfg.Capacity != 50 {
		t.Fatalf("empty path should return defaults")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"capacity", func(c *Config) { c.Capacity = 0 }},
		{"inverted interval", func(c *Config) { c.Generator.MinIntervalMs, c.Generator.MaxIntervalMs = 5, 1 }},
		{"probability", func(c *Config) { c.Generator.AlertProbability = 1.2 }},
		{"host range", func(c *Config) { c.Generator.HostMin, c.Generator.HostMax = 9, 3 }},
		{"prefix", func(c *Config) { c.Generator.SubnetPrefix = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestFromEnv(t *testing.T) {
	cfg := Default()
	t.Setenv("NIDS_CAPACITY", "7")
	t.Setenv("NIDS_AUTOSTART", "true")
	t.Setenv("NIDS_ALERT_PROBABILITY", "0.9")
	t.Setenv("NIDS_MIN_INTERVAL_MS", "5")
	t.Setenv("NIDS_HOST_MAX", "not-a-number")
	t.Setenv("NIDS_LOG_LEVEL", "debug")
	FromEnv(&cfg)
	if cfg.Capacity != 7 || !cfg.Autostart || cfg.Generator.AlertProbability != 0.9 || cfg.Generator.MinIntervalMs != 5 {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
	if cfg.Generator.HostMax != 100 {
		t.Fatalf("bad value should be ignored, got %d", cfg.Generator.HostMax)
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("log level: %q", cfg.Log.Level)
	}
}

func TestWatchReloads(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "nidsmon.json")
	if err := os.WriteFile(file, []byte(`{"generator":{"alertProbability":0.1}}`), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	got := make(chan Config, 4)
	errc := make(chan error, 1)
	go func() { errc <- Watch(ctx, file, nil, func(c Config) { got <- c }) }()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(file, []byte(`{"generator":{"alertProbability":0.8}}`), 0644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	select {
	case c := <-got:
		if c.Generator.AlertProbability != 0.8 {
			t.Fatalf("reloaded probability %v", c.Generator.AlertProbability)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("no reload observed")
	}
	cancel()
	select {
	case err := <-errc:
		if err != nil {
			t.Fatalf("watch: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("Watch did not return after cancel")
	}
}

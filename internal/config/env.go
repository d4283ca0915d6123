package config

import (
	"os"
	"strconv"
)

// FromEnv overlays NIDS_* environment variables onto cfg. Unparseable values
// are ignored.
func FromEnv(cfg *Config) {
	if v := os.Getenv("NIDS_CAPACITY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Capacity = n
		}
	}
	if v := os.Getenv("NIDS_AUTOSTART"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Autostart = b
		}
	}
	if v := os.Getenv("NIDS_MIN_INTERVAL_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Generator.MinIntervalMs = n
		}
	}
	if v := os.Getenv("NIDS_MAX_INTERVAL_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Generator.MaxIntervalMs = n
		}
	}
	if v := os.Getenv("NIDS_ALERT_PROBABILITY"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Generator.AlertProbability = f
		}
	}
	if v := os.Getenv("NIDS_SUBNET_PREFIX"); v != "" {
		cfg.Generator.SubnetPrefix = v
	}
	if v := os.Getenv("NIDS_HOST_MIN"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Generator.HostMin = n
		}
	}
	if v := os.Getenv("NIDS_HOST_MAX"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Generator.HostMax = n
		}
	}
	if v := os.Getenv("NIDS_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("NIDS_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
}

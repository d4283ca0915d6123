package generator

import (
	"errors"
	"fmt"
	"time"
)

// Config controls pacing and classification of generated events.
type Config struct {
	MinInterval      time.Duration
	MaxInterval      time.Duration
	AlertProbability float64
	SubnetPrefix     string
	HostMin          int
	HostMax          int
}

// DefaultConfig returns 1–3s pacing, 30% alerts, hosts 192.168.1.2–100.
func DefaultConfig() Config {
	return Config{
		MinInterval:      1 * time.Second,
		MaxInterval:      3 * time.Second,
		AlertProbability: 0.3,
		SubnetPrefix:     "192.168.1.",
		HostMin:          2,
		HostMax:          100,
	}
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	if c.MinInterval < 0 {
		return errors.New("min interval must be >= 0")
	}
	if c.MaxInterval < c.MinInterval {
		return fmt.Errorf("max interval %s below min interval %s", c.MaxInterval, c.MinInterval)
	}
	if c.AlertProbability < 0 || c.AlertProbability > 1 {
		return fmt.Errorf("alert probability %v outside [0,1]", c.AlertProbability)
	}
	if c.HostMin < 0 || c.HostMax < c.HostMin {
		return fmt.Errorf("invalid host range [%d,%d]", c.HostMin, c.HostMax)
	}
	return nil
}

package positions

import (
	"errors"
	"os"
	"strconv"
	"time"
)

// Config tunes the position source. Defaults match the reference cadence of
// one emission per animal every 5 seconds.
type Config struct {
	// TickInterval is the monitoring cadence per session.
	TickInterval time.Duration

	// StepDeg is the per-tick drift magnitude in degrees (~0.0003 ≈ 33 m).
	StepDeg float64

	// JitterDeg is the bounded random noise added on top of the drift.
	JitterDeg float64

	// BatteryDrainChance is the per-tick probability that a tracker loses
	// one percent of battery.
	BatteryDrainChance float64
}

// LoadFromEnv loads position-source configuration from environment variables.
//
// Environment variables:
//   - MONITOR_TICK_INTERVAL: Go duration (default "5s")
//   - MONITOR_STEP_DEG: drift step in degrees (default 0.0003)
//   - MONITOR_JITTER_DEG: jitter bound in degrees (default 0.0002)
//   - MONITOR_BATTERY_DRAIN_CHANCE: 0..1 (default 0.05)
func LoadFromEnv() Config {
	cfg := Config{
		TickInterval:       5 * time.Second,
		StepDeg:            0.0003,
		JitterDeg:          0.0002,
		BatteryDrainChance: 0.05,
	}

	if v := os.Getenv("MONITOR_TICK_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.TickInterval = d
		}
	}
	if v := os.Getenv("MONITOR_STEP_DEG"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.StepDeg = f
		}
	}
	if v := os.Getenv("MONITOR_JITTER_DEG"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.JitterDeg = f
		}
	}
	if v := os.Getenv("MONITOR_BATTERY_DRAIN_CHANCE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.BatteryDrainChance = f
		}
	}
	return cfg
}

func (c Config) Validate() error {
	if c.TickInterval <= 0 {
		return errors.New("tick interval must be positive")
	}
	if c.StepDeg < 0 || c.JitterDeg < 0 {
		return errors.New("drift step and jitter must be non-negative")
	}
	if c.BatteryDrainChance < 0 || c.BatteryDrainChance > 1 {
		return errors.New("battery drain chance must be within [0, 1]")
	}
	return nil
}

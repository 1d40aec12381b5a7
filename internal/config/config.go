package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/Dicklesworthstone/system_observer/internal/errors"
)

// EnvPrefix namespaces environment overrides, e.g. SYSTEM_OBSERVER_CPU_WINDOW.
const EnvPrefix = "SYSTEM_OBSERVER"

// Keys shared by flags, env vars and viper lookups.
const (
	KeyTick       = "tick"
	KeyCPUWindow  = "cpu-window"
	KeyInterval   = "interval"
	KeyLogFile    = "log-file"
	KeyJSON       = "json"
	KeyJSONStream = "json-stream"
	KeyYAML       = "yaml"
)

// Bounds for the timing options.
const (
	MinTick      = 10 * time.Millisecond
	MaxTick      = time.Second
	MinCPUWindow = 100 * time.Millisecond
	MaxCPUWindow = 2 * time.Second
)

// Config carries runtime options for system-observer.
type Config struct {
	Tick       time.Duration // input poll granularity
	CPUWindow  time.Duration // gap between the two CPU reads of a sample
	Interval   time.Duration // --json-stream cadence
	LogFile    string
	JSON       bool
	JSONStream bool
	YAML       bool
}

func Default() Config {
	return Config{
		Tick:      50 * time.Millisecond,
		CPUWindow: 200 * time.Millisecond,
		Interval:  time.Second,
	}
}

// Load reads a Config out of v, which the CLI has bound to flags and env.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		Tick:       v.GetDuration(KeyTick),
		CPUWindow:  v.GetDuration(KeyCPUWindow),
		Interval:   v.GetDuration(KeyInterval),
		LogFile:    v.GetString(KeyLogFile),
		JSON:       v.GetBool(KeyJSON),
		JSONStream: v.GetBool(KeyJSONStream),
		YAML:       v.GetBool(KeyYAML),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the timing bounds and output-mode exclusivity.
func (c Config) Validate() error {
	if c.Tick < MinTick || c.Tick > MaxTick {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("tick %s is out of range", c.Tick),
			fmt.Sprintf("Use a value between %s and %s, e.g. --tick 50ms", MinTick, MaxTick))
	}
	if c.CPUWindow < MinCPUWindow || c.CPUWindow > MaxCPUWindow {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("cpu window %s is out of range", c.CPUWindow),
			fmt.Sprintf("Use a value between %s and %s, e.g. --cpu-window 200ms", MinCPUWindow, MaxCPUWindow))
	}
	if c.JSONStream && c.Interval <= c.CPUWindow {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("stream interval %s must exceed the cpu window %s", c.Interval, c.CPUWindow),
			"Raise --interval or lower --cpu-window")
	}
	modes := 0
	for _, on := range []bool{c.JSON, c.JSONStream, c.YAML} {
		if on {
			modes++
		}
	}
	if modes > 1 {
		return errors.New(errors.ErrConfig,
			"only one of --json, --json-stream and --yaml may be set",
			"Pick a single output mode")
	}
	return nil
}

// Interactive reports whether the dashboard should run, as opposed to a
// one-shot or streaming dump.
func (c Config) Interactive() bool {
	return !c.JSON && !c.JSONStream && !c.YAML
}

// Package cmn provides common types and utilities for all oesort packages
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package cmn

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/oesort/oesort/cmn/cos"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	LogLevelInfo  = "info"
	LogLevelDebug = "debug"

	verbosityDebug = 4
)

type (
	LogConf struct {
		Dir      string `json:"dir" yaml:"dir"`             // empty: stderr
		Level    string `json:"level" yaml:"level"`         // "info" | "debug" | verbosity (0-5)
		MaxSize  int64  `json:"max_size" yaml:"max_size"`   // size that triggers log rotation
		ToStderr bool   `json:"to_stderr" yaml:"to_stderr"` // when Dir is set: duplicate to stderr
	}
	NetConf struct {
		Listen           string       `json:"listen" yaml:"listen"` // overrides this rank's entry in Peers
		Peers            []string     `json:"peers" yaml:"peers"`   // host:port, indexed by rank
		DialTimeout      cos.Duration `json:"dial_timeout" yaml:"dial_timeout"`
		HandshakeTimeout cos.Duration `json:"handshake_timeout" yaml:"handshake_timeout"`
	}
	TimingConf struct {
		Report bool `json:"report" yaml:"report"`
	}
	MetricsConf struct {
		Enabled bool `json:"enabled" yaml:"enabled"`
	}
	IntegrityConf struct {
		Enabled bool `json:"enabled" yaml:"enabled"`
	}
	TracingConf struct {
		Enabled     bool    `json:"enabled" yaml:"enabled"`
		Endpoint    string  `json:"exporter_endpoint" yaml:"exporter_endpoint"`
		ServiceName string  `json:"service_name" yaml:"service_name"`
		SampleRatio float64 `json:"sample_ratio" yaml:"sample_ratio"`
		Insecure    bool    `json:"insecure" yaml:"insecure"`
	}

	// all of the above
	Config struct {
		Log       LogConf       `json:"log" yaml:"log"`
		Net       NetConf       `json:"net" yaml:"net"`
		Timing    TimingConf    `json:"timing" yaml:"timing"`
		Metrics   MetricsConf   `json:"metrics" yaml:"metrics"`
		Integrity IntegrityConf `json:"integrity" yaml:"integrity"`
		Tracing   TracingConf   `json:"tracing" yaml:"tracing"`
		MaxRounds int64         `json:"max_rounds" yaml:"max_rounds"` // 0: unlimited
	}
)

func DefaultConfig() *Config {
	return &Config{
		Log: LogConf{
			Level:   LogLevelInfo,
			MaxSize: 4 * cos.MiB,
		},
		Net: NetConf{
			DialTimeout:      cos.Duration(30 * time.Second),
			HandshakeTimeout: cos.Duration(10 * time.Second),
		},
		Timing:    TimingConf{Report: true},
		Integrity: IntegrityConf{Enabled: true},
		Tracing: TracingConf{
			ServiceName: "oesort",
			SampleRatio: 1,
		},
	}
}

// LoadConfig reads JSON or YAML (by extension) on top of the defaults.
// Empty path returns the defaults.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()
	if path == "" {
		return config, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config")
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, config)
	default:
		err = cos.JSON.Unmarshal(b, config)
	}
	if err != nil {
		return nil, cos.NewErrUsage("failed to parse config %q: %v", path, err)
	}
	return config, nil
}

// environment overrides the file
func (c *Config) ApplyEnv() error {
	if v := os.Getenv(EnvLogDir); v != "" {
		c.Log.Dir = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	for name, b := range map[string]*bool{
		EnvTiming:    &c.Timing.Report,
		EnvMetrics:   &c.Metrics.Enabled,
		EnvIntegrity: &c.Integrity.Enabled,
		EnvTracing:   &c.Tracing.Enabled,
	} {
		v := os.Getenv(name)
		if v == "" {
			continue
		}
		yes, err := cos.ParseBool(v)
		if err != nil {
			return cos.NewErrUsage("%s=%q: %v", name, v, err)
		}
		*b = yes
	}
	if v := os.Getenv(EnvMaxRounds); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return cos.NewErrUsage("%s=%q: %v", EnvMaxRounds, v, err)
		}
		c.MaxRounds = n
	}
	return nil
}

func (c *Config) Validate() error {
	if _, err := c.Log.Verbosity(); err != nil {
		return err
	}
	if c.MaxRounds < 0 {
		return cos.NewErrUsage("max_rounds must be non-negative, got %d", c.MaxRounds)
	}
	if c.Net.DialTimeout <= 0 || c.Net.HandshakeTimeout <= 0 {
		return cos.NewErrUsage("network timeouts must be positive (dial %v, handshake %v)",
			c.Net.DialTimeout, c.Net.HandshakeTimeout)
	}
	if c.Tracing.Enabled {
		if c.Tracing.Endpoint == "" {
			return cos.NewErrUsage("tracing enabled but exporter endpoint is empty")
		}
		if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
			return cos.NewErrUsage("tracing sample ratio must be in [0, 1], got %f", c.Tracing.SampleRatio)
		}
	}
	return nil
}

func (c *LogConf) Verbosity() (int, error) {
	switch strings.ToLower(c.Level) {
	case "", LogLevelInfo:
		return 0, nil
	case LogLevelDebug:
		return verbosityDebug, nil
	}
	v, err := strconv.Atoi(c.Level)
	if err != nil || v < 0 || v > 5 {
		return 0, cos.NewErrUsage("invalid log level %q (expecting %q, %q, or 0-5)", c.Level, LogLevelInfo, LogLevelDebug)
	}
	return v, nil
}

// Package config defines the configuration file shape for a process that
// owns a Persist Region, in the style of coordinator/cfg.go and
// modules/balancer/controlplane/cfg.go: a Config struct with yaml tags, a
// DefaultConfig, and a LoadConfig(path) that starts from the defaults and
// overlays the file on top.
package config

import (
	"fmt"
	"os"

	"github.com/c2h5oh/datasize"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration for a process that owns a Persist
// Region: where it lives, how big it is, which sinks receive frontend
// output, and at what level it logs.
type Config struct {
	// Region configures the persistent memory region.
	Region RegionConfig `yaml:"region"`
	// Sinks lists glob patterns selecting which configured transports
	// receive frontend output; a sink is routed to iff its Name() matches
	// at least one pattern. Defaults to ["*"] (all).
	Sinks []string `yaml:"sinks"`
	// LogLevel is one of zapcore's level names (debug, info, warn, error).
	LogLevel string `yaml:"log_level"`
}

// RegionConfig describes the file-backed mapping hostmem.Open creates.
type RegionConfig struct {
	// Path is the backing file's path on disk.
	Path string `yaml:"path"`
	// Size is the total region size, header included.
	Size datasize.ByteSize `yaml:"size"`
}

// DefaultConfig returns the configuration used when no file is supplied and
// as the base that LoadConfig overlays a file onto.
func DefaultConfig() *Config {
	return &Config{
		Region: RegionConfig{
			Path: "ring.persist",
			Size: 64 * datasize.KB,
		},
		Sinks:    []string{"*"},
		LogLevel: "info",
	}
}

// LoadConfig reads and parses the YAML file at path, starting from
// DefaultConfig so that a file which only sets some fields leaves the rest
// at their defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %q: %w", path, err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}

	return cfg, nil
}

// Level parses LogLevel into a zapcore.Level.
func (c *Config) Level() (zapcore.Level, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("config: log_level %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}

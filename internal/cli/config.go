// Package cli carries the command logic behind the viewsnap binary,
// keeping the cmd package down to flag wiring.
package cli

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is looked up in the working directory when no
// --config flag is given.
const DefaultConfigFile = ".viewsnap.yaml"

// Config holds project-level settings. Flags override file values, file
// values override defaults.
type Config struct {
	// FactoryPath is the directory scanned for *.snap.yaml sources.
	FactoryPath string `yaml:"factory_path"`

	// SnapshotPath is the artifact store root, which also holds the
	// build manifest.
	SnapshotPath string `yaml:"snapshot_path"`

	// RenderCommand is the external renderer invocation; the render
	// descriptor is piped to it as JSON on stdin.
	RenderCommand []string `yaml:"render_command"`

	// Workers bounds build concurrency.
	Workers int `yaml:"workers"`

	// RedisURL switches artifact storage from the filesystem to redis.
	RedisURL string `yaml:"redis_url"`

	// Addr is the preview server listen address.
	Addr string `yaml:"addr"`
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		FactoryPath:  "snapshots",
		SnapshotPath: ".viewsnap/snapshots",
		Workers:      4,
		Addr:         ":8080",
	}
}

// LoadConfig reads settings from a YAML file layered over the defaults.
// A missing file at the default location is not an error; a missing file
// named explicitly is.
func LoadConfig(path string, explicit bool) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if cfg.Workers < 1 {
		return cfg, fmt.Errorf("config %s: workers must be at least 1", path)
	}
	return cfg, nil
}

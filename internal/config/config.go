package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// DBPath locates the embedded store; created on first use.
	DBPath      string `yaml:"db_path"`
	Environment string `yaml:"environment"`
}

func defaults() *Config {
	return &Config{
		DBPath: "fundtrack.db",
	}
}

// Load reads a yaml config file. A missing file is not an error: defaults
// apply.
func Load(path string) (*Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if cfg.DBPath == "" {
		cfg.DBPath = defaults().DBPath
	}

	return cfg, nil
}

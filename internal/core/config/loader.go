package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v2"
)

// Load reads configuration from a JSON or YAML file, chosen by extension.
// Callers fall back to Default() (with a warning) when Load returns an error.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg AppConfig
	// Expand environment variables in the file content
	expanded := []byte(os.ExpandEnv(string(data)))

	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(expanded, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	default:
		if err := json.Unmarshal(expanded, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *AppConfig) {
	// Flat config.json keys win over the nested section when set.
	if cfg.PoolSize > 0 {
		cfg.Dispatch.PoolSize = cfg.PoolSize
	}
	if cfg.RetryCount > 0 {
		cfg.Dispatch.RetryCount = cfg.RetryCount
	}
	if cfg.FailureThreshold > 0 {
		cfg.Dispatch.FailureThreshold = cfg.FailureThreshold
	}

	def := Default()
	if cfg.Dispatch.PoolSize <= 0 {
		cfg.Dispatch.PoolSize = def.Dispatch.PoolSize
	}
	if cfg.Dispatch.RetryCount <= 0 {
		cfg.Dispatch.RetryCount = def.Dispatch.RetryCount
	}
	if cfg.Dispatch.FailureThreshold <= 0 {
		cfg.Dispatch.FailureThreshold = def.Dispatch.FailureThreshold
	}
	if cfg.Dispatch.BaseDelay <= 0 {
		cfg.Dispatch.BaseDelay = def.Dispatch.BaseDelay
	}
	if cfg.Service.Kind == "" {
		cfg.Service.Kind = def.Service.Kind
	}
	if cfg.Service.Timeout <= 0 {
		cfg.Service.Timeout = 30 * time.Second
	}
	if cfg.Output.Path == "" {
		cfg.Output.Path = def.Output.Path
	}
}

package config

import (
	"fmt"
	"sync"
)

var (
	current  *Config
	mu       sync.RWMutex
	initOnce sync.Once
)

// Initialize loads configuration from path with environment overrides and
// stores it as the process-wide configuration. Only the first call has any
// effect.
func Initialize(path string) error {
	var err error
	initOnce.Do(func() {
		var cfg *Config
		cfg, err = LoadConfigWithEnvOverrides(path)
		if err == nil {
			SetConfig(cfg)
		}
	})
	return err
}

// GetConfig returns the process-wide configuration, or nil before a
// successful Initialize.
func GetConfig() *Config {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// SetConfig replaces the process-wide configuration. Used by tests and by
// commands that build a configuration without Initialize.
func SetConfig(cfg *Config) {
	mu.Lock()
	defer mu.Unlock()
	current = cfg
}

// ReloadConfig re-reads path. The current configuration is kept if the new
// one fails to load or validate.
func ReloadConfig(path string) error {
	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		return fmt.Errorf("failed to reload configuration: %w", err)
	}
	SetConfig(cfg)
	return nil
}

// MustGetConfig is like GetConfig but panics when no configuration is set.
func MustGetConfig() *Config {
	cfg := GetConfig()
	if cfg == nil {
		panic("configuration not initialized: call Initialize first")
	}
	return cfg
}

// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Loader resolves configuration with the precedence ENV > file > defaults.
type Loader struct {
	configPath string
}

// NewLoader creates a loader. An empty configPath skips the file layer.
func NewLoader(configPath string) *Loader {
	return &Loader{configPath: configPath}
}

// Load produces a validated AppConfig.
func (l *Loader) Load() (AppConfig, error) {
	cfg := Defaults()

	if l.configPath != "" {
		if err := mergeFile(&cfg, l.configPath); err != nil {
			return AppConfig{}, err
		}
	}
	mergeEnv(&cfg)

	if err := Validate(cfg); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

func mergeFile(cfg *AppConfig, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}

	// Unmarshal over the defaults so absent keys keep their values.
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func mergeEnv(cfg *AppConfig) {
	cfg.BaseURL = ParseString("VTX_BASE_URL", cfg.BaseURL)
	cfg.DataDir = ParseString("VTX_DATA_DIR", cfg.DataDir)
	cfg.PollInterval = ParseDuration("VTX_POLL_INTERVAL", cfg.PollInterval)
	cfg.ActivityInterval = ParseDuration("VTX_ACTIVITY_INTERVAL", cfg.ActivityInterval)
	cfg.WatchTimeout = ParseDuration("VTX_WATCH_TIMEOUT", cfg.WatchTimeout)
	cfg.RequestTimeout = ParseDuration("VTX_REQUEST_TIMEOUT", cfg.RequestTimeout)
	cfg.LogBufferSize = ParseInt("VTX_LOG_BUFFER_SIZE", cfg.LogBufferSize)
	cfg.MaxPollFailures = ParseInt("VTX_MAX_POLL_FAILURES", cfg.MaxPollFailures)
	cfg.SessionBackend = ParseString("VTX_SESSION_BACKEND", cfg.SessionBackend)
	cfg.RedisAddr = ParseString("VTX_REDIS_ADDR", cfg.RedisAddr)
	cfg.MockListenAddr = ParseString("VTX_MOCK_LISTEN_ADDR", cfg.MockListenAddr)
	cfg.LogLevel = ParseString("VTX_LOG_LEVEL", cfg.LogLevel)
}

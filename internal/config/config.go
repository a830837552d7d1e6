// SPDX-License-Identifier: MIT

// Package config loads and validates vtx configuration with the precedence
// ENV > file > defaults.
package config

import (
	"time"

	"github.com/vtx/vtx/internal/validate"
)

// AppConfig holds all settings for the vtx client and its tooling.
type AppConfig struct {
	// BaseURL is the address of the translation service.
	BaseURL string `yaml:"base_url"`

	// DataDir is the root for local state: session store, history database,
	// downloaded artifacts.
	DataDir string `yaml:"data_dir"`

	// PollInterval is the job status poll cadence.
	PollInterval time.Duration `yaml:"poll_interval"`

	// ActivityInterval is the cadence of the cosmetic activity log while a
	// job is processing.
	ActivityInterval time.Duration `yaml:"activity_interval"`

	// WatchTimeout bounds a whole watch session; zero disables the bound.
	WatchTimeout time.Duration `yaml:"watch_timeout"`

	// RequestTimeout applies to individual API requests.
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// LogBufferSize caps the visible process log ring.
	LogBufferSize int `yaml:"log_buffer_size"`

	// MaxPollFailures aborts a watch after this many consecutive transport
	// errors.
	MaxPollFailures int `yaml:"max_poll_failures"`

	// SessionBackend selects the session store: "badger" or "redis".
	SessionBackend string `yaml:"session_backend"`

	// RedisAddr is the redis address when SessionBackend is "redis".
	RedisAddr string `yaml:"redis_addr"`

	// MockListenAddr is the bind address of the simulated backend.
	MockListenAddr string `yaml:"mock_listen_addr"`

	LogLevel string `yaml:"log_level"`
}

// Defaults returns the baseline configuration before file and env overrides.
func Defaults() AppConfig {
	return AppConfig{
		BaseURL:          "http://localhost:8000",
		DataDir:          "data",
		PollInterval:     1200 * time.Millisecond,
		ActivityInterval: 4 * time.Second,
		WatchTimeout:     30 * time.Minute,
		RequestTimeout:   30 * time.Second,
		LogBufferSize:    8,
		MaxPollFailures:  10,
		SessionBackend:   "badger",
		RedisAddr:        "localhost:6379",
		MockListenAddr:   ":8000",
		LogLevel:         "info",
	}
}

// Validate checks the configuration for consistency.
func Validate(cfg AppConfig) error {
	v := validate.New()

	v.URL("BaseURL", cfg.BaseURL, []string{"http", "https"})
	v.NotEmpty("DataDir", cfg.DataDir)
	v.Positive("LogBufferSize", cfg.LogBufferSize)
	v.Positive("MaxPollFailures", cfg.MaxPollFailures)

	if cfg.PollInterval < 100*time.Millisecond {
		v.AddError("PollInterval", "interval below 100ms would hammer the service", cfg.PollInterval)
	}
	if cfg.ActivityInterval <= 0 {
		v.AddError("ActivityInterval", "interval must be positive", cfg.ActivityInterval)
	}
	if cfg.WatchTimeout < 0 {
		v.AddError("WatchTimeout", "timeout cannot be negative", cfg.WatchTimeout)
	}

	switch cfg.SessionBackend {
	case "badger":
	case "redis":
		v.NotEmpty("RedisAddr", cfg.RedisAddr)
	default:
		v.AddError("SessionBackend", "backend must be badger or redis", cfg.SessionBackend)
	}

	if !v.IsValid() {
		return v.Err()
	}
	return nil
}
